package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultFtdAssignmentRepository struct {
	DB *gorm.DB
}

func NewDefaultFtdAssignmentRepository(db *gorm.DB) *DefaultFtdAssignmentRepository {
	return &DefaultFtdAssignmentRepository{
		DB: db,
	}
}

func (r *DefaultFtdAssignmentRepository) ListAssignedExternalIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := r.DB.WithContext(ctx).
		Model(&models.FtdAssignmentModel{}).
		Pluck("external_trader_id", &ids).Error; err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

func (r *DefaultFtdAssignmentRepository) ListExternalIDsForDay(ctx context.Context, day time.Time) (map[string]struct{}, error) {
	var ids []string
	if err := r.DB.WithContext(ctx).
		Model(&models.FtdAssignmentModel{}).
		Where("attributed_at >= ? AND attributed_at < ?", day, day.AddDate(0, 0, 1)).
		Pluck("external_trader_id", &ids).Error; err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

// WithinOwnerTx holds a transaction-scoped advisory lock on the owner, so concurrent
// runs cannot read the same daily counters.
func (r *DefaultFtdAssignmentRepository) WithinOwnerTx(ctx context.Context, ownerID string, fn func(store domain.AttributionStore) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "ftd-owner:"+ownerID).Error; err != nil {
			return err
		}
		return fn(&ownerTxStore{tx: tx})
	})
}

func (r *DefaultFtdAssignmentRepository) ListAssignmentsForDay(ctx context.Context, day time.Time) ([]*domain.FtdAssignment, error) {
	var assignmentModels []models.FtdAssignmentModel
	if err := r.DB.WithContext(ctx).
		Where("attributed_at >= ? AND attributed_at < ?", day, day.AddDate(0, 0, 1)).
		Order("registration_date ASC, external_trader_id ASC").
		Find(&assignmentModels).Error; err != nil {
		return nil, err
	}

	assignments := make([]*domain.FtdAssignment, len(assignmentModels))
	for i := range assignmentModels {
		assignments[i] = mappers.ToDomainFtdAssignment(&assignmentModels[i])
	}
	return assignments, nil
}

func (r *DefaultFtdAssignmentRepository) DeleteAssignment(ctx context.Context, externalTraderID string) error {
	result := r.DB.WithContext(ctx).Delete(&models.FtdAssignmentModel{}, "external_trader_id = ?", externalTraderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

type ownerTxStore struct {
	tx *gorm.DB
}

// CountTodayAssignments counts today's rows whose tracking code belongs to ownerID.
func (s *ownerTxStore) CountTodayAssignments(ctx context.Context, ownerID string, day time.Time) (domain.DailyCounters, error) {
	var counters struct {
		Total int
		Kept  int
	}
	err := s.tx.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE fa.assigned_user_id = ?) AS kept
		FROM ftd_assignments fa
		JOIN tracking_codes tc ON tc.code = fa.tracking_code
		WHERE tc.owner_id = ?
		  AND fa.attributed_at >= ? AND fa.attributed_at < ?`,
		ownerID, ownerID, day, day.AddDate(0, 0, 1),
	).Scan(&counters).Error
	if err != nil {
		return domain.DailyCounters{}, err
	}
	return domain.DailyCounters{Total: counters.Total, Kept: counters.Kept}, nil
}

// InsertAssignment runs inside a savepoint so a failed row does not poison the owner transaction.
func (s *ownerTxStore) InsertAssignment(ctx context.Context, assignment *domain.FtdAssignment) error {
	var inserted int64
	err := withSavepoint(s.tx.WithContext(ctx), "ftd_insert", func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_trader_id"}},
			DoNothing: true,
		}).Create(mappers.ToGORMFtdAssignment(assignment))
		inserted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return err
	}
	if inserted == 0 {
		return domain.ErrDuplicateAssignment
	}
	return nil
}

func (s *ownerTxStore) GetManagerFor(ctx context.Context, affiliateID string) (*domain.ManagerPairing, error) {
	var pairing *domain.ManagerPairing
	err := withSavepoint(s.tx.WithContext(ctx), "manager_lookup", func(tx *gorm.DB) error {
		var err error
		pairing, err = getManagerFor(tx, affiliateID)
		return err
	})
	return pairing, err
}

// AccrueManagerCommission adds amount to both the FTD earnings and the total balance.
func (s *ownerTxStore) AccrueManagerCommission(ctx context.Context, managerID string, amount decimal.Decimal) error {
	return withSavepoint(s.tx.WithContext(ctx), "manager_accrual", func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"manager_ftd_earnings": gorm.Expr("balances.manager_ftd_earnings + ?", amount),
				"total_balance":        gorm.Expr("balances.total_balance + ?", amount),
				"updated_at":           time.Now(),
			}),
		}).
			Create(&models.BalanceModel{
				UserID:             managerID,
				ManagerFtdEarnings: amount,
				TotalBalance:       amount,
			}).Error
	})
}

func withSavepoint(tx *gorm.DB, name string, fn func(tx *gorm.DB) error) error {
	if err := tx.SavePoint(name).Error; err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.RollbackTo(name).Error; rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
