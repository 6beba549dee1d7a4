package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultManagerRepository struct {
	DB *gorm.DB
}

func NewDefaultManagerRepository(db *gorm.DB) *DefaultManagerRepository {
	return &DefaultManagerRepository{
		DB: db,
	}
}

func (r *DefaultManagerRepository) AssignManager(ctx context.Context, managerID, affiliateID string, assignedAt time.Time) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "affiliate_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"manager_id", "assigned_at"}),
		}).
		Create(&models.ManagerAffiliateAssignmentModel{
			AffiliateID: affiliateID,
			ManagerID:   managerID,
			AssignedAt:  assignedAt,
		}).Error
}

func (r *DefaultManagerRepository) SetManagerDeal(ctx context.Context, managerID string, cpaPerFtd decimal.Decimal) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "manager_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"cpa_per_ftd", "updated_at"}),
		}).
		Create(&models.ManagerDealModel{
			ManagerID: managerID,
			CpaPerFtd: cpaPerFtd,
		}).Error
}

func (r *DefaultManagerRepository) GetManagerFor(ctx context.Context, affiliateID string) (*domain.ManagerPairing, error) {
	return getManagerFor(r.DB.WithContext(ctx), affiliateID)
}

type managerPairingRow struct {
	ManagerID   string
	AffiliateID string
	AssignedAt  time.Time
	CpaPerFtd   decimal.Decimal
}

// getManagerFor returns nil without error when the affiliate has no manager.
func getManagerFor(db *gorm.DB, affiliateID string) (*domain.ManagerPairing, error) {
	var rows []managerPairingRow
	if err := db.Raw(`
		SELECT a.manager_id, a.affiliate_id, a.assigned_at, COALESCE(d.cpa_per_ftd, 0) AS cpa_per_ftd
		FROM manager_affiliate_assignments a
		LEFT JOIN manager_deals d ON d.manager_id = a.manager_id
		WHERE a.affiliate_id = ?
		LIMIT 1`, affiliateID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &domain.ManagerPairing{
		ManagerID:   rows[0].ManagerID,
		AffiliateID: rows[0].AffiliateID,
		CpaPerFtd:   rows[0].CpaPerFtd,
		AssignedAt:  rows[0].AssignedAt,
	}, nil
}
