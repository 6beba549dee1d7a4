package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultShaveRepository struct {
	DB *gorm.DB
}

func NewDefaultShaveRepository(db *gorm.DB) *DefaultShaveRepository {
	return &DefaultShaveRepository{
		DB: db,
	}
}

func (r *DefaultShaveRepository) ListShaveRelations(ctx context.Context) ([]*domain.ShaveRelation, error) {
	var shaveModels []models.ShaveModel
	if err := r.DB.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&shaveModels).Error; err != nil {
		return nil, err
	}

	shaves := make([]*domain.ShaveRelation, 0, len(shaveModels))
	for i := range shaveModels {
		shave, err := mappers.ToDomainShave(&shaveModels[i])
		if err != nil {
			return nil, err
		}
		shaves = append(shaves, shave)
	}
	return shaves, nil
}

func (r *DefaultShaveRepository) GetShaveByID(ctx context.Context, shaveID string) (*domain.ShaveRelation, error) {
	var model models.ShaveModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", shaveID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrShaveNotFound
		}
		return nil, err
	}
	return mappers.ToDomainShave(&model)
}

// CreateShave stores the shave and opens its history period at startDate.
func (r *DefaultShaveRepository) CreateShave(ctx context.Context, shave *domain.ShaveRelation, startDate time.Time) error {
	model := mappers.ToGORMShave(shave)
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return openHistory(tx, model, startDate)
	})
}

func (r *DefaultShaveRepository) UpdateShave(ctx context.Context, shave *domain.ShaveRelation, historize bool, startDate time.Time) error {
	model := mappers.ToGORMShave(shave)
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ShaveModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]interface{}{
				"intermediary_id": model.IntermediaryID,
				"commission_type": model.CommissionType,
				"value":           model.Value,
				"updated_at":      time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrShaveNotFound
		}
		if !historize {
			return nil
		}
		if err := closeHistory(tx, model.ID, startDate.AddDate(0, 0, -1)); err != nil {
			return err
		}
		return openHistory(tx, model, startDate)
	})
}

func (r *DefaultShaveRepository) DeleteShave(ctx context.Context, shaveID string, endDate time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := closeHistory(tx, shaveID, endDate); err != nil {
			return err
		}
		result := tx.Delete(&models.ShaveModel{}, "id = ?", shaveID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrShaveNotFound
		}
		return nil
	})
}

// ListHistoryForDate returns the history periods of targetID active on date.
func (r *DefaultShaveRepository) ListHistoryForDate(ctx context.Context, targetID string, date time.Time) ([]*domain.ShaveHistoryEntry, error) {
	day := date.Format(time.DateOnly)
	var historyModels []models.ShaveHistoryModel
	if err := r.DB.WithContext(ctx).
		Where("target_id = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)", targetID, day, day).
		Order("start_date ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*domain.ShaveHistoryEntry, 0, len(historyModels))
	for i := range historyModels {
		entry, err := mappers.ToDomainShaveHistory(&historyModels[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func openHistory(tx *gorm.DB, shave *models.ShaveModel, startDate time.Time) error {
	return tx.Create(&models.ShaveHistoryModel{
		ID:             uuid.New().String(),
		ShaveID:        shave.ID,
		TargetID:       shave.TargetID,
		BeneficiaryID:  shave.BeneficiaryID,
		CommissionType: shave.CommissionType,
		Value:          shave.Value,
		StartDate:      calendarDate(startDate),
	}).Error
}

func closeHistory(tx *gorm.DB, shaveID string, endDate time.Time) error {
	return tx.Model(&models.ShaveHistoryModel{}).
		Where("shave_id = ? AND end_date IS NULL", shaveID).
		Update("end_date", calendarDate(endDate)).Error
}

// calendarDate keeps the calendar day of t regardless of the session time zone.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
