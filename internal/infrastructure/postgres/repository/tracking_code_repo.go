package repository

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultTrackingCodeRepository struct {
	DB *gorm.DB
}

func NewDefaultTrackingCodeRepository(db *gorm.DB) *DefaultTrackingCodeRepository {
	return &DefaultTrackingCodeRepository{
		DB: db,
	}
}

func (r *DefaultTrackingCodeRepository) ListTrackingCodes(ctx context.Context) ([]*domain.TrackingCode, error) {
	var codeModels []models.TrackingCodeModel
	if err := r.DB.WithContext(ctx).Order("code ASC").Find(&codeModels).Error; err != nil {
		return nil, err
	}
	return toDomainTrackingCodes(codeModels), nil
}

func (r *DefaultTrackingCodeRepository) ListTrackingCodesByOwner(ctx context.Context, ownerID string) ([]*domain.TrackingCode, error) {
	var codeModels []models.TrackingCodeModel
	if err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("code ASC").
		Find(&codeModels).Error; err != nil {
		return nil, err
	}
	return toDomainTrackingCodes(codeModels), nil
}

func (r *DefaultTrackingCodeRepository) CreateTrackingCode(ctx context.Context, code *domain.TrackingCode) error {
	err := r.DB.WithContext(ctx).Create(mappers.ToGORMTrackingCode(code)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrTrackingCodeExists
	}
	return err
}

func (r *DefaultTrackingCodeRepository) DeleteTrackingCode(ctx context.Context, codeID string) error {
	result := r.DB.WithContext(ctx).Delete(&models.TrackingCodeModel{}, "id = ?", codeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTrackingCodeNotFound
	}
	return nil
}

func toDomainTrackingCodes(codeModels []models.TrackingCodeModel) []*domain.TrackingCode {
	codes := make([]*domain.TrackingCode, len(codeModels))
	for i := range codeModels {
		codes[i] = mappers.ToDomainTrackingCode(&codeModels[i])
	}
	return codes
}
