package mappers

import (
	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/models"
)

func ToDomainTrackingCode(model *models.TrackingCodeModel) *domain.TrackingCode {
	return &domain.TrackingCode{
		ID:          model.ID,
		Code:        model.Code,
		OwnerID:     model.OwnerID,
		DisplayName: model.DisplayName,
		Afp:         model.Afp,
		CreatedAt:   model.CreatedAt,
	}
}

func ToGORMTrackingCode(code *domain.TrackingCode) *models.TrackingCodeModel {
	return &models.TrackingCodeModel{
		ID:          code.ID,
		Code:        code.Code,
		OwnerID:     code.OwnerID,
		DisplayName: code.DisplayName,
		Afp:         code.Afp,
		CreatedAt:   code.CreatedAt,
	}
}
