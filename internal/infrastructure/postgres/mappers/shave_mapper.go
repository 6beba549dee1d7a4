package mappers

import (
	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/models"
)

func ToDomainShave(model *models.ShaveModel) (*domain.ShaveRelation, error) {
	commission, err := domain.NewCommission(domain.CommissionType(model.CommissionType), model.Value)
	if err != nil {
		return nil, err
	}
	shave := &domain.ShaveRelation{
		ID:            model.ID,
		TargetID:      model.TargetID,
		BeneficiaryID: model.BeneficiaryID,
		Commission:    commission,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	if model.IntermediaryID != nil {
		shave.IntermediaryID = *model.IntermediaryID
	}
	return shave, nil
}

func ToGORMShave(shave *domain.ShaveRelation) *models.ShaveModel {
	model := &models.ShaveModel{
		ID:             shave.ID,
		TargetID:       shave.TargetID,
		BeneficiaryID:  shave.BeneficiaryID,
		CommissionType: string(shave.Commission.Type()),
		Value:          shave.Commission.Value(),
		CreatedAt:      shave.CreatedAt,
		UpdatedAt:      shave.UpdatedAt,
	}
	if shave.HasIntermediary() {
		intermediaryID := shave.IntermediaryID
		model.IntermediaryID = &intermediaryID
	}
	return model
}

func ToDomainShaveHistory(model *models.ShaveHistoryModel) (*domain.ShaveHistoryEntry, error) {
	commission, err := domain.NewCommission(domain.CommissionType(model.CommissionType), model.Value)
	if err != nil {
		return nil, err
	}
	return &domain.ShaveHistoryEntry{
		ID:            model.ID,
		TargetID:      model.TargetID,
		BeneficiaryID: model.BeneficiaryID,
		Commission:    commission,
		StartDate:     model.StartDate,
		EndDate:       model.EndDate,
	}, nil
}
