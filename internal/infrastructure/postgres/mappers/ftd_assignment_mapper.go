package mappers

import (
	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/models"
)

func ToDomainFtdAssignment(model *models.FtdAssignmentModel) *domain.FtdAssignment {
	return &domain.FtdAssignment{
		ID:               model.ID,
		ExternalTraderID: model.ExternalTraderID,
		AssignedUserID:   model.AssignedUserID,
		RegistrationDate: model.RegistrationDate,
		TrackingCode:     model.TrackingCode,
		Afp:              model.Afp,
		Note:             model.Note,
		AttributedAt:     model.AttributedAt,
	}
}

func ToGORMFtdAssignment(assignment *domain.FtdAssignment) *models.FtdAssignmentModel {
	return &models.FtdAssignmentModel{
		ID:               assignment.ID,
		ExternalTraderID: assignment.ExternalTraderID,
		AssignedUserID:   assignment.AssignedUserID,
		RegistrationDate: assignment.RegistrationDate,
		TrackingCode:     assignment.TrackingCode,
		Afp:              assignment.Afp,
		Note:             assignment.Note,
		AttributedAt:     assignment.AttributedAt,
	}
}
