package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	shavedto "github.com/LavaJover/shvark-ftd-service/internal/usecase/dto/shave"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShaveUsecase interface {
	ListShaves(ctx context.Context) ([]*domain.ShaveRelation, error)
	ListShavesByTarget(ctx context.Context, targetID string) ([]*domain.ShaveRelation, error)
	CreateShave(ctx context.Context, input *shavedto.CreateShaveInput) (*domain.ShaveRelation, error)
	UpdateShave(ctx context.Context, input *shavedto.UpdateShaveInput) (*domain.ShaveRelation, error)
	DeleteShave(ctx context.Context, shaveID string) error
	ShavePercentageForDate(ctx context.Context, targetID string, date time.Time) (decimal.Decimal, error)
}

type DefaultShaveUsecase struct {
	shaveRepo domain.ShaveRepository
	location  *time.Location
	now       func() time.Time
}

func NewDefaultShaveUsecase(repo domain.ShaveRepository, location *time.Location) *DefaultShaveUsecase {
	if location == nil {
		location = time.UTC
	}
	return &DefaultShaveUsecase{
		shaveRepo: repo,
		location:  location,
		now:       time.Now,
	}
}

func (uc *DefaultShaveUsecase) today() time.Time {
	return domain.StartOfDay(uc.now().In(uc.location))
}

func (uc *DefaultShaveUsecase) ListShaves(ctx context.Context) ([]*domain.ShaveRelation, error) {
	return uc.shaveRepo.ListShaveRelations(ctx)
}

func (uc *DefaultShaveUsecase) ListShavesByTarget(ctx context.Context, targetID string) ([]*domain.ShaveRelation, error) {
	all, err := uc.shaveRepo.ListShaveRelations(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.ShaveRelation
	for _, shave := range all {
		if shave.TargetID == targetID {
			out = append(out, shave)
		}
	}
	return out, nil
}

func (uc *DefaultShaveUsecase) CreateShave(ctx context.Context, input *shavedto.CreateShaveInput) (*domain.ShaveRelation, error) {
	commission, err := domain.NewCommission(domain.CommissionType(input.ShaveParams.CommissionType), input.ShaveParams.Value)
	if err != nil {
		return nil, err
	}
	shave := &domain.ShaveRelation{
		ID:             uuid.New().String(),
		TargetID:       input.TargetID,
		BeneficiaryID:  input.BeneficiaryID,
		IntermediaryID: input.IntermediaryID,
		Commission:     commission,
	}
	if err := validateShave(shave); err != nil {
		return nil, err
	}
	if err := uc.shaveRepo.CreateShave(ctx, shave, uc.today()); err != nil {
		return nil, err
	}
	return shave, nil
}

// UpdateShave records a new history period only when the commission changes.
func (uc *DefaultShaveUsecase) UpdateShave(ctx context.Context, input *shavedto.UpdateShaveInput) (*domain.ShaveRelation, error) {
	shave, err := uc.shaveRepo.GetShaveByID(ctx, input.ShaveID)
	if err != nil {
		return nil, err
	}

	commissionType := domain.CommissionType(input.ShaveParams.CommissionType)
	if commissionType == "" {
		commissionType = shave.Commission.Type()
	}
	commission, err := domain.NewCommission(commissionType, input.ShaveParams.Value)
	if err != nil {
		return nil, err
	}
	historize := commission.Type() != shave.Commission.Type() || !commission.Value().Equal(shave.Commission.Value())

	shave.Commission = commission
	if input.IntermediaryID != nil {
		shave.IntermediaryID = *input.IntermediaryID
	}
	if err := validateShave(shave); err != nil {
		return nil, err
	}
	if err := uc.shaveRepo.UpdateShave(ctx, shave, historize, uc.today()); err != nil {
		return nil, err
	}
	return shave, nil
}

// DeleteShave closes the history period yesterday, so today is no longer shaved.
func (uc *DefaultShaveUsecase) DeleteShave(ctx context.Context, shaveID string) error {
	return uc.shaveRepo.DeleteShave(ctx, shaveID, uc.today().AddDate(0, 0, -1))
}

func (uc *DefaultShaveUsecase) ShavePercentageForDate(ctx context.Context, targetID string, date time.Time) (decimal.Decimal, error) {
	entries, err := uc.shaveRepo.ListHistoryForDate(ctx, targetID, domain.StartOfDay(date.In(uc.location)))
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, entry := range entries {
		if entry.Commission.Type() == domain.CommissionPercentage {
			total = total.Add(entry.Commission.Value())
		}
	}
	return total, nil
}

func validateShave(shave *domain.ShaveRelation) error {
	switch {
	case shave.TargetID == "" || shave.BeneficiaryID == "":
		return fmt.Errorf("%w: target and beneficiary are required", domain.ErrInvalidShave)
	case shave.TargetID == shave.BeneficiaryID:
		return fmt.Errorf("%w: target cannot shave to itself", domain.ErrInvalidShave)
	case shave.HasIntermediary() && (shave.IntermediaryID == shave.TargetID || shave.IntermediaryID == shave.BeneficiaryID):
		return fmt.Errorf("%w: intermediary must differ from target and beneficiary", domain.ErrInvalidShave)
	case !shave.Commission.Value().IsPositive():
		return fmt.Errorf("%w: value must be positive", domain.ErrInvalidShave)
	}
	return nil
}
