package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/shopspring/decimal"
)

type ManagerUsecase interface {
	AssignManager(ctx context.Context, managerID, affiliateID string) error
	SetManagerDeal(ctx context.Context, managerID string, cpaPerFtd decimal.Decimal) error
	GetManagerFor(ctx context.Context, affiliateID string) (*domain.ManagerPairing, error)
}

type DefaultManagerUsecase struct {
	managerRepo domain.ManagerRepository
	now         func() time.Time
}

func NewDefaultManagerUsecase(repo domain.ManagerRepository) *DefaultManagerUsecase {
	return &DefaultManagerUsecase{managerRepo: repo, now: time.Now}
}

// AssignManager pairs the affiliate with a manager from now on; a previous pairing is replaced.
func (uc *DefaultManagerUsecase) AssignManager(ctx context.Context, managerID, affiliateID string) error {
	if managerID == "" || affiliateID == "" {
		return fmt.Errorf("%w: manager and affiliate are required", domain.ErrInvalidInput)
	}
	if managerID == affiliateID {
		return fmt.Errorf("%w: manager cannot manage itself", domain.ErrInvalidInput)
	}
	return uc.managerRepo.AssignManager(ctx, managerID, affiliateID, uc.now())
}

func (uc *DefaultManagerUsecase) SetManagerDeal(ctx context.Context, managerID string, cpaPerFtd decimal.Decimal) error {
	if managerID == "" || cpaPerFtd.IsNegative() {
		return fmt.Errorf("%w: manager and a non-negative cpa are required", domain.ErrInvalidInput)
	}
	return uc.managerRepo.SetManagerDeal(ctx, managerID, cpaPerFtd)
}

func (uc *DefaultManagerUsecase) GetManagerFor(ctx context.Context, affiliateID string) (*domain.ManagerPairing, error) {
	return uc.managerRepo.GetManagerFor(ctx, affiliateID)
}
