package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/shopspring/decimal"
)

type stubManagerRepo struct {
	assigned map[string]string
	deals    map[string]decimal.Decimal
}

func (r *stubManagerRepo) AssignManager(_ context.Context, managerID, affiliateID string, _ time.Time) error {
	r.assigned[affiliateID] = managerID
	return nil
}

func (r *stubManagerRepo) SetManagerDeal(_ context.Context, managerID string, cpa decimal.Decimal) error {
	r.deals[managerID] = cpa
	return nil
}

func (r *stubManagerRepo) GetManagerFor(_ context.Context, affiliateID string) (*domain.ManagerPairing, error) {
	managerID, ok := r.assigned[affiliateID]
	if !ok {
		return nil, nil
	}
	return &domain.ManagerPairing{ManagerID: managerID, AffiliateID: affiliateID, CpaPerFtd: r.deals[managerID]}, nil
}

func TestManagerUsecase(t *testing.T) {
	repo := &stubManagerRepo{assigned: map[string]string{}, deals: map[string]decimal.Decimal{}}
	uc := NewDefaultManagerUsecase(repo)
	ctx := context.Background()

	if err := uc.AssignManager(ctx, "M", "M"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for self pairing, got %v", err)
	}
	if err := uc.SetManagerDeal(ctx, "M", decimal.NewFromInt(-1)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative cpa, got %v", err)
	}
	if err := uc.SetManagerDeal(ctx, "M", decimal.NewFromInt(5)); err != nil {
		t.Fatalf("SetManagerDeal: %v", err)
	}
	if err := uc.AssignManager(ctx, "M", "A"); err != nil {
		t.Fatalf("AssignManager: %v", err)
	}

	pairing, err := uc.GetManagerFor(ctx, "A")
	if err != nil || pairing == nil {
		t.Fatalf("GetManagerFor: %v %v", pairing, err)
	}
	if pairing.ManagerID != "M" || !pairing.CpaPerFtd.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected pairing %+v", pairing)
	}
}
