package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ManagerPairing struct {
	ManagerID   string
	AffiliateID string
	CpaPerFtd   decimal.Decimal
	AssignedAt  time.Time
}

// EarnsOn reports whether an FTD registered at registeredAt earns the manager a commission.
func (p *ManagerPairing) EarnsOn(registeredAt time.Time) bool {
	return p.CpaPerFtd.IsPositive() && !registeredAt.Before(p.AssignedAt)
}

type ManagerRepository interface {
	AssignManager(ctx context.Context, managerID, affiliateID string, assignedAt time.Time) error
	SetManagerDeal(ctx context.Context, managerID string, cpaPerFtd decimal.Decimal) error
	GetManagerFor(ctx context.Context, affiliateID string) (*ManagerPairing, error)
}
