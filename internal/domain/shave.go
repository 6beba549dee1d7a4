package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CommissionType string

const (
	CommissionPercentage  CommissionType = "percentage"
	CommissionFixedPerFtd CommissionType = "fixed_per_ftd"
)

// Commission is either a PercentageCommission or a FixedPerFtdCommission.
type Commission interface {
	Type() CommissionType
	Value() decimal.Decimal
	sealed()
}

// PercentageCommission diverts Percent% of the target's FTDs to the beneficiary.
type PercentageCommission struct {
	Percent decimal.Decimal
}

func (c PercentageCommission) Type() CommissionType   { return CommissionPercentage }
func (c PercentageCommission) Value() decimal.Decimal { return c.Percent }
func (PercentageCommission) sealed()                  {}

// FixedPerFtdCommission is billed as a flat Amount per FTD of the target.
type FixedPerFtdCommission struct {
	Amount decimal.Decimal
}

func (c FixedPerFtdCommission) Type() CommissionType   { return CommissionFixedPerFtd }
func (c FixedPerFtdCommission) Value() decimal.Decimal { return c.Amount }
func (FixedPerFtdCommission) sealed()                  {}

func NewCommission(commissionType CommissionType, value decimal.Decimal) (Commission, error) {
	switch commissionType {
	case CommissionPercentage, "":
		return PercentageCommission{Percent: value}, nil
	case CommissionFixedPerFtd:
		return FixedPerFtdCommission{Amount: value}, nil
	default:
		return nil, fmt.Errorf("%w: unknown commission type %q", ErrInvalidShave, commissionType)
	}
}

// ShaveRelation: BeneficiaryID receives a share of TargetID's FTDs,
// optionally split with IntermediaryID.
type ShaveRelation struct {
	ID             string
	TargetID       string
	BeneficiaryID  string
	IntermediaryID string
	Commission     Commission
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s *ShaveRelation) HasIntermediary() bool {
	return s.IntermediaryID != ""
}

type ShaveHistoryEntry struct {
	ID            string
	TargetID      string
	BeneficiaryID string
	Commission    Commission
	StartDate     time.Time
	EndDate       *time.Time
}

type ShaveRepository interface {
	// ListShaveRelations returns relations in insertion order.
	ListShaveRelations(ctx context.Context) ([]*ShaveRelation, error)
	GetShaveByID(ctx context.Context, shaveID string) (*ShaveRelation, error)
	CreateShave(ctx context.Context, shave *ShaveRelation, startDate time.Time) error
	// UpdateShave closes the open history row on the day before startDate and
	// opens a new one when historize is set.
	UpdateShave(ctx context.Context, shave *ShaveRelation, historize bool, startDate time.Time) error
	DeleteShave(ctx context.Context, shaveID string, endDate time.Time) error
	ListHistoryForDate(ctx context.Context, targetID string, date time.Time) ([]*ShaveHistoryEntry, error)
}
