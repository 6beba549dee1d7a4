package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AssignmentRole string

const (
	RoleOwner        AssignmentRole = "owner"
	RoleBeneficiary  AssignmentRole = "beneficiary"
	RoleIntermediary AssignmentRole = "intermediary"
	RoleFallback     AssignmentRole = "fallback"
)

type FtdAssignment struct {
	ID               string
	ExternalTraderID string
	AssignedUserID   string
	RegistrationDate time.Time
	TrackingCode     string
	Afp              string
	Note             string
	AttributedAt     time.Time
}

// DailyCounters are the assignments already attributed today for one owner.
// Kept counts the ones whose final beneficiary is the owner itself.
type DailyCounters struct {
	Total int
	Kept  int
}

// AttributionStore is the view of the store available inside one owner's unit of work.
type AttributionStore interface {
	CountTodayAssignments(ctx context.Context, ownerID string, day time.Time) (DailyCounters, error)
	// InsertAssignment returns ErrDuplicateAssignment when the external trader id is already recorded.
	InsertAssignment(ctx context.Context, assignment *FtdAssignment) error
	GetManagerFor(ctx context.Context, affiliateID string) (*ManagerPairing, error)
	AccrueManagerCommission(ctx context.Context, managerID string, amount decimal.Decimal) error
}

type FtdAssignmentRepository interface {
	ListAssignedExternalIDs(ctx context.Context) (map[string]struct{}, error)
	ListExternalIDsForDay(ctx context.Context, day time.Time) (map[string]struct{}, error)
	// WithinOwnerTx runs fn in a transaction serialized per owner.
	WithinOwnerTx(ctx context.Context, ownerID string, fn func(store AttributionStore) error) error
	ListAssignmentsForDay(ctx context.Context, day time.Time) ([]*FtdAssignment, error)
	DeleteAssignment(ctx context.Context, externalTraderID string) error
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
