package attribution

import (
	"sort"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	// beneficiaryShare of a shave's allocation when the shave has an intermediary.
	beneficiaryShare = decimal.NewFromFloat(0.5)
)

// Decision is the final beneficiary of one registration.
type Decision struct {
	Registration   domain.Registration
	AssignedUserID string
	Role           domain.AssignmentRole
}

// Allocator hands out one owner's FTDs so that, over the whole day, the owner keeps
// round(total * keep%) of them and each shave gets its share of the rest.
// Counters are recomputed after every item.
type Allocator struct {
	ownerID      string
	edges        []ShaveEdge
	keepPercent  decimal.Decimal
	shavePercent decimal.Decimal
	existing     domain.DailyCounters
	counts       map[string]int
	processed    int
}

// NewAllocator seeds an allocator with the assignments already attributed today.
// A shave total above 100 is not clamped: the owner's target then stays at or below zero.
func NewAllocator(ownerID string, edges []ShaveEdge, existing domain.DailyCounters) *Allocator {
	shavePercent := TotalPercent(edges)
	counts := map[string]int{ownerID: 0}
	for _, edge := range edges {
		counts[edge.BeneficiaryID] = 0
		if edge.HasIntermediary() {
			counts[edge.IntermediaryID] = 0
		}
	}
	return &Allocator{
		ownerID:      ownerID,
		edges:        edges,
		keepPercent:  hundred.Sub(shavePercent),
		shavePercent: shavePercent,
		existing:     existing,
		counts:       counts,
	}
}

// Next decides the beneficiary of the next FTD in timestamp order.
func (a *Allocator) Next() (string, domain.AssignmentRole) {
	position := a.processed
	a.processed++

	if len(a.edges) == 0 || !a.shavePercent.IsPositive() {
		return a.assign(a.ownerID, domain.RoleOwner)
	}

	cumulativeTotal := a.existing.Total + position + 1
	targetKept := roundCount(decimal.NewFromInt(int64(cumulativeTotal)).Mul(a.keepPercent).Div(hundred))
	currentKept := a.existing.Kept + a.counts[a.ownerID]
	if currentKept < targetKept {
		return a.assign(a.ownerID, domain.RoleOwner)
	}

	// this item is shaved: count it among today's shaved ones
	shavedToday := (a.existing.Total - a.existing.Kept) + (position + 1 - a.counts[a.ownerID])
	for _, edge := range a.edges {
		expected := roundCount(decimal.NewFromInt(int64(shavedToday)).Mul(edge.Percent).Div(a.shavePercent))
		if edge.HasIntermediary() {
			expectedForUser := roundCount(decimal.NewFromInt(int64(expected)).Mul(beneficiaryShare))
			expectedForIntermediary := expected - expectedForUser
			if a.counts[edge.BeneficiaryID] < expectedForUser {
				return a.assign(edge.BeneficiaryID, domain.RoleBeneficiary)
			}
			if a.counts[edge.IntermediaryID] < expectedForIntermediary {
				return a.assign(edge.IntermediaryID, domain.RoleIntermediary)
			}
			continue
		}
		if a.counts[edge.BeneficiaryID] < expected {
			return a.assign(edge.BeneficiaryID, domain.RoleBeneficiary)
		}
	}

	return a.assign(a.edges[0].BeneficiaryID, domain.RoleFallback)
}

// Counts returns how many FTDs each party received from this allocator.
func (a *Allocator) Counts() map[string]int {
	out := make(map[string]int, len(a.counts))
	for userID, count := range a.counts {
		out[userID] = count
	}
	return out
}

func (a *Allocator) assign(userID string, role domain.AssignmentRole) (string, domain.AssignmentRole) {
	a.counts[userID]++
	return userID, role
}

// Distribute assigns every registration of one owner, earliest registration first.
// Ties on the timestamp are broken by external trader id.
func Distribute(ownerID string, edges []ShaveEdge, existing domain.DailyCounters, registrations []domain.Registration) []Decision {
	ordered := SortByRegistration(registrations)
	allocator := NewAllocator(ownerID, edges, existing)

	decisions := make([]Decision, 0, len(ordered))
	for _, reg := range ordered {
		userID, role := allocator.Next()
		decisions = append(decisions, Decision{
			Registration:   reg,
			AssignedUserID: userID,
			Role:           role,
		})
	}
	return decisions
}

// SortByRegistration returns a copy ordered by registration timestamp ascending.
func SortByRegistration(registrations []domain.Registration) []domain.Registration {
	ordered := make([]domain.Registration, len(registrations))
	copy(ordered, registrations)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].RegisteredAt.Equal(ordered[j].RegisteredAt) {
			return ordered[i].RegisteredAt.Before(ordered[j].RegisteredAt)
		}
		return ordered[i].ExternalTraderID < ordered[j].ExternalTraderID
	})
	return ordered
}

// roundCount rounds half away from zero.
func roundCount(d decimal.Decimal) int {
	return int(d.Round(0).IntPart())
}
