package attribution

import (
	"strings"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
)

var DefaultAllowedCountries = []string{"FR", "BE", "CH"}

type RejectReason string

const (
	RejectUnknownTrackingCode RejectReason = "unknown_tracking_code"
	RejectCountry             RejectReason = "country_not_allowed"
	RejectNotQualifiedToday   RejectReason = "not_qualified_today"
	RejectAlreadyAssigned     RejectReason = "already_assigned"
)

// RegistrationFilter selects the registrations of one day that can be attributed.
type RegistrationFilter struct {
	owners    map[string]string
	countries map[string]struct{}
	known     map[string]struct{}
	day       time.Time
}

// NewRegistrationFilter builds a filter for the calendar day of day (in day's location).
// knownIDs are the external trader ids already recorded; the filter takes ownership of the set.
func NewRegistrationFilter(codes []*domain.TrackingCode, allowedCountries []string, knownIDs map[string]struct{}, day time.Time) *RegistrationFilter {
	owners := make(map[string]string, len(codes))
	for _, code := range codes {
		owners[code.Code] = code.OwnerID
	}
	countries := make(map[string]struct{}, len(allowedCountries))
	for _, country := range allowedCountries {
		countries[strings.ToUpper(strings.TrimSpace(country))] = struct{}{}
	}
	if knownIDs == nil {
		knownIDs = make(map[string]struct{})
	}
	return &RegistrationFilter{
		owners:    owners,
		countries: countries,
		known:     knownIDs,
		day:       domain.StartOfDay(day),
	}
}

// Check returns the owner of reg's tracking code, or the reason it is not eligible.
// An accepted registration is remembered so a repeated id in the same batch is dropped.
func (f *RegistrationFilter) Check(reg domain.Registration) (string, RejectReason, bool) {
	if _, seen := f.known[reg.ExternalTraderID]; seen {
		return "", RejectAlreadyAssigned, false
	}
	ownerID, ok := f.owners[reg.TrackingCode]
	if !ok {
		return "", RejectUnknownTrackingCode, false
	}
	if _, ok := f.countries[strings.ToUpper(reg.Country)]; !ok {
		return "", RejectCountry, false
	}
	if !f.qualifiedToday(reg) {
		return "", RejectNotQualifiedToday, false
	}
	f.known[reg.ExternalTraderID] = struct{}{}
	return ownerID, "", true
}

func (f *RegistrationFilter) qualifiedToday(reg domain.Registration) bool {
	if reg.QualifiedAt == nil {
		return false
	}
	return domain.StartOfDay(reg.QualifiedAt.In(f.day.Location())).Equal(f.day)
}

// FilterResult groups eligible registrations by tracking-code owner.
type FilterResult struct {
	ByOwner  map[string][]domain.Registration
	Rejected map[RejectReason]int
	Eligible int
}

func (f *RegistrationFilter) Apply(registrations []domain.Registration) FilterResult {
	result := FilterResult{
		ByOwner:  make(map[string][]domain.Registration),
		Rejected: make(map[RejectReason]int),
	}
	for _, reg := range registrations {
		ownerID, reason, ok := f.Check(reg)
		if !ok {
			result.Rejected[reason]++
			continue
		}
		result.ByOwner[ownerID] = append(result.ByOwner[ownerID], reg)
		result.Eligible++
	}
	return result
}
