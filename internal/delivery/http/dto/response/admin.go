package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShaveResponse struct {
	ID             string          `json:"id"`
	TargetID       string          `json:"target_id"`
	BeneficiaryID  string          `json:"beneficiary_id"`
	IntermediaryID string          `json:"intermediary_id,omitempty"`
	CommissionType string          `json:"commission_type"`
	Value          decimal.Decimal `json:"value"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ShavePercentageResponse struct {
	TargetID   string          `json:"target_id"`
	Date       string          `json:"date"`
	Percentage decimal.Decimal `json:"percentage"`
}

type TrackingCodeResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	OwnerID     string    `json:"owner_id"`
	DisplayName string    `json:"display_name,omitempty"`
	Afp         string    `json:"afp,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ManagerPairingResponse struct {
	ManagerID   string          `json:"manager_id"`
	AffiliateID string          `json:"affiliate_id"`
	CpaPerFtd   decimal.Decimal `json:"cpa_per_ftd"`
	AssignedAt  time.Time       `json:"assigned_at"`
}

type FtdAssignmentResponse struct {
	ExternalTraderID string    `json:"ftd_user_id"`
	AssignedUserID   string    `json:"assigned_user_id"`
	RegistrationDate time.Time `json:"registration_date"`
	TrackingCode     string    `json:"tracking_code"`
	Afp              string    `json:"afp,omitempty"`
	Note             string    `json:"note,omitempty"`
	AttributedAt     time.Time `json:"attributed_at"`
}

type RunReportResponse struct {
	RunID        string         `json:"run_id"`
	Day          string         `json:"day"`
	Fetched      int            `json:"fetched"`
	Eligible     int            `json:"eligible"`
	Assigned     int            `json:"assigned"`
	Duplicates   int            `json:"duplicates"`
	Failed       int            `json:"failed"`
	Rejected     map[string]int `json:"rejected"`
	ByUser       map[string]int `json:"by_user"`
	FailedOwners []string       `json:"failed_owners"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
