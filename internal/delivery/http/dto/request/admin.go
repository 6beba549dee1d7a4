package request

import "github.com/shopspring/decimal"

type CreateShaveRequest struct {
	TargetID       string          `json:"target_id"`
	BeneficiaryID  string          `json:"beneficiary_id"`
	IntermediaryID string          `json:"intermediary_id,omitempty"`
	CommissionType string          `json:"commission_type,omitempty"`
	Value          decimal.Decimal `json:"value"`
}

// UpdateShaveRequest: a missing intermediary_id keeps the current one, "" removes it.
type UpdateShaveRequest struct {
	IntermediaryID *string         `json:"intermediary_id,omitempty"`
	CommissionType string          `json:"commission_type,omitempty"`
	Value          decimal.Decimal `json:"value"`
}

type CreateTrackingCodeRequest struct {
	Code        string `json:"code"`
	OwnerID     string `json:"owner_id"`
	DisplayName string `json:"display_name,omitempty"`
	Afp         string `json:"afp,omitempty"`
}

type SetManagerDealRequest struct {
	CpaPerFtd decimal.Decimal `json:"cpa_per_ftd"`
}

type AssignManagerRequest struct {
	ManagerID string `json:"manager_id"`
}
