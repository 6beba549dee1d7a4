package shavedto

import "github.com/shopspring/decimal"

type CreateShaveInput struct {
	TargetID       string
	BeneficiaryID  string
	IntermediaryID string
	ShaveParams    ShaveParams
}

type ShaveParams struct {
	CommissionType string
	Value          decimal.Decimal
}

type UpdateShaveInput struct {
	ShaveID        string
	IntermediaryID *string
	ShaveParams    ShaveParams
}
