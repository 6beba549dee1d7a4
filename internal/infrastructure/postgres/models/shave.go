package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShaveModel struct {
	ID             string          `gorm:"primaryKey;type:uuid"`
	TargetID       string          `gorm:"not null;index"`
	BeneficiaryID  string          `gorm:"not null"`
	IntermediaryID *string
	CommissionType string          `gorm:"not null;default:percentage"`
	Value          decimal.Decimal `gorm:"type:numeric(12,4);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ShaveModel) TableName() string { return "shaves" }

type ShaveHistoryModel struct {
	ID             string          `gorm:"primaryKey;type:uuid"`
	ShaveID        string          `gorm:"type:uuid;not null;index"`
	TargetID       string          `gorm:"not null;index"`
	BeneficiaryID  string          `gorm:"not null"`
	CommissionType string          `gorm:"not null"`
	Value          decimal.Decimal `gorm:"type:numeric(12,4);not null"`
	StartDate      time.Time       `gorm:"type:date;not null"`
	EndDate        *time.Time      `gorm:"type:date"`
}

func (ShaveHistoryModel) TableName() string { return "shave_history" }
