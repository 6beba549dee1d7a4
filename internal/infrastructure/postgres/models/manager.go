package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ManagerDealModel struct {
	ManagerID string          `gorm:"primaryKey"`
	CpaPerFtd decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	UpdatedAt time.Time
}

func (ManagerDealModel) TableName() string { return "manager_deals" }

// одна запись на аффилиата: повторное назначение заменяет менеджера
type ManagerAffiliateAssignmentModel struct {
	AffiliateID string    `gorm:"primaryKey"`
	ManagerID   string    `gorm:"not null;index"`
	AssignedAt  time.Time `gorm:"not null"`
}

func (ManagerAffiliateAssignmentModel) TableName() string { return "manager_affiliate_assignments" }

type BalanceModel struct {
	UserID             string          `gorm:"primaryKey"`
	ManagerFtdEarnings decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalBalance       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	UpdatedAt          time.Time
}

func (BalanceModel) TableName() string { return "balances" }
