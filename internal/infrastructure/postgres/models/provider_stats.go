package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DailyRevshareModel struct {
	TraderID string          `gorm:"primaryKey"`
	Date     time.Time       `gorm:"primaryKey;type:date"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (DailyRevshareModel) TableName() string { return "daily_revshare" }

type DailyMediaStatModel struct {
	Date           time.Time `gorm:"primaryKey;type:date"`
	TrackingCode   string    `gorm:"primaryKey"`
	Afp            string
	Impressions    int64
	UniqueVisitors int64
	Deposits       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
}

func (DailyMediaStatModel) TableName() string { return "daily_media_stats" }
