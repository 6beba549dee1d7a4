package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Registration is a trader sign-up as reported by the tracking provider.
type Registration struct {
	ExternalTraderID string
	RegisteredAt     time.Time
	TrackingCode     string
	Afp              string
	Status           string
	Country          string
	Deposits         decimal.Decimal
	Commission       decimal.Decimal
	QualifiedAt      *time.Time
}

const RevshareCommissionType = "Revshare Ongoing PL"

type ProviderCommission struct {
	TraderID       string
	CommissionType string
	Amount         decimal.Decimal
}

type MediaStat struct {
	Date           time.Time
	TrackingCode   string
	Afp            string
	Impressions    int64
	UniqueVisitors int64
	Deposits       decimal.Decimal
}

// TrackingProvider is the third-party affiliate tracking API.
type TrackingProvider interface {
	FetchRegistrations(ctx context.Context, day time.Time) ([]Registration, error)
	FetchCommissions(ctx context.Context, day time.Time) ([]ProviderCommission, error)
	FetchMediaReport(ctx context.Context, day time.Time) ([]MediaStat, error)
}

type ProviderStatsRepository interface {
	UpsertRevshare(ctx context.Context, traderID string, day time.Time, amount decimal.Decimal) error
	UpsertMediaStats(ctx context.Context, stats []MediaStat) error
}
