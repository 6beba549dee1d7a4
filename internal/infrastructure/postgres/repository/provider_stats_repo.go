package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultProviderStatsRepository struct {
	DB *gorm.DB
}

func NewDefaultProviderStatsRepository(db *gorm.DB) *DefaultProviderStatsRepository {
	return &DefaultProviderStatsRepository{
		DB: db,
	}
}

func (r *DefaultProviderStatsRepository) UpsertRevshare(ctx context.Context, traderID string, day time.Time, amount decimal.Decimal) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trader_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount"}),
		}).
		Create(&models.DailyRevshareModel{
			TraderID: traderID,
			Date:     calendarDate(day),
			Amount:   amount,
		}).Error
}

func (r *DefaultProviderStatsRepository) UpsertMediaStats(ctx context.Context, stats []domain.MediaStat) error {
	if len(stats) == 0 {
		return nil
	}
	statModels := make([]models.DailyMediaStatModel, 0, len(stats))
	for _, stat := range stats {
		statModels = append(statModels, models.DailyMediaStatModel{
			Date:           calendarDate(stat.Date),
			TrackingCode:   stat.TrackingCode,
			Afp:            stat.Afp,
			Impressions:    stat.Impressions,
			UniqueVisitors: stat.UniqueVisitors,
			Deposits:       stat.Deposits,
		})
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "tracking_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"afp", "impressions", "unique_visitors", "deposits"}),
		}).
		Create(&statModels).Error
}
