package attribution

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
)

// captureRevshare stores today's revshare for the FTDs attributed today. Best effort.
func (uc *DefaultAttributionUsecase) captureRevshare(ctx context.Context, logger *slog.Logger, day time.Time) {
	if uc.StatsRepo == nil {
		return
	}
	commissions, err := uc.Provider.FetchCommissions(ctx, day)
	if err != nil {
		logger.Warn("failed to fetch commissions", "error", err)
		return
	}
	if len(commissions) == 0 {
		return
	}

	todayIDs, err := uc.AssignmentRepo.ListExternalIDsForDay(ctx, day)
	if err != nil {
		logger.Warn("failed to list today's ftds", "error", err)
		return
	}

	stored := 0
	for _, commission := range commissions {
		if commission.CommissionType != domain.RevshareCommissionType {
			continue
		}
		if _, ok := todayIDs[commission.TraderID]; !ok {
			continue
		}
		if err := uc.StatsRepo.UpsertRevshare(ctx, commission.TraderID, day, commission.Amount); err != nil {
			logger.Error("failed to store revshare", "trader_id", commission.TraderID, "error", err)
			continue
		}
		stored++
	}
	logger.Info("revshare captured", "entries", stored)
}

func (uc *DefaultAttributionUsecase) captureMediaStats(ctx context.Context, logger *slog.Logger, day time.Time) {
	if uc.StatsRepo == nil {
		return
	}
	stats, err := uc.Provider.FetchMediaReport(ctx, day)
	if err != nil {
		logger.Warn("failed to fetch media report", "error", err)
		return
	}
	if len(stats) == 0 {
		return
	}
	if err := uc.StatsRepo.UpsertMediaStats(ctx, stats); err != nil {
		logger.Error("failed to store media stats", "error", err)
		return
	}
	logger.Info("media stats captured", "tracking_codes", len(stats))
}
