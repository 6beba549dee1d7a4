package background

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/usecase/attribution"
	"github.com/robfig/cron/v3"
)

type BackgroundTasks struct {
	AttributionUsecase attribution.AttributionUsecase
	cron               *cron.Cron
	schedule           string
	runOnStart         bool
	logger             *slog.Logger
}

func NewBackgroundTasks(attributionUC attribution.AttributionUsecase, schedule string, location *time.Location, runOnStart bool, logger *slog.Logger) *BackgroundTasks {
	if location == nil {
		location = time.UTC
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(
		cron.WithLocation(location),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	return &BackgroundTasks{
		AttributionUsecase: attributionUC,
		cron:               c,
		schedule:           schedule,
		runOnStart:         runOnStart,
		logger:             logger,
	}
}

// StartAll registers the attribution job and starts the scheduler.
func (bt *BackgroundTasks) StartAll(ctx context.Context) error {
	if _, err := bt.cron.AddFunc(bt.schedule, func() { bt.RunAttribution(ctx) }); err != nil {
		return err
	}
	bt.logger.Info("scheduled ftd attribution job", "schedule", bt.schedule)

	bt.cron.Start()
	if bt.runOnStart {
		go bt.RunAttribution(ctx)
	}
	return nil
}

// RunAttribution runs one attribution pass. A run already held elsewhere is not an error.
// Once started, the pass is not cancelled by ctx: shutdown waits for it through Stop.
func (bt *BackgroundTasks) RunAttribution(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := bt.AttributionUsecase.RunDaily(context.WithoutCancel(ctx))
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			bt.logger.Info("ftd attribution skipped, another run in progress")
			return
		}
		bt.logger.Error("ftd attribution failed", "error", err)
		return
	}
	bt.logger.Info("ftd attribution completed",
		"run_id", report.RunID,
		"assigned", report.Assigned,
		"failed_owners", len(report.FailedOwners),
	)
}

// Stop returns a context that is done once running jobs have finished.
func (bt *BackgroundTasks) Stop() context.Context {
	return bt.cron.Stop()
}
