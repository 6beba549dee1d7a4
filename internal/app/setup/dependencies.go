package setup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/config"
	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	publisher "github.com/LavaJover/shvark-ftd-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/lock"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/tracking"
	redis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const runLockKey = "ftd-service:attribution-run"

type Dependencies struct {
	Config       *config.FtdConfig
	Location     *time.Location
	Logger       *slog.Logger
	DB           *gorm.DB
	Metrics      *metrics.FtdMetrics
	FtdPublisher *publisher.DefaultKafkaPublisher
	Redis        *redis.Client
	RunLocker    domain.RunLocker
	Tracking     domain.TrackingProvider
	Repositories *Repositories
}

type Repositories struct {
	ShaveRepo         domain.ShaveRepository
	TrackingCodeRepo  domain.TrackingCodeRepository
	FtdAssignmentRepo domain.FtdAssignmentRepository
	ManagerRepo       domain.ManagerRepository
	ProviderStatsRepo domain.ProviderStatsRepository
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()

	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	log := logger.New(cfg.LogConfig)

	db := postgres.MustInitDB(cfg)

	deps := &Dependencies{
		Config:   cfg,
		Location: location,
		Logger:   log,
		DB:       db,
		Metrics:  metrics.NewFtdMetrics(nil),
		Tracking: tracking.NewClient(cfg.TrackingAPI, location, log),
		Repositories: &Repositories{
			ShaveRepo:         repository.NewDefaultShaveRepository(db),
			TrackingCodeRepo:  repository.NewDefaultTrackingCodeRepository(db),
			FtdAssignmentRepo: repository.NewDefaultFtdAssignmentRepository(db),
			ManagerRepo:       repository.NewDefaultManagerRepository(db),
			ProviderStatsRepo: repository.NewDefaultProviderStatsRepository(db),
		},
	}

	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		deps.FtdPublisher = publisher.NewDefaultKafkaPublisher(brokers, cfg.KafkaService.Topic, log)
	} else {
		log.Warn("kafka is not configured, ftd events will not be published")
	}

	if cfg.Redis.Addr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		deps.RunLocker = lock.NewRedisLocker(deps.Redis, runLockKey, cfg.Redis.LockTTL, log)
	} else {
		log.Warn("redis is not configured, attribution runs are only serialized within this process")
		deps.RunLocker = lock.NewLocalLocker()
	}

	return deps, nil
}

// Close releases the external connections.
func (d *Dependencies) Close() {
	if d.FtdPublisher != nil {
		if err := d.FtdPublisher.Close(); err != nil {
			d.Logger.Error("failed to close kafka writer", "error", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("failed to close redis client", "error", err)
		}
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
