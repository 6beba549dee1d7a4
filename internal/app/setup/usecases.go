package setup

import (
	"github.com/LavaJover/shvark-ftd-service/internal/usecase"
	"github.com/LavaJover/shvark-ftd-service/internal/usecase/attribution"
)

type UseCases struct {
	AttributionUsecase  attribution.AttributionUsecase
	ShaveUsecase        usecase.ShaveUsecase
	TrackingCodeUsecase usecase.TrackingCodeUsecase
	ManagerUsecase      usecase.ManagerUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	// nil *DefaultKafkaPublisher must not become a non-nil interface
	var events attribution.EventPublisher
	if deps.FtdPublisher != nil {
		events = deps.FtdPublisher
	}

	attributionUsecase := attribution.NewDefaultAttributionUsecase(
		deps.Tracking,
		deps.Repositories.ShaveRepo,
		deps.Repositories.TrackingCodeRepo,
		deps.Repositories.FtdAssignmentRepo,
		deps.Repositories.ProviderStatsRepo,
		deps.RunLocker,
		events,
		deps.Metrics,
		deps.Logger.With("component", "attribution"),
		attribution.Options{
			AllowedCountries: deps.Config.Distribution.AllowedCountries,
			Location:         deps.Location,
			OwnerWorkers:     deps.Config.Distribution.OwnerWorkers,
		},
	)

	return &UseCases{
		AttributionUsecase:  attributionUsecase,
		ShaveUsecase:        usecase.NewDefaultShaveUsecase(deps.Repositories.ShaveRepo, deps.Location),
		TrackingCodeUsecase: usecase.NewDefaultTrackingCodeUsecase(deps.Repositories.TrackingCodeRepo),
		ManagerUsecase:      usecase.NewDefaultManagerUsecase(deps.Repositories.ManagerRepo),
	}
}
