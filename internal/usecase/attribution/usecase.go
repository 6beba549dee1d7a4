package attribution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	publisher "github.com/LavaJover/shvark-ftd-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"golang.org/x/sync/errgroup"
)

type AttributionUsecase interface {
	RunDaily(ctx context.Context) (*RunReport, error)
	ListAssignments(ctx context.Context, day time.Time) ([]*domain.FtdAssignment, error)
	DeleteAssignment(ctx context.Context, externalTraderID string) error
}

type EventPublisher interface {
	PublishFtdAssigned(events ...publisher.FtdAssignedEvent) error
}

type Options struct {
	AllowedCountries []string
	Location         *time.Location
	OwnerWorkers     int
	Clock            func() time.Time
}

type DefaultAttributionUsecase struct {
	Provider         domain.TrackingProvider
	ShaveRepo        domain.ShaveRepository
	TrackingCodeRepo domain.TrackingCodeRepository
	AssignmentRepo   domain.FtdAssignmentRepository
	StatsRepo        domain.ProviderStatsRepository
	Locker           domain.RunLocker
	Publisher        EventPublisher
	Metrics          *metrics.FtdMetrics
	Logger           *slog.Logger
	options          Options
}

func NewDefaultAttributionUsecase(
	provider domain.TrackingProvider,
	shaveRepo domain.ShaveRepository,
	trackingCodeRepo domain.TrackingCodeRepository,
	assignmentRepo domain.FtdAssignmentRepository,
	statsRepo domain.ProviderStatsRepository,
	locker domain.RunLocker,
	eventPublisher EventPublisher,
	ftdMetrics *metrics.FtdMetrics,
	logger *slog.Logger,
	options Options,
) *DefaultAttributionUsecase {
	if len(options.AllowedCountries) == 0 {
		options.AllowedCountries = DefaultAllowedCountries
	}
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.OwnerWorkers <= 0 {
		options.OwnerWorkers = 1
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DefaultAttributionUsecase{
		Provider:         provider,
		ShaveRepo:        shaveRepo,
		TrackingCodeRepo: trackingCodeRepo,
		AssignmentRepo:   assignmentRepo,
		StatsRepo:        statsRepo,
		Locker:           locker,
		Publisher:        eventPublisher,
		Metrics:          ftdMetrics,
		Logger:           logger,
		options:          options,
	}
}

// RunReport summarizes one attribution run.
type RunReport struct {
	RunID        string
	Day          time.Time
	Fetched      int
	Eligible     int
	Owners       int
	Assigned     int
	Duplicates   int
	Failed       int
	Rejected     map[string]int
	ByUser       map[string]int
	FailedOwners []string
}

type ownerResult struct {
	recorded   []recordedAssignment
	duplicates int
	failed     int
}

type recordedAssignment struct {
	assignment *domain.FtdAssignment
	ownerID    string
	role       domain.AssignmentRole
}

// RunDaily attributes today's new registrations. Nothing is written when the
// provider call or the configuration reads fail.
func (uc *DefaultAttributionUsecase) RunDaily(ctx context.Context) (*RunReport, error) {
	unlock, err := uc.Locker.TryLock(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) && uc.Metrics != nil {
			uc.Metrics.RecordRun("skipped", 0)
		}
		return nil, err
	}
	defer unlock()

	started := time.Now()
	report, err := uc.run(ctx)
	if uc.Metrics != nil {
		uc.Metrics.RecordRun(runStatus(report, err), time.Since(started).Seconds())
	}
	return report, err
}

// runStatus: "partial" когда упала часть владельцев, "failed" когда запуск не дал результата
func runStatus(report *RunReport, err error) string {
	switch {
	case err != nil:
		return "failed"
	case report != nil && len(report.FailedOwners) > 0:
		return "partial"
	default:
		return "success"
	}
}

func (uc *DefaultAttributionUsecase) run(ctx context.Context) (*RunReport, error) {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	runID := idGenerator()
	logger := uc.Logger.With("run_id", runID)

	now := uc.options.Clock().In(uc.options.Location)
	day := domain.StartOfDay(now)
	logger.Info("starting ftd attribution run", "day", day.Format(time.DateOnly))

	registrations, err := uc.Provider.FetchRegistrations(ctx, day)
	if err != nil {
		logger.Error("failed to fetch registrations", "error", err)
		return nil, fmt.Errorf("fetch registrations: %w", err)
	}

	codes, err := uc.TrackingCodeRepo.ListTrackingCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracking codes: %w", err)
	}
	relations, err := uc.ShaveRepo.ListShaveRelations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shave relations: %w", err)
	}
	knownIDs, err := uc.AssignmentRepo.ListAssignedExternalIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assigned external ids: %w", err)
	}

	graph := BuildShaveGraph(relations)
	filtered := NewRegistrationFilter(codes, uc.options.AllowedCountries, knownIDs, day).Apply(registrations)

	report := &RunReport{
		RunID:    runID,
		Day:      day,
		Fetched:  len(registrations),
		Eligible: filtered.Eligible,
		Rejected: make(map[string]int, len(filtered.Rejected)),
		ByUser:   make(map[string]int),
	}
	for reason, count := range filtered.Rejected {
		report.Rejected[string(reason)] = count
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordFiltered(report.Fetched, report.Eligible, report.Rejected)
	}
	logger.Info("registrations filtered",
		"fetched", report.Fetched,
		"eligible", report.Eligible,
		"owners", len(filtered.ByOwner),
	)

	owners := make([]string, 0, len(filtered.ByOwner))
	for ownerID := range filtered.ByOwner {
		owners = append(owners, ownerID)
	}
	sort.Strings(owners)
	report.Owners = len(owners)

	var mu sync.Mutex
	group := new(errgroup.Group)
	group.SetLimit(uc.options.OwnerWorkers)
	for _, ownerID := range owners {
		ownerID := ownerID
		registrations := filtered.ByOwner[ownerID]
		group.Go(func() error {
			result, err := uc.processOwner(ctx, logger, ownerID, graph.EdgesFor(ownerID), registrations, day, now)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("owner batch failed", "owner_id", ownerID, "registrations", len(registrations), "error", err)
				report.FailedOwners = append(report.FailedOwners, ownerID)
				if uc.Metrics != nil {
					uc.Metrics.RecordOwnerFailure()
				}
				return nil
			}
			report.Duplicates += result.duplicates
			report.Failed += result.failed
			for _, rec := range result.recorded {
				report.Assigned++
				report.ByUser[rec.assignment.AssignedUserID]++
			}
			return nil
		})
	}
	_ = group.Wait()
	sort.Strings(report.FailedOwners)

	uc.captureRevshare(ctx, logger, day)
	uc.captureMediaStats(ctx, logger, day)

	logger.Info("ftd attribution run finished",
		"assigned", report.Assigned,
		"duplicates", report.Duplicates,
		"failed", report.Failed,
		"failed_owners", len(report.FailedOwners),
	)
	for userID, count := range report.ByUser {
		logger.Debug("distribution summary", "user_id", userID, "ftds", count)
	}
	if report.Owners > 0 && len(report.FailedOwners) == report.Owners {
		return report, fmt.Errorf("%w: %d owners", domain.ErrAttributionFailed, report.Owners)
	}
	return report, nil
}

// processOwner reads the owner's counters, decides and writes in one unit of work.
func (uc *DefaultAttributionUsecase) processOwner(
	ctx context.Context,
	logger *slog.Logger,
	ownerID string,
	edges []ShaveEdge,
	registrations []domain.Registration,
	day, now time.Time,
) (*ownerResult, error) {
	logger = logger.With("owner_id", ownerID)
	var result *ownerResult

	err := uc.AssignmentRepo.WithinOwnerTx(ctx, ownerID, func(store domain.AttributionStore) error {
		result = &ownerResult{}

		existing, err := store.CountTodayAssignments(ctx, ownerID, day)
		if err != nil {
			return fmt.Errorf("count today assignments: %w", err)
		}
		logger.Debug("processing owner batch",
			"new_ftds", len(registrations),
			"shaves", len(edges),
			"existing_total", existing.Total,
			"existing_kept", existing.Kept,
		)

		for _, decision := range Distribute(ownerID, edges, existing, registrations) {
			reg := decision.Registration
			assignment := &domain.FtdAssignment{
				ID:               uuid.New().String(),
				ExternalTraderID: reg.ExternalTraderID,
				AssignedUserID:   decision.AssignedUserID,
				RegistrationDate: reg.RegisteredAt,
				TrackingCode:     reg.TrackingCode,
				Afp:              reg.Afp,
				AttributedAt:     now,
			}
			if err := store.InsertAssignment(ctx, assignment); err != nil {
				if errors.Is(err, domain.ErrDuplicateAssignment) {
					logger.Warn("ftd already recorded, skipping", "ftd_user_id", reg.ExternalTraderID)
					result.duplicates++
					if uc.Metrics != nil {
						uc.Metrics.RecordDuplicate()
					}
					continue
				}
				logger.Error("failed to record ftd assignment", "ftd_user_id", reg.ExternalTraderID, "error", err)
				result.failed++
				if uc.Metrics != nil {
					uc.Metrics.RecordError("insert_assignment")
				}
				continue
			}
			logger.Debug("ftd assigned",
				"ftd_user_id", reg.ExternalTraderID,
				"assigned_user_id", decision.AssignedUserID,
				"role", decision.Role,
			)
			result.recorded = append(result.recorded, recordedAssignment{
				assignment: assignment,
				ownerID:    ownerID,
				role:       decision.Role,
			})
			uc.accrueManagerCommission(ctx, logger, store, assignment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range result.recorded {
		if uc.Metrics != nil {
			uc.Metrics.RecordAssignment(string(rec.role))
		}
	}
	uc.publishAssigned(logger, result.recorded)
	return result, nil
}

// accrueManagerCommission credits the assignee's manager; FTDs registered before
// the manager pairing never earn it.
func (uc *DefaultAttributionUsecase) accrueManagerCommission(ctx context.Context, logger *slog.Logger, store domain.AttributionStore, assignment *domain.FtdAssignment) {
	pairing, err := store.GetManagerFor(ctx, assignment.AssignedUserID)
	if err != nil {
		logger.Error("failed to get manager", "user_id", assignment.AssignedUserID, "error", err)
		if uc.Metrics != nil {
			uc.Metrics.RecordError("get_manager")
		}
		return
	}
	if pairing == nil {
		return
	}
	if !pairing.EarnsOn(assignment.RegistrationDate) {
		logger.Debug("ftd not eligible for manager commission",
			"ftd_user_id", assignment.ExternalTraderID,
			"manager_id", pairing.ManagerID,
			"assigned_at", pairing.AssignedAt,
		)
		return
	}
	if err := store.AccrueManagerCommission(ctx, pairing.ManagerID, pairing.CpaPerFtd); err != nil {
		logger.Error("failed to accrue manager commission", "manager_id", pairing.ManagerID, "error", err)
		if uc.Metrics != nil {
			uc.Metrics.RecordError("accrue_manager_commission")
		}
		return
	}
	logger.Info("manager commission accrued",
		"manager_id", pairing.ManagerID,
		"amount", pairing.CpaPerFtd.String(),
		"ftd_user_id", assignment.ExternalTraderID,
	)
	if uc.Metrics != nil {
		uc.Metrics.RecordManagerCommission(pairing.ManagerID, pairing.CpaPerFtd.InexactFloat64())
	}
}

func (uc *DefaultAttributionUsecase) publishAssigned(logger *slog.Logger, recorded []recordedAssignment) {
	if uc.Publisher == nil || len(recorded) == 0 {
		return
	}
	events := make([]publisher.FtdAssignedEvent, 0, len(recorded))
	for _, rec := range recorded {
		events = append(events, publisher.FtdAssignedEvent{
			FtdUserID:        rec.assignment.ExternalTraderID,
			AssignedUserID:   rec.assignment.AssignedUserID,
			OwnerID:          rec.ownerID,
			Role:             string(rec.role),
			TrackingCode:     rec.assignment.TrackingCode,
			RegistrationDate: rec.assignment.RegistrationDate,
			AttributedAt:     rec.assignment.AttributedAt,
		})
	}
	if err := uc.Publisher.PublishFtdAssigned(events...); err != nil {
		logger.Error("failed to publish ftd events", "count", len(events), "error", err)
	}
}

func (uc *DefaultAttributionUsecase) ListAssignments(ctx context.Context, day time.Time) ([]*domain.FtdAssignment, error) {
	return uc.AssignmentRepo.ListAssignmentsForDay(ctx, domain.StartOfDay(day.In(uc.options.Location)))
}

func (uc *DefaultAttributionUsecase) DeleteAssignment(ctx context.Context, externalTraderID string) error {
	if externalTraderID == "" {
		return domain.ErrInvalidInput
	}
	return uc.AssignmentRepo.DeleteAssignment(ctx, externalTraderID)
}
