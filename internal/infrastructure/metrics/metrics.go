package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FtdMetrics содержит метрики задачи атрибуции FTD
type FtdMetrics struct {
	// Запуски
	RunsTotal   *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec

	// Регистрации от трекинг-провайдера
	RegistrationsFetchedTotal  prometheus.Counter
	RegistrationsEligibleTotal prometheus.Counter
	RegistrationsRejectedTotal *prometheus.CounterVec

	// Назначения
	AssignmentsTotal          *prometheus.CounterVec
	DuplicateAssignmentsTotal prometheus.Counter
	AssignmentErrorsTotal     *prometheus.CounterVec

	// Комиссии менеджеров
	ManagerCommissionTotal *prometheus.CounterVec

	OwnerFailuresTotal prometheus.Counter
}

// NewFtdMetrics registers the metrics on reg; nil means the default registerer.
func NewFtdMetrics(reg prometheus.Registerer) *FtdMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &FtdMetrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftd_attribution_runs_total",
				Help: "Attribution runs by final status",
			},
			[]string{"status"},
		),

		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ftd_attribution_run_duration_seconds",
				Help:    "Duration of attribution runs",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"status"},
		),

		RegistrationsFetchedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ftd_registrations_fetched_total",
				Help: "Registrations returned by the tracking provider",
			},
		),

		RegistrationsEligibleTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ftd_registrations_eligible_total",
				Help: "Registrations that passed the attribution filter",
			},
		),

		RegistrationsRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftd_registrations_rejected_total",
				Help: "Registrations dropped by the attribution filter",
			},
			[]string{"reason"},
		),

		AssignmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftd_assignments_total",
				Help: "Recorded FTD assignments by role of the final beneficiary",
			},
			[]string{"role"},
		),

		DuplicateAssignmentsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ftd_assignments_duplicate_total",
				Help: "Inserts skipped because the external trader id was already recorded",
			},
		),

		AssignmentErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftd_assignment_errors_total",
				Help: "Failed writes during attribution",
			},
			[]string{"stage"},
		),

		ManagerCommissionTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftd_manager_commission_total",
				Help: "Per-FTD commission accrued to managers",
			},
			[]string{"manager_id"},
		),

		OwnerFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ftd_owner_batches_failed_total",
				Help: "Owner batches whose transaction failed",
			},
		),
	}
}

func (m *FtdMetrics) RecordRun(status string, durationSeconds float64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.WithLabelValues(status).Observe(durationSeconds)
}

func (m *FtdMetrics) RecordFiltered(fetched, eligible int, rejected map[string]int) {
	m.RegistrationsFetchedTotal.Add(float64(fetched))
	m.RegistrationsEligibleTotal.Add(float64(eligible))
	for reason, count := range rejected {
		m.RegistrationsRejectedTotal.WithLabelValues(reason).Add(float64(count))
	}
}

func (m *FtdMetrics) RecordAssignment(role string) {
	m.AssignmentsTotal.WithLabelValues(role).Inc()
}

func (m *FtdMetrics) RecordDuplicate() {
	m.DuplicateAssignmentsTotal.Inc()
}

func (m *FtdMetrics) RecordError(stage string) {
	m.AssignmentErrorsTotal.WithLabelValues(stage).Inc()
}

func (m *FtdMetrics) RecordManagerCommission(managerID string, amount float64) {
	m.ManagerCommissionTotal.WithLabelValues(managerID).Add(amount)
}

func (m *FtdMetrics) RecordOwnerFailure() {
	m.OwnerFailuresTotal.Inc()
}
