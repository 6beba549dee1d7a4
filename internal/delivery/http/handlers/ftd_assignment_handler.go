package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-ftd-service/internal/usecase/attribution"
	"github.com/go-chi/chi/v5"
)

type FtdAssignmentHandler struct {
	uc       attribution.AttributionUsecase
	location *time.Location
	logger   *slog.Logger
}

func NewFtdAssignmentHandler(uc attribution.AttributionUsecase, location *time.Location, logger *slog.Logger) *FtdAssignmentHandler {
	return &FtdAssignmentHandler{uc: uc, location: location, logger: logger}
}

func (h *FtdAssignmentHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Delete("/{ftdUserID}", h.delete)
}

func (h *FtdAssignmentHandler) list(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(r.URL.Query().Get("date"), h.location, time.Now())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	assignments, err := h.uc.ListAssignments(r.Context(), day)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	out := make([]response.FtdAssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, response.FtdAssignmentResponse{
			ExternalTraderID: a.ExternalTraderID,
			AssignedUserID:   a.AssignedUserID,
			RegistrationDate: a.RegistrationDate,
			TrackingCode:     a.TrackingCode,
			Afp:              a.Afp,
			Note:             a.Note,
			AttributedAt:     a.AttributedAt,
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *FtdAssignmentHandler) delete(w http.ResponseWriter, r *http.Request) {
	ftdUserID := chi.URLParam(r, "ftdUserID")
	if err := h.uc.DeleteAssignment(r.Context(), ftdUserID); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	h.logger.Info("ftd assignment deleted", "ftd_user_id", ftdUserID)
	w.WriteHeader(http.StatusNoContent)
}

// run triggers an attribution pass; it is not cancelled when the caller disconnects.
func (h *FtdAssignmentHandler) run(w http.ResponseWriter, r *http.Request) {
	report, err := h.uc.RunDaily(context.WithoutCancel(r.Context()))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	failedOwners := report.FailedOwners
	if failedOwners == nil {
		failedOwners = []string{}
	}
	respondWithJSON(w, http.StatusOK, response.RunReportResponse{
		RunID:        report.RunID,
		Day:          report.Day.Format(time.DateOnly),
		Fetched:      report.Fetched,
		Eligible:     report.Eligible,
		Assigned:     report.Assigned,
		Duplicates:   report.Duplicates,
		Failed:       report.Failed,
		Rejected:     report.Rejected,
		ByUser:       report.ByUser,
		FailedOwners: failedOwners,
	})
}
