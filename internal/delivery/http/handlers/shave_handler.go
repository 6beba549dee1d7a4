package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-ftd-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/usecase"
	shavedto "github.com/LavaJover/shvark-ftd-service/internal/usecase/dto/shave"
	"github.com/go-chi/chi/v5"
)

type ShaveHandler struct {
	uc       usecase.ShaveUsecase
	location *time.Location
	logger   *slog.Logger
}

func NewShaveHandler(uc usecase.ShaveUsecase, location *time.Location, logger *slog.Logger) *ShaveHandler {
	return &ShaveHandler{uc: uc, location: location, logger: logger}
}

func (h *ShaveHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/percentage", h.percentage)
	r.Patch("/{shaveID}", h.update)
	r.Delete("/{shaveID}", h.delete)
}

func (h *ShaveHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		shaves []*domain.ShaveRelation
		err    error
	)
	if targetID := r.URL.Query().Get("target_id"); targetID != "" {
		shaves, err = h.uc.ListShavesByTarget(r.Context(), targetID)
	} else {
		shaves, err = h.uc.ListShaves(r.Context())
	}
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	out := make([]response.ShaveResponse, 0, len(shaves))
	for _, shave := range shaves {
		out = append(out, toShaveResponse(shave))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *ShaveHandler) create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateShaveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	shave, err := h.uc.CreateShave(r.Context(), &shavedto.CreateShaveInput{
		TargetID:       req.TargetID,
		BeneficiaryID:  req.BeneficiaryID,
		IntermediaryID: req.IntermediaryID,
		ShaveParams: shavedto.ShaveParams{
			CommissionType: req.CommissionType,
			Value:          req.Value,
		},
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	h.logger.Info("shave created", "shave_id", shave.ID, "target_id", shave.TargetID, "beneficiary_id", shave.BeneficiaryID)
	respondWithJSON(w, http.StatusCreated, toShaveResponse(shave))
}

func (h *ShaveHandler) update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateShaveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	shave, err := h.uc.UpdateShave(r.Context(), &shavedto.UpdateShaveInput{
		ShaveID:        chi.URLParam(r, "shaveID"),
		IntermediaryID: req.IntermediaryID,
		ShaveParams: shavedto.ShaveParams{
			CommissionType: req.CommissionType,
			Value:          req.Value,
		},
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toShaveResponse(shave))
}

func (h *ShaveHandler) delete(w http.ResponseWriter, r *http.Request) {
	shaveID := chi.URLParam(r, "shaveID")
	if err := h.uc.DeleteShave(r.Context(), shaveID); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	h.logger.Info("shave deleted", "shave_id", shaveID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShaveHandler) percentage(w http.ResponseWriter, r *http.Request) {
	targetID := r.URL.Query().Get("target_id")
	if targetID == "" {
		respondWithError(w, h.logger, domain.ErrInvalidInput)
		return
	}
	day, err := parseDay(r.URL.Query().Get("date"), h.location, time.Now())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	total, err := h.uc.ShavePercentageForDate(r.Context(), targetID, day)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, response.ShavePercentageResponse{
		TargetID:   targetID,
		Date:       day.Format(time.DateOnly),
		Percentage: total,
	})
}

func toShaveResponse(shave *domain.ShaveRelation) response.ShaveResponse {
	return response.ShaveResponse{
		ID:             shave.ID,
		TargetID:       shave.TargetID,
		BeneficiaryID:  shave.BeneficiaryID,
		IntermediaryID: shave.IntermediaryID,
		CommissionType: string(shave.Commission.Type()),
		Value:          shave.Commission.Value(),
		CreatedAt:      shave.CreatedAt,
		UpdatedAt:      shave.UpdatedAt,
	}
}
