package handlers

import (
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-ftd-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-ftd-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/usecase"
	trackingcodedto "github.com/LavaJover/shvark-ftd-service/internal/usecase/dto/trackingcode"
	"github.com/go-chi/chi/v5"
)

type TrackingCodeHandler struct {
	uc     usecase.TrackingCodeUsecase
	logger *slog.Logger
}

func NewTrackingCodeHandler(uc usecase.TrackingCodeUsecase, logger *slog.Logger) *TrackingCodeHandler {
	return &TrackingCodeHandler{uc: uc, logger: logger}
}

func (h *TrackingCodeHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{codeID}", h.delete)
}

func (h *TrackingCodeHandler) list(w http.ResponseWriter, r *http.Request) {
	codes, err := h.uc.ListTrackingCodes(r.Context(), r.URL.Query().Get("owner_id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	out := make([]response.TrackingCodeResponse, 0, len(codes))
	for _, code := range codes {
		out = append(out, toTrackingCodeResponse(code))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *TrackingCodeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTrackingCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	code, err := h.uc.CreateTrackingCode(r.Context(), &trackingcodedto.CreateTrackingCodeInput{
		Code:        req.Code,
		OwnerID:     req.OwnerID,
		DisplayName: req.DisplayName,
		Afp:         req.Afp,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, toTrackingCodeResponse(code))
}

func (h *TrackingCodeHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteTrackingCode(r.Context(), chi.URLParam(r, "codeID")); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toTrackingCodeResponse(code *domain.TrackingCode) response.TrackingCodeResponse {
	return response.TrackingCodeResponse{
		ID:          code.ID,
		Code:        code.Code,
		OwnerID:     code.OwnerID,
		DisplayName: code.DisplayName,
		Afp:         code.Afp,
		CreatedAt:   code.CreatedAt,
	}
}
