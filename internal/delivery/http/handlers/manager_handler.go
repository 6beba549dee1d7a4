package handlers

import (
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-ftd-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-ftd-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-ftd-service/internal/usecase"
	"github.com/go-chi/chi/v5"
)

type ManagerHandler struct {
	uc     usecase.ManagerUsecase
	logger *slog.Logger
}

func NewManagerHandler(uc usecase.ManagerUsecase, logger *slog.Logger) *ManagerHandler {
	return &ManagerHandler{uc: uc, logger: logger}
}

func (h *ManagerHandler) setDeal(w http.ResponseWriter, r *http.Request) {
	var req request.SetManagerDealRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	managerID := chi.URLParam(r, "managerID")
	if err := h.uc.SetManagerDeal(r.Context(), managerID, req.CpaPerFtd); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	h.logger.Info("manager deal updated", "manager_id", managerID, "cpa_per_ftd", req.CpaPerFtd.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *ManagerHandler) assign(w http.ResponseWriter, r *http.Request) {
	var req request.AssignManagerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	affiliateID := chi.URLParam(r, "affiliateID")
	if err := h.uc.AssignManager(r.Context(), req.ManagerID, affiliateID); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	h.logger.Info("manager assigned", "manager_id", req.ManagerID, "affiliate_id", affiliateID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ManagerHandler) get(w http.ResponseWriter, r *http.Request) {
	pairing, err := h.uc.GetManagerFor(r.Context(), chi.URLParam(r, "affiliateID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	if pairing == nil {
		respondWithJSON(w, http.StatusNotFound, response.ErrorResponse{Error: "no manager assigned"})
		return
	}
	respondWithJSON(w, http.StatusOK, response.ManagerPairingResponse{
		ManagerID:   pairing.ManagerID,
		AffiliateID: pairing.AffiliateID,
		CpaPerFtd:   pairing.CpaPerFtd,
		AssignedAt:  pairing.AssignedAt,
	})
}
