package httpapi

import (
	"net/http"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
)

func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSettings")
	defer span.End()

	settings, err := h.settingsService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list settings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settings)
}

func (h *Handler) UpdateMaxPurse(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMaxPurse")
	defer span.End()

	var req updateMaxPurseRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	maxPurse := auction.LakhFromCr(req.MaxPurseCr)
	affected, err := h.settingsService.UpdateMaxPurse(ctx, maxPurse)
	if err != nil {
		h.logger.WarnContext(ctx, "update max purse failed", "max_purse_cr", req.MaxPurseCr, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, maxPurseUpdateDTO{
		MaxPurseCr:    req.MaxPurseCr,
		AffectedTeams: affected,
	})
}

type updateMaxPurseRequest struct {
	MaxPurseCr float64 `json:"maxPurseCr" validate:"required,gt=0"`
}

type maxPurseUpdateDTO struct {
	MaxPurseCr    float64 `json:"maxPurseCr"`
	AffectedTeams int64   `json:"affectedTeams"`
}
