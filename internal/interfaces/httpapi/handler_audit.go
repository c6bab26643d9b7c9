package httpapi

import (
	"net/http"

	"github.com/adimehta/auction-tracker/internal/usecase"
)

func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAudit")
	defer span.End()

	var req runAuditRequest
	if err := decodeOptionalRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auditService.Run(ctx, usecase.AuditInput{MaxWorkers: req.MaxWorkers})
	if err != nil {
		h.logger.ErrorContext(ctx, "budget audit failed", "max_workers", req.MaxWorkers, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "budget audit completed",
		"team_count", result.TeamCount,
		"overspent_count", result.OverspentCount,
		"worker_count", result.WorkerCount,
		"duration_ms", result.DurationMs,
	)

	writeSuccess(ctx, w, http.StatusOK, result)
}

type runAuditRequest struct {
	MaxWorkers int `json:"maxWorkers" validate:"omitempty,gte=1,lte=64"`
}
