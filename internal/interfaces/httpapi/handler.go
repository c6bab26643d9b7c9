package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/adimehta/auction-tracker/internal/platform/logging"
	"github.com/adimehta/auction-tracker/internal/usecase"
)

type Handler struct {
	teamService     *usecase.TeamService
	playerService   *usecase.PlayerService
	statsService    *usecase.StatsService
	settingsService *usecase.SettingsService
	auditService    *usecase.AuditService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	teamService *usecase.TeamService,
	playerService *usecase.PlayerService,
	statsService *usecase.StatsService,
	settingsService *usecase.SettingsService,
	auditService *usecase.AuditService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		teamService:     teamService,
		playerService:   playerService,
		statsService:    statsService,
		settingsService: settingsService,
		auditService:    auditService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeRequest(r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeOptionalRequest tolerates an absent or empty body and leaves dst
// at its zero value in that case.
func decodeOptionalRequest(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", usecase.ErrInvalidInput, name, raw)
	}

	return id, nil
}
