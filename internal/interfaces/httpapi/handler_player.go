package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/player"
	"github.com/adimehta/auction-tracker/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	filter, err := playerFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.List(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	id, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.playerService.Get(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(ctx, item))
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	var req createPlayerRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.CreatePlayerInput{
		Name:     req.Name,
		Role:     player.Role(req.Role),
		TeamID:   req.TeamID,
		Notes:    req.Notes,
		Points:   req.Points,
		IsUnsold: req.IsUnsold,
	}
	if req.SoldAmountCr != nil {
		amount := auction.LakhFromCr(*req.SoldAmountCr)
		input.SoldAmount = &amount
	}

	created, err := h.playerService.Create(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create player failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(ctx, created))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	id, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updatePlayerRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	upd := player.Update{
		Name:     req.Name,
		TeamID:   req.TeamID,
		Notes:    req.Notes,
		Points:   req.Points,
		IsUnsold: req.IsUnsold,
	}
	if req.Role != nil {
		role := player.Role(*req.Role)
		upd.Role = &role
	}
	if req.SoldAmountCr != nil {
		amount := auction.LakhFromCr(*req.SoldAmountCr)
		upd.SoldAmount = &amount
	}

	updated, err := h.playerService.Update(ctx, id, upd)
	if err != nil {
		h.logger.WarnContext(ctx, "update player failed", "player_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(ctx, updated))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	id, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.playerService.Delete(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "player_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchPlayers")
	defer span.End()

	query := r.URL.Query().Get("q")
	players, err := h.playerService.Search(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "search players failed", "query", query, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func playerFilterFromQuery(r *http.Request) (player.Filter, error) {
	query := r.URL.Query()
	filter := player.Filter{
		Status: player.Status(strings.TrimSpace(query.Get("status"))),
		Name:   query.Get("name"),
	}

	if raw := strings.TrimSpace(query.Get("teamId")); raw != "" {
		teamID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || teamID <= 0 {
			return player.Filter{}, fmt.Errorf("%w: teamId must be a positive integer, got %q", usecase.ErrInvalidInput, raw)
		}
		filter.TeamID = &teamID
	}
	if raw := strings.TrimSpace(query.Get("role")); raw != "" {
		role := player.Role(raw)
		filter.Role = &role
	}

	return filter, nil
}

type createPlayerRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Role         string   `json:"role" validate:"required,oneof=WK Batter Bowler AR"`
	SoldAmountCr *float64 `json:"soldAmountCr" validate:"omitempty,gt=0"`
	TeamID       *int64   `json:"teamId" validate:"omitempty,gt=0"`
	Notes        string   `json:"notes" validate:"max=500"`
	Points       int      `json:"points" validate:"gte=0"`
	IsUnsold     bool     `json:"isUnsold"`
}

type updatePlayerRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Role         *string  `json:"role" validate:"omitempty,oneof=WK Batter Bowler AR"`
	SoldAmountCr *float64 `json:"soldAmountCr" validate:"omitempty,gt=0"`
	TeamID       *int64   `json:"teamId" validate:"omitempty,gt=0"`
	Notes        *string  `json:"notes" validate:"omitempty,max=500"`
	Points       *int     `json:"points" validate:"omitempty,gte=0"`
	IsUnsold     *bool    `json:"isUnsold"`
}

type playerDTO struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	SoldAmountCr *float64 `json:"soldAmountCr,omitempty"`
	TeamID       *int64   `json:"teamId,omitempty"`
	TeamName     string   `json:"teamName,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Points       int      `json:"points"`
	IsUnsold     bool     `json:"isUnsold"`
	CreatedAt    string   `json:"createdAt"`
}

func playerToDTO(ctx context.Context, v player.Player) playerDTO {
	ctx, span := startSpan(ctx, "httpapi.playerToDTO")
	defer span.End()

	dto := playerDTO{
		ID:        v.ID,
		Name:      v.Name,
		Role:      string(v.Role),
		TeamName:  v.TeamName,
		Notes:     v.Notes,
		Points:    v.Points,
		IsUnsold:  v.IsUnsold,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
	if !v.IsUnsold {
		soldCr := auction.CrFromLakh(v.SoldAmount)
		dto.SoldAmountCr = &soldCr
		dto.TeamID = v.TeamID
	}

	return dto
}
