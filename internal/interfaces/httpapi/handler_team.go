package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/team"
	"github.com/adimehta/auction-tracker/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamOverviewDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamOverviewToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	id, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	overview, err := h.teamService.Get(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamOverviewToDTO(ctx, overview))
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	var req createTeamRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.CreateTeamInput{Name: req.Name}
	if req.MaxPurseCr != nil {
		maxPurse := auction.LakhFromCr(*req.MaxPurseCr)
		input.MaxPurse = &maxPurse
	}

	created, err := h.teamService.Create(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(ctx, created))
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeam")
	defer span.End()

	id, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateTeamRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	upd := team.Update{Name: req.Name}
	if req.MaxPurseCr != nil {
		maxPurse := auction.LakhFromCr(*req.MaxPurseCr)
		upd.MaxPurse = &maxPurse
	}

	updated, err := h.teamService.Update(ctx, id, upd)
	if err != nil {
		h.logger.WarnContext(ctx, "update team failed", "team_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(ctx, updated))
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeam")
	defer span.End()

	id, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.teamService.Delete(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "delete team failed", "team_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) ListTeamPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamPlayers")
	defer span.End()

	id, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.teamService.ListPlayers(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "list team players failed", "team_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type createTeamRequest struct {
	Name       string   `json:"name" validate:"required,max=100"`
	MaxPurseCr *float64 `json:"maxPurseCr" validate:"omitempty,gt=0"`
}

type updateTeamRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=100"`
	MaxPurseCr *float64 `json:"maxPurseCr" validate:"omitempty,gt=0"`
}

type teamDTO struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	MaxPurseCr float64 `json:"maxPurseCr"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

type teamOverviewDTO struct {
	teamDTO
	SpentCr          float64 `json:"spentCr"`
	RemainingPurseCr float64 `json:"remainingPurseCr"`
	PlayerCount      int64   `json:"playerCount"`
	TotalPoints      int64   `json:"totalPoints"`
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:         v.ID,
		Name:       v.Name,
		MaxPurseCr: auction.CrFromLakh(v.MaxPurse),
		CreatedAt:  v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func teamOverviewToDTO(ctx context.Context, v team.Overview) teamOverviewDTO {
	ctx, span := startSpan(ctx, "httpapi.teamOverviewToDTO")
	defer span.End()

	return teamOverviewDTO{
		teamDTO:          teamToDTO(ctx, v.Team),
		SpentCr:          auction.CrFromLakh(v.Spent),
		RemainingPurseCr: auction.CrFromLakh(v.RemainingPurse),
		PlayerCount:      v.PlayerCount,
		TotalPoints:      v.TotalPoints,
	}
}
