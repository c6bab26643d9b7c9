package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/usecase"
)

func (h *Handler) GetStatsReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStatsReport")
	defer span.End()

	report, err := h.statsService.Report(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "build stats report failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportToDTO(ctx, report))
}

func (h *Handler) GetStatsOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStatsOverview")
	defer span.End()

	overview, err := h.statsService.Overview(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "stats overview failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overviewToDTO(ctx, overview))
}

func (h *Handler) GetRoleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoleStats")
	defer span.End()

	var teamID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("teamId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: teamId must be a positive integer, got %q", usecase.ErrInvalidInput, raw))
			return
		}
		teamID = &id
	}

	stats, err := h.statsService.RoleStats(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "role stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]roleStatDTO, 0, len(stats))
	for _, s := range stats {
		items = append(items, roleStatToDTO(ctx, s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTopBids(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTopBids")
	defer span.End()

	bids, err := h.statsService.TopBids(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "top bids failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]topBidDTO, 0, len(bids))
	for _, b := range bids {
		items = append(items, topBidToDTO(ctx, b))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeamSpending(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSpending")
	defer span.End()

	rows, err := h.statsService.TeamSpending(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "team spending failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamSpendingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, teamSpendingToDTO(ctx, row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type statsReportDTO struct {
	Overview     overviewDTO       `json:"overview"`
	ByRole       []roleStatDTO     `json:"byRole"`
	TopPlayers   []topBidDTO       `json:"topPlayers"`
	TeamSpending []teamSpendingDTO `json:"teamSpending"`
}

type overviewDTO struct {
	TotalPlayers int64   `json:"totalPlayers"`
	TotalSpentCr float64 `json:"totalSpentCr"`
	AvgPriceCr   float64 `json:"avgPriceCr"`
	HighestBidCr float64 `json:"highestBidCr"`
	LowestBidCr  float64 `json:"lowestBidCr"`
}

type roleStatDTO struct {
	Role         string  `json:"role"`
	Count        int64   `json:"count"`
	TotalSpentCr float64 `json:"totalSpentCr"`
	AvgPriceCr   float64 `json:"avgPriceCr"`
	TotalPoints  int64   `json:"totalPoints"`
}

type topBidDTO struct {
	PlayerID     int64   `json:"playerId"`
	PlayerName   string  `json:"playerName"`
	Role         string  `json:"role"`
	SoldAmountCr float64 `json:"soldAmountCr"`
	TeamName     string  `json:"teamName"`
}

type teamSpendingDTO struct {
	TeamID      int64   `json:"teamId"`
	TeamName    string  `json:"teamName"`
	MaxPurseCr  float64 `json:"maxPurseCr"`
	SpentCr     float64 `json:"spentCr"`
	RemainingCr float64 `json:"remainingCr"`
	PlayerCount int64   `json:"playerCount"`
}

func reportToDTO(ctx context.Context, v auction.Report) statsReportDTO {
	ctx, span := startSpan(ctx, "httpapi.reportToDTO")
	defer span.End()

	byRole := make([]roleStatDTO, 0, len(v.ByRole))
	for _, s := range v.ByRole {
		byRole = append(byRole, roleStatToDTO(ctx, s))
	}
	topPlayers := make([]topBidDTO, 0, len(v.TopBids))
	for _, b := range v.TopBids {
		topPlayers = append(topPlayers, topBidToDTO(ctx, b))
	}
	spending := make([]teamSpendingDTO, 0, len(v.TeamSpending))
	for _, row := range v.TeamSpending {
		spending = append(spending, teamSpendingToDTO(ctx, row))
	}

	return statsReportDTO{
		Overview:     overviewToDTO(ctx, v.Overview),
		ByRole:       byRole,
		TopPlayers:   topPlayers,
		TeamSpending: spending,
	}
}

func overviewToDTO(ctx context.Context, v auction.Overview) overviewDTO {
	ctx, span := startSpan(ctx, "httpapi.overviewToDTO")
	defer span.End()

	return overviewDTO{
		TotalPlayers: v.TotalPlayers,
		TotalSpentCr: auction.CrFromLakh(v.TotalSpent),
		AvgPriceCr:   v.AvgPrice / 100,
		HighestBidCr: auction.CrFromLakh(v.HighestBid),
		LowestBidCr:  auction.CrFromLakh(v.LowestBid),
	}
}

func roleStatToDTO(ctx context.Context, v auction.RoleStat) roleStatDTO {
	ctx, span := startSpan(ctx, "httpapi.roleStatToDTO")
	defer span.End()

	return roleStatDTO{
		Role:         string(v.Role),
		Count:        v.Count,
		TotalSpentCr: auction.CrFromLakh(v.TotalSpent),
		AvgPriceCr:   v.AvgPrice / 100,
		TotalPoints:  v.TotalPoints,
	}
}

func topBidToDTO(ctx context.Context, v auction.TopBid) topBidDTO {
	ctx, span := startSpan(ctx, "httpapi.topBidToDTO")
	defer span.End()

	return topBidDTO{
		PlayerID:     v.PlayerID,
		PlayerName:   v.PlayerName,
		Role:         string(v.Role),
		SoldAmountCr: auction.CrFromLakh(v.SoldAmount),
		TeamName:     v.TeamName,
	}
}

func teamSpendingToDTO(ctx context.Context, v auction.TeamSpending) teamSpendingDTO {
	ctx, span := startSpan(ctx, "httpapi.teamSpendingToDTO")
	defer span.End()

	return teamSpendingDTO{
		TeamID:      v.TeamID,
		TeamName:    v.TeamName,
		MaxPurseCr:  auction.CrFromLakh(v.MaxPurse),
		SpentCr:     auction.CrFromLakh(v.Spent),
		RemainingCr: auction.CrFromLakh(v.Remaining),
		PlayerCount: v.PlayerCount,
	}
}
