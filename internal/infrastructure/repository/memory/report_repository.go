package memory

import (
	"context"
	"sort"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/player"
)

type ReportRepository struct {
	store *Store
}

func (r *ReportRepository) Overview(_ context.Context) (auction.Overview, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out auction.Overview
	for _, p := range s.players {
		if p.IsUnsold {
			continue
		}
		out.TotalPlayers++
		out.TotalSpent += p.SoldAmount
		if p.SoldAmount > out.HighestBid {
			out.HighestBid = p.SoldAmount
		}
		if out.LowestBid == 0 || p.SoldAmount < out.LowestBid {
			out.LowestBid = p.SoldAmount
		}
	}
	if out.TotalPlayers > 0 {
		out.AvgPrice = float64(out.TotalSpent) / float64(out.TotalPlayers)
	}

	return out, nil
}

func (r *ReportRepository) RoleStats(_ context.Context, teamID *int64) ([]auction.RoleStat, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	byRole := make(map[player.Role]*auction.RoleStat)
	for _, p := range s.players {
		if p.IsUnsold {
			continue
		}
		if teamID != nil && (p.TeamID == nil || *p.TeamID != *teamID) {
			continue
		}
		stat, ok := byRole[p.Role]
		if !ok {
			stat = &auction.RoleStat{Role: p.Role}
			byRole[p.Role] = stat
		}
		stat.Count++
		stat.TotalSpent += p.SoldAmount
		stat.TotalPoints += int64(p.Points)
	}

	out := make([]auction.RoleStat, 0, len(byRole))
	for _, stat := range byRole {
		stat.AvgPrice = float64(stat.TotalSpent) / float64(stat.Count)
		out = append(out, *stat)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Role < out[j].Role
	})

	return out, nil
}

func (r *ReportRepository) TopBids(_ context.Context, limit int) ([]auction.TopBid, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	sold := make([]player.Player, 0, len(s.players))
	for _, p := range s.players {
		if p.IsUnsold {
			continue
		}
		sold = append(sold, s.withTeamNameLocked(p))
	}
	sort.SliceStable(sold, func(i, j int) bool {
		if sold[i].SoldAmount != sold[j].SoldAmount {
			return sold[i].SoldAmount > sold[j].SoldAmount
		}
		return sold[i].ID < sold[j].ID
	})
	if limit > 0 && len(sold) > limit {
		sold = sold[:limit]
	}

	out := make([]auction.TopBid, 0, len(sold))
	for _, p := range sold {
		out = append(out, auction.TopBid{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Role:       p.Role,
			SoldAmount: p.SoldAmount,
			TeamName:   p.TeamName,
		})
	}

	return out, nil
}

func (r *ReportRepository) TeamSpending(_ context.Context) ([]auction.TeamSpending, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]auction.TeamSpending, 0, len(s.teams))
	for _, item := range s.teams {
		row := auction.TeamSpending{
			TeamID:   item.ID,
			TeamName: item.Name,
			MaxPurse: item.MaxPurse,
		}
		for _, p := range s.soldPlayersLocked(item.ID) {
			row.Spent += p.SoldAmount
			row.PlayerCount++
		}
		row.Remaining = auction.Remaining(item.MaxPurse, row.Spent)
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Spent != out[j].Spent {
			return out[i].Spent > out[j].Spent
		}
		return out[i].TeamID < out[j].TeamID
	})

	return out, nil
}
