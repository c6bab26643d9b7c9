package memory

import (
	"context"
	"strings"
	"time"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func (r *PlayerRepository) List(_ context.Context, filter player.Filter) ([]player.Player, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]player.Player, 0, len(s.players))
	for _, p := range s.players {
		if !matchesFilter(p, filter) {
			continue
		}
		out = append(out, s.withTeamNameLocked(p))
	}
	sortPlayersNewestFirst(out)

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return player.Player{}, false, nil
	}

	return s.withTeamNameLocked(p), true, nil
}

func (r *PlayerRepository) SearchByName(_ context.Context, query string, limit int) ([]player.Player, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]player.Player, 0, limit)
	for _, p := range s.players {
		if !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		out = append(out, s.withTeamNameLocked(p))
	}
	sortPlayersByName(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// CreateSold charges the buying team's purse and stores the player under one
// lock, matching the SQL store's single-transaction contract.
func (r *PlayerRepository) CreateSold(_ context.Context, p player.Player) (player.Player, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPurchaseLocked(*p.TeamID, p.SoldAmount, 0); err != nil {
		return player.Player{}, err
	}

	p.ID = s.nextPlayerID
	p.CreatedAt = time.Now().UTC()
	p.IsUnsold = false
	s.players[p.ID] = p
	s.nextPlayerID++

	return s.withTeamNameLocked(p), nil
}

func (r *PlayerRepository) CreateUnsold(_ context.Context, p player.Player) (player.Player, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextPlayerID
	p.CreatedAt = time.Now().UTC()
	p.IsUnsold = true
	p.TeamID = nil
	p.SoldAmount = 0
	s.players[p.ID] = p
	s.nextPlayerID++

	return p, nil
}

func (r *PlayerRepository) Update(_ context.Context, id int64, upd player.Update) (player.Player, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return player.Player{}, false, nil
	}

	next, err := p.Apply(upd)
	if err != nil {
		return player.Player{}, false, err
	}

	if !next.IsUnsold {
		var own int64
		if !p.IsUnsold && p.TeamID != nil && *p.TeamID == *next.TeamID {
			own = p.SoldAmount
		}
		if err := s.checkPurchaseLocked(*next.TeamID, next.SoldAmount, own); err != nil {
			return player.Player{}, false, err
		}
	}

	s.players[id] = next

	return s.withTeamNameLocked(next), true, nil
}

func (r *PlayerRepository) Delete(_ context.Context, id int64) (player.Player, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return player.Player{}, false, nil
	}
	p = s.withTeamNameLocked(p)
	delete(s.players, id)

	return p, true, nil
}

// checkPurchaseLocked validates a bid against the team's free purse,
// excluding ownAmount the player already has committed to that team.
// Callers must hold the lock.
func (s *Store) checkPurchaseLocked(teamID, amount, ownAmount int64) error {
	t, ok := s.teams[teamID]
	if !ok {
		return auction.ErrUnknownTeam
	}
	spent := s.spentLocked(teamID) - ownAmount

	return auction.CheckPurchase(teamID, t.MaxPurse, spent, amount)
}

func matchesFilter(p player.Player, filter player.Filter) bool {
	if filter.TeamID != nil {
		if p.TeamID == nil || *p.TeamID != *filter.TeamID {
			return false
		}
	}
	if filter.Role != nil && p.Role != *filter.Role {
		return false
	}
	switch filter.Status {
	case player.StatusSold:
		if p.IsUnsold {
			return false
		}
	case player.StatusUnsold:
		if !p.IsUnsold {
			return false
		}
	}
	if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
		return false
	}

	return true
}
