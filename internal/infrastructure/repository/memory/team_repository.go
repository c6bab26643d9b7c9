package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func (r *TeamRepository) List(_ context.Context) ([]team.Overview, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]team.Overview, 0, len(s.teams))
	for _, item := range s.teams {
		out = append(out, s.overviewLocked(item))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Overview, bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.teams[id]
	if !ok {
		return team.Overview{}, false, nil
	}

	return s.overviewLocked(item), true, nil
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) (team.Team, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.teamNameTakenLocked(t.Name, 0) {
		return team.Team{}, fmt.Errorf("insert team %q: %w", t.Name, team.ErrNameTaken)
	}

	now := time.Now().UTC()
	t.ID = s.nextTeamID
	t.CreatedAt = now
	t.UpdatedAt = now
	s.teams[t.ID] = t
	s.nextTeamID++

	return t, nil
}

func (r *TeamRepository) Update(_ context.Context, id int64, upd team.Update) (team.Team, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.teams[id]
	if !ok {
		return team.Team{}, false, nil
	}

	if upd.Name != nil {
		if s.teamNameTakenLocked(*upd.Name, id) {
			return team.Team{}, false, fmt.Errorf("rename team %d: %w", id, team.ErrNameTaken)
		}
		item.Name = *upd.Name
	}
	if upd.MaxPurse != nil {
		item.MaxPurse = *upd.MaxPurse
	}
	item.UpdatedAt = time.Now().UTC()
	s.teams[id] = item

	return item, true, nil
}

func (r *TeamRepository) Delete(_ context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[id]; !ok {
		return false, nil
	}
	for _, p := range s.players {
		if p.TeamID != nil && *p.TeamID == id {
			return false, auction.ErrTeamHasPlayers
		}
	}
	delete(s.teams, id)

	return true, nil
}

// overviewLocked derives the team's auction numbers. Callers must hold the
// lock.
func (s *Store) overviewLocked(item team.Team) team.Overview {
	out := team.Overview{Team: item}
	for _, p := range s.soldPlayersLocked(item.ID) {
		out.Spent += p.SoldAmount
		out.PlayerCount++
		out.TotalPoints += int64(p.Points)
	}
	out.RemainingPurse = auction.Remaining(item.MaxPurse, out.Spent)

	return out
}
