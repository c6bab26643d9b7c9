package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/adimehta/auction-tracker/internal/domain/player"
	"github.com/adimehta/auction-tracker/internal/domain/settings"
	"github.com/adimehta/auction-tracker/internal/domain/team"
)

// Store is the shared in-memory state behind the per-domain repositories.
// One mutex guards everything so the purse check and the player write commit
// as a unit, mirroring the transactional contract of the SQL store.
type Store struct {
	mu sync.RWMutex

	teams        map[int64]team.Team
	players      map[int64]player.Player
	settings     map[string]string
	nextTeamID   int64
	nextPlayerID int64
}

func NewStore() *Store {
	return &Store{
		teams:        make(map[int64]team.Team),
		players:      make(map[int64]player.Player),
		settings:     map[string]string{},
		nextTeamID:   1,
		nextPlayerID: 1,
	}
}

// NewSeededStore loads the demo auction used by dev mode and tests.
func NewSeededStore() *Store {
	s := NewStore()
	now := time.Now().UTC()

	for _, item := range SeedTeams() {
		item.ID = s.nextTeamID
		item.CreatedAt = now
		item.UpdatedAt = now
		s.teams[item.ID] = item
		s.nextTeamID++
	}
	for _, item := range SeedPlayers() {
		item.ID = s.nextPlayerID
		item.CreatedAt = now
		s.players[item.ID] = item
		s.nextPlayerID++
	}
	s.settings[settings.KeyMaxPurse] = "10000"

	return s
}

func (s *Store) Teams() *TeamRepository        { return &TeamRepository{store: s} }
func (s *Store) Players() *PlayerRepository    { return &PlayerRepository{store: s} }
func (s *Store) Settings() *SettingsRepository { return &SettingsRepository{store: s} }
func (s *Store) Reports() *ReportRepository    { return &ReportRepository{store: s} }

// teamNameTakenLocked mirrors the unique constraint on the team name column.
// Callers must hold the lock.
func (s *Store) teamNameTakenLocked(name string, excludeID int64) bool {
	for _, t := range s.teams {
		if t.ID != excludeID && t.Name == name {
			return true
		}
	}

	return false
}

// spentLocked sums the committed amounts of a team's sold players.
// Callers must hold the lock.
func (s *Store) spentLocked(teamID int64) int64 {
	var total int64
	for _, p := range s.players {
		if p.IsUnsold || p.TeamID == nil || *p.TeamID != teamID {
			continue
		}
		total += p.SoldAmount
	}

	return total
}

// soldPlayersLocked returns a team's sold players. Callers must hold the lock.
func (s *Store) soldPlayersLocked(teamID int64) []player.Player {
	out := make([]player.Player, 0)
	for _, p := range s.players {
		if p.IsUnsold || p.TeamID == nil || *p.TeamID != teamID {
			continue
		}
		out = append(out, p)
	}

	return out
}

// withTeamNameLocked fills the denormalized team name on a player copy.
// Callers must hold the lock.
func (s *Store) withTeamNameLocked(p player.Player) player.Player {
	if p.TeamID != nil {
		if t, ok := s.teams[*p.TeamID]; ok {
			p.TeamName = t.Name
		}
	}

	return p
}

func sortPlayersByName(items []player.Player) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}

func sortPlayersNewestFirst(items []player.Player) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}
