package postgres

import (
	"time"

	"github.com/adimehta/auction-tracker/internal/domain/team"
)

type teamTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	MaxPurse  int64     `db:"max_purse"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        m.ID,
		Name:      m.Name,
		MaxPurse:  m.MaxPurse,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type teamOverviewModel struct {
	teamTableModel
	Spent       int64 `db:"spent"`
	PlayerCount int64 `db:"player_count"`
	TotalPoints int64 `db:"total_points"`
}

func (m teamOverviewModel) toDomain() team.Overview {
	return team.Overview{
		Team:           m.teamTableModel.toDomain(),
		Spent:          m.Spent,
		RemainingPurse: m.MaxPurse - m.Spent,
		PlayerCount:    m.PlayerCount,
		TotalPoints:    m.TotalPoints,
	}
}
