package postgres

import (
	"database/sql"
	"time"

	"github.com/adimehta/auction-tracker/internal/domain/player"
)

type playerTableModel struct {
	ID         int64          `db:"id"`
	Name       string         `db:"name"`
	Role       string         `db:"role"`
	SoldAmount int64          `db:"sold_amount"`
	TeamID     sql.NullInt64  `db:"team_id"`
	TeamName   sql.NullString `db:"team_name"`
	Notes      string         `db:"notes"`
	Points     int            `db:"points"`
	IsUnsold   bool           `db:"is_unsold"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (m playerTableModel) toDomain() player.Player {
	out := player.Player{
		ID:         m.ID,
		Name:       m.Name,
		Role:       player.Role(m.Role),
		SoldAmount: m.SoldAmount,
		Notes:      m.Notes,
		Points:     m.Points,
		IsUnsold:   m.IsUnsold,
		CreatedAt:  m.CreatedAt,
	}
	if m.TeamID.Valid {
		id := m.TeamID.Int64
		out.TeamID = &id
	}
	if m.TeamName.Valid {
		out.TeamName = m.TeamName.String
	}

	return out
}

func int64PtrToNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
