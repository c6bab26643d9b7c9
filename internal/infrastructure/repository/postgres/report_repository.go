package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/player"
)

// ReportRepository reads the derived reporting views. Every call re-scans the
// affected rows.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Overview(ctx context.Context) (auction.Overview, error) {
	const query = `
SELECT COUNT(*)                        AS total_players,
       COALESCE(SUM(sold_amount), 0)  AS total_spent,
       COALESCE(AVG(sold_amount), 0)  AS avg_price,
       COALESCE(MAX(sold_amount), 0)  AS highest_bid,
       COALESCE(MIN(sold_amount), 0)  AS lowest_bid
FROM players
WHERE NOT is_unsold`

	var row struct {
		TotalPlayers int64   `db:"total_players"`
		TotalSpent   int64   `db:"total_spent"`
		AvgPrice     float64 `db:"avg_price"`
		HighestBid   int64   `db:"highest_bid"`
		LowestBid    int64   `db:"lowest_bid"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return auction.Overview{}, fmt.Errorf("select auction overview: %w", err)
	}

	return auction.Overview{
		TotalPlayers: row.TotalPlayers,
		TotalSpent:   row.TotalSpent,
		AvgPrice:     row.AvgPrice,
		HighestBid:   row.HighestBid,
		LowestBid:    row.LowestBid,
	}, nil
}

func (r *ReportRepository) RoleStats(ctx context.Context, teamID *int64) ([]auction.RoleStat, error) {
	query := `
SELECT role,
       COUNT(*)                       AS count,
       COALESCE(SUM(sold_amount), 0) AS total_spent,
       COALESCE(AVG(sold_amount), 0) AS avg_price,
       COALESCE(SUM(points), 0)      AS total_points
FROM players
WHERE NOT is_unsold`
	args := []any{}
	if teamID != nil {
		query += ` AND team_id = $1`
		args = append(args, *teamID)
	}
	query += `
GROUP BY role
ORDER BY role`

	var rows []struct {
		Role        string  `db:"role"`
		Count       int64   `db:"count"`
		TotalSpent  int64   `db:"total_spent"`
		AvgPrice    float64 `db:"avg_price"`
		TotalPoints int64   `db:"total_points"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select role stats: %w", err)
	}

	out := make([]auction.RoleStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, auction.RoleStat{
			Role:        player.Role(row.Role),
			Count:       row.Count,
			TotalSpent:  row.TotalSpent,
			AvgPrice:    row.AvgPrice,
			TotalPoints: row.TotalPoints,
		})
	}

	return out, nil
}

func (r *ReportRepository) TopBids(ctx context.Context, limit int) ([]auction.TopBid, error) {
	const query = `
SELECT p.id                   AS player_id,
       p.name                 AS player_name,
       p.role                 AS role,
       p.sold_amount          AS sold_amount,
       COALESCE(t.name, '')   AS team_name
FROM players p
LEFT JOIN teams t ON t.id = p.team_id
WHERE NOT p.is_unsold
ORDER BY p.sold_amount DESC, p.id
LIMIT $1`

	var rows []struct {
		PlayerID   int64  `db:"player_id"`
		PlayerName string `db:"player_name"`
		Role       string `db:"role"`
		SoldAmount int64  `db:"sold_amount"`
		TeamName   string `db:"team_name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("select top bids: %w", err)
	}

	out := make([]auction.TopBid, 0, len(rows))
	for _, row := range rows {
		out = append(out, auction.TopBid{
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			Role:       player.Role(row.Role),
			SoldAmount: row.SoldAmount,
			TeamName:   row.TeamName,
		})
	}

	return out, nil
}

func (r *ReportRepository) TeamSpending(ctx context.Context) ([]auction.TeamSpending, error) {
	const query = `
SELECT t.id                             AS team_id,
       t.name                           AS team_name,
       t.max_purse                      AS max_purse,
       COALESCE(SUM(p.sold_amount), 0) AS spent,
       COUNT(p.id)                      AS player_count
FROM teams t
LEFT JOIN players p ON p.team_id = t.id AND NOT p.is_unsold
GROUP BY t.id
ORDER BY spent DESC, t.id`

	var rows []struct {
		TeamID      int64  `db:"team_id"`
		TeamName    string `db:"team_name"`
		MaxPurse    int64  `db:"max_purse"`
		Spent       int64  `db:"spent"`
		PlayerCount int64  `db:"player_count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select team spending: %w", err)
	}

	out := make([]auction.TeamSpending, 0, len(rows))
	for _, row := range rows {
		out = append(out, auction.TeamSpending{
			TeamID:      row.TeamID,
			TeamName:    row.TeamName,
			MaxPurse:    row.MaxPurse,
			Spent:       row.Spent,
			Remaining:   auction.Remaining(row.MaxPurse, row.Spent),
			PlayerCount: row.PlayerCount,
		})
	}

	return out, nil
}
