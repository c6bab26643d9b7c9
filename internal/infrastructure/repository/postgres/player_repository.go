package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/player"
	qb "github.com/adimehta/auction-tracker/internal/platform/querybuilder"
)

var playerColumns = []string{
	"p.id", "p.name", "p.role", "p.sold_amount", "p.team_id",
	"t.name AS team_name", "p.notes", "p.points", "p.is_unsold", "p.created_at",
}

const playerFromClause = "players p LEFT JOIN teams t ON t.id = p.team_id"

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	builder := qb.Select(playerColumns...).
		From(playerFromClause).
		OrderBy("p.created_at DESC", "p.id DESC")
	if filter.TeamID != nil {
		builder.Where(qb.Eq("p.team_id", *filter.TeamID))
	}
	if filter.Role != nil {
		builder.Where(qb.Eq("p.role", string(*filter.Role)))
	}
	switch filter.Status {
	case player.StatusSold:
		builder.Where(qb.Expr("NOT p.is_unsold"))
	case player.StatusUnsold:
		builder.Where(qb.Expr("p.is_unsold"))
	}
	if filter.Name != "" {
		builder.Where(qb.ILike("p.name", "%"+filter.Name+"%"))
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	query, args, err := qb.Select(playerColumns...).
		From(playerFromClause).
		Where(qb.Eq("p.id", id)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) SearchByName(ctx context.Context, query string, limit int) ([]player.Player, error) {
	sqlQuery, args, err := qb.Select(playerColumns...).
		From(playerFromClause).
		Where(qb.ILike("p.name", "%"+query+"%")).
		OrderBy("p.name", "p.id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("search players by name: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// CreateSold locks the buying team's row, re-derives its spend and inserts
// the player in one transaction, so two concurrent purchases cannot both pass
// the purse check against the same free budget.
func (r *PlayerRepository) CreateSold(ctx context.Context, p player.Player) (player.Player, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return player.Player{}, fmt.Errorf("begin tx for sold player insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	teamName, err := checkPurchaseInTx(ctx, tx, *p.TeamID, p.SoldAmount, 0)
	if err != nil {
		return player.Player{}, err
	}

	const insertQuery = `
INSERT INTO players (name, role, sold_amount, team_id, notes, points, is_unsold)
VALUES ($1, $2, $3, $4, $5, $6, FALSE)
RETURNING id, created_at`

	if err := tx.QueryRowxContext(ctx, insertQuery,
		p.Name, string(p.Role), p.SoldAmount, *p.TeamID, p.Notes, p.Points,
	).Scan(&p.ID, &p.CreatedAt); err != nil {
		return player.Player{}, fmt.Errorf("insert sold player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return player.Player{}, fmt.Errorf("commit sold player insert: %w", err)
	}

	p.IsUnsold = false
	p.TeamName = teamName

	return p, nil
}

func (r *PlayerRepository) CreateUnsold(ctx context.Context, p player.Player) (player.Player, error) {
	const insertQuery = `
INSERT INTO players (name, role, sold_amount, team_id, notes, points, is_unsold)
VALUES ($1, $2, 0, NULL, $3, $4, TRUE)
RETURNING id, created_at`

	if err := r.db.QueryRowxContext(ctx, insertQuery,
		p.Name, string(p.Role), p.Notes, p.Points,
	).Scan(&p.ID, &p.CreatedAt); err != nil {
		return player.Player{}, fmt.Errorf("insert unsold player: %w", err)
	}

	p.IsUnsold = true
	p.TeamID = nil
	p.SoldAmount = 0
	p.TeamName = ""

	return p, nil
}

// Update applies a partial edit in one transaction. When the resulting row is
// sold, the target team is locked and the purse re-checked net of the amount
// the player already has committed to that team.
func (r *PlayerRepository) Update(ctx context.Context, id int64, upd player.Update) (player.Player, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("begin tx for player update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const currentQuery = `
SELECT id, name, role, sold_amount, team_id, notes, points, is_unsold, created_at
FROM players
WHERE id = $1
FOR UPDATE`

	var current playerTableModel
	if err := tx.GetContext(ctx, &current, currentQuery, id); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("lock player for update: %w", err)
	}

	before := current.toDomain()
	next, err := before.Apply(upd)
	if err != nil {
		return player.Player{}, false, err
	}

	teamName := ""
	if !next.IsUnsold {
		var own int64
		if !before.IsUnsold && before.TeamID != nil && *before.TeamID == *next.TeamID {
			own = before.SoldAmount
		}
		teamName, err = checkPurchaseInTx(ctx, tx, *next.TeamID, next.SoldAmount, own)
		if err != nil {
			return player.Player{}, false, err
		}
	}

	const updateQuery = `
UPDATE players
SET name = $2, role = $3, sold_amount = $4, team_id = $5, notes = $6,
    points = $7, is_unsold = $8
WHERE id = $1`

	if _, err := tx.ExecContext(ctx, updateQuery,
		id, next.Name, string(next.Role), next.SoldAmount,
		int64PtrToNullInt64(next.TeamID), next.Notes, next.Points, next.IsUnsold,
	); err != nil {
		return player.Player{}, false, fmt.Errorf("update player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return player.Player{}, false, fmt.Errorf("commit player update: %w", err)
	}

	next.TeamName = teamName

	return next, true, nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) (player.Player, bool, error) {
	const deleteQuery = `
DELETE FROM players
WHERE id = $1
RETURNING id, name, role, sold_amount, team_id, notes, points, is_unsold, created_at`

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, deleteQuery, id); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("delete player: %w", err)
	}

	return row.toDomain(), true, nil
}

// checkPurchaseInTx locks the team row, derives its committed spend minus
// ownAmount and runs the purse check. It returns the team name for the
// response payload.
func checkPurchaseInTx(ctx context.Context, tx *sqlx.Tx, teamID, amount, ownAmount int64) (string, error) {
	const lockQuery = `SELECT name, max_purse FROM teams WHERE id = $1 FOR UPDATE`

	var teamRow struct {
		Name     string `db:"name"`
		MaxPurse int64  `db:"max_purse"`
	}
	if err := tx.GetContext(ctx, &teamRow, lockQuery, teamID); err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("lock team %d: %w", teamID, auction.ErrUnknownTeam)
		}
		return "", fmt.Errorf("lock team for purchase: %w", err)
	}

	const spentQuery = `
SELECT COALESCE(SUM(sold_amount), 0)
FROM players
WHERE team_id = $1 AND NOT is_unsold`

	var spent int64
	if err := tx.GetContext(ctx, &spent, spentQuery, teamID); err != nil {
		return "", fmt.Errorf("sum team spend: %w", err)
	}

	if err := auction.CheckPurchase(teamID, teamRow.MaxPurse, spent-ownAmount, amount); err != nil {
		return "", err
	}

	return teamRow.Name, nil
}
