package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/team"
	qb "github.com/adimehta/auction-tracker/internal/platform/querybuilder"
)

// teamOverviewQuery derives spend, roster size and points from sold players;
// none of the four numbers is ever stored.
const teamOverviewQuery = `
SELECT t.id,
       t.name,
       t.max_purse,
       t.created_at,
       t.updated_at,
       COALESCE(SUM(p.sold_amount), 0)  AS spent,
       COUNT(p.id)                      AS player_count,
       COALESCE(SUM(p.points), 0)       AS total_points
FROM teams t
LEFT JOIN players p ON p.team_id = t.id AND NOT p.is_unsold
`

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Overview, error) {
	query := teamOverviewQuery + `GROUP BY t.id ORDER BY t.id`

	var rows []teamOverviewModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select team overviews: %w", err)
	}

	out := make([]team.Overview, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Overview, bool, error) {
	query := teamOverviewQuery + `WHERE t.id = $1 GROUP BY t.id`

	var row teamOverviewModel
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return team.Overview{}, false, nil
		}
		return team.Overview{}, false, fmt.Errorf("get team overview: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) (team.Team, error) {
	query, args, err := qb.InsertInto("teams").
		Columns("name", "max_purse").
		Values(t.Name, t.MaxPurse).
		Suffix("RETURNING id, name, max_purse, created_at, updated_at").
		ToSQL()
	if err != nil {
		return team.Team{}, fmt.Errorf("build insert team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isUniqueViolation(err) {
			return team.Team{}, fmt.Errorf("insert team %q: %w", t.Name, team.ErrNameTaken)
		}
		return team.Team{}, fmt.Errorf("insert team: %w", err)
	}

	return row.toDomain(), nil
}

func (r *TeamRepository) Update(ctx context.Context, id int64, upd team.Update) (team.Team, bool, error) {
	builder := qb.Update("teams").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		Suffix("RETURNING id, name, max_purse, created_at, updated_at")
	if upd.Name != nil {
		builder.Set("name", *upd.Name)
	}
	if upd.MaxPurse != nil {
		builder.Set("max_purse", *upd.MaxPurse)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build update team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		if isUniqueViolation(err) {
			return team.Team{}, false, fmt.Errorf("rename team %d: %w", id, team.ErrNameTaken)
		}
		return team.Team{}, false, fmt.Errorf("update team: %w", err)
	}

	return row.toDomain(), true, nil
}

// Delete relies on the ON DELETE RESTRICT constraint to refuse dropping a
// team that still owns players.
func (r *TeamRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.DeleteFrom("teams").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete team query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("delete team %d: %w", id, auction.ErrTeamHasPlayers)
		}
		return false, fmt.Errorf("delete team: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete team rows affected: %w", err)
	}

	return affected > 0, nil
}
