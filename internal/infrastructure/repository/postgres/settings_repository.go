package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/adimehta/auction-tracker/internal/domain/settings"
)

type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) List(ctx context.Context) ([]settings.Setting, error) {
	const query = `SELECT key, value FROM settings ORDER BY key`

	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select settings: %w", err)
	}

	out := make([]settings.Setting, 0, len(rows))
	for _, row := range rows {
		out = append(out, settings.Setting{Key: row.Key, Value: row.Value})
	}

	return out, nil
}

// PropagateMaxPurse stores the new default and pushes it onto every team in
// the same transaction; a crash between the two writes can never leave the
// stored default and the team rows disagreeing.
func (r *SettingsRepository) PropagateMaxPurse(ctx context.Context, maxPurse int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx for max purse propagation: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsertQuery = `
INSERT INTO settings (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	if _, err := tx.ExecContext(ctx, upsertQuery, settings.KeyMaxPurse, strconv.FormatInt(maxPurse, 10)); err != nil {
		return 0, fmt.Errorf("upsert max purse setting: %w", err)
	}

	const propagateQuery = `UPDATE teams SET max_purse = $1, updated_at = NOW()`

	res, err := tx.ExecContext(ctx, propagateQuery, maxPurse)
	if err != nil {
		return 0, fmt.Errorf("propagate max purse to teams: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("propagate max purse rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit max purse propagation: %w", err)
	}

	return affected, nil
}
