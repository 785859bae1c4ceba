package layouts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Stored, error) {
	const query = `SELECT layout, updated_at FROM dashboard_layouts WHERE user_id = $1 LIMIT 1`
	var stored Stored
	var raw []byte
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&raw, &stored.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Stored{}, ErrNotFound
		}
		return Stored{}, err
	}
	if err := json.Unmarshal(raw, &stored.Layout); err != nil {
		return Stored{}, fmt.Errorf("decode layout: %w", err)
	}
	return stored, nil
}

func (r *PGRepo) Save(ctx context.Context, userID string, layout []any) error {
	const query = `
INSERT INTO dashboard_layouts (user_id, layout, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE SET
  layout = EXCLUDED.layout,
  updated_at = now()`
	if layout == nil {
		layout = []any{}
	}
	payload, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query, userID, payload)
	return err
}
