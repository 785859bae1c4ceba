package sessiondata

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

func (r *PGRepo) Get(ctx context.Context, userID string) (map[string]any, error) {
	const query = `SELECT data FROM session_data WHERE user_id = $1 LIMIT 1`
	var raw []byte
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode session data: %w", err)
	}
	return data, nil
}

func (r *PGRepo) Save(ctx context.Context, userID string, data map[string]any) error {
	const query = `
INSERT INTO session_data (user_id, data, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE SET
  data = EXCLUDED.data,
  updated_at = now()`
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session data: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query, userID, payload)
	return err
}
