package users

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

func (r *PGRepo) UpsertLogin(ctx context.Context, userID string, doc map[string]any) error {
	const query = `
INSERT INTO users (id, doc, created_at, updated_at, last_login)
VALUES ($1, $2, now(), now(), now())
ON CONFLICT (id) DO UPDATE SET
  doc = users.doc || EXCLUDED.doc,
  updated_at = now(),
  last_login = now()`
	return r.exec(ctx, query, userID, doc)
}

func (r *PGRepo) Merge(ctx context.Context, userID string, doc map[string]any) error {
	const query = `
INSERT INTO users (id, doc, created_at, updated_at, last_login)
VALUES ($1, $2, now(), now(), NULL)
ON CONFLICT (id) DO UPDATE SET
  doc = users.doc || EXCLUDED.doc,
  updated_at = now()`
	return r.exec(ctx, query, userID, doc)
}

func (r *PGRepo) exec(ctx context.Context, query, userID string, doc map[string]any) error {
	if doc == nil {
		doc = map[string]any{}
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode user doc: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query, userID, payload)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (Record, error) {
	const query = `
SELECT id, doc, created_at, updated_at, last_login
FROM users
WHERE id = $1
LIMIT 1`
	var rec Record
	var doc []byte
	var lastLogin sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&rec.ID,
		&doc,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if err := json.Unmarshal(doc, &rec.Doc); err != nil {
		return Record{}, fmt.Errorf("decode user doc: %w", err)
	}
	if lastLogin.Valid {
		rec.LastLogin = lastLogin.Time
	}
	return rec, nil
}
