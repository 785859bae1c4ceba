package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo backs local development when no database is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]Record)}
}

func (r *MemoryRepo) UpsertLogin(ctx context.Context, userID string, doc map[string]any) error {
	return r.merge(ctx, userID, doc, true)
}

func (r *MemoryRepo) Merge(ctx context.Context, userID string, doc map[string]any) error {
	return r.merge(ctx, userID, doc, false)
}

func (r *MemoryRepo) merge(ctx context.Context, userID string, doc map[string]any, login bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	rec, ok := r.users[userID]
	if !ok {
		rec = Record{ID: userID, Doc: make(map[string]any), CreatedAt: now}
	}
	for k, v := range doc {
		rec.Doc[k] = v
	}
	rec.UpdatedAt = now
	if login {
		rec.LastLogin = now
	}
	r.users[userID] = rec
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.users[userID]
	if !ok {
		return Record{}, ErrNotFound
	}
	out := rec
	out.Doc = make(map[string]any, len(rec.Doc))
	for k, v := range rec.Doc {
		out.Doc[k] = v
	}
	return out, nil
}
