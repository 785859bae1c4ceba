package layouts

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	layouts map[string]Stored
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{layouts: make(map[string]Stored)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Stored, error) {
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.layouts[userID]
	if !ok {
		return Stored{}, ErrNotFound
	}
	out := stored
	out.Layout = append([]any(nil), stored.Layout...)
	return out, nil
}

func (r *MemoryRepo) Save(ctx context.Context, userID string, layout []any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layouts[userID] = Stored{
		Layout:    append([]any(nil), layout...),
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}
