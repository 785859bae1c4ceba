package sessiondata

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]map[string]any
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]map[string]any)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.data[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make(map[string]any, len(stored))
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}

func (r *MemoryRepo) Save(ctx context.Context, userID string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make(map[string]any, len(data))
	for k, v := range data {
		stored[k] = v
	}
	r.data[userID] = stored
	return nil
}
