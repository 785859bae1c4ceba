package layouts

import (
	"context"
	"time"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "layout not found" }

// Stored is a saved layout row. The widget list is kept untyped so frontend
// additions round-trip without a schema change.
type Stored struct {
	Layout    []any
	UpdatedAt time.Time
}

type Repo interface {
	Get(ctx context.Context, userID string) (Stored, error)
	Save(ctx context.Context, userID string, layout []any) error
}
