// Package sessiondata persists an opaque per-user blob the frontend uses to
// survive page reloads. Writes replace the whole blob.
package sessiondata

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "session data not found" }

type Repo interface {
	Get(ctx context.Context, userID string) (map[string]any, error)
	Save(ctx context.Context, userID string, data map[string]any) error
}
