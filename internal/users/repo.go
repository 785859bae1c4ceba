package users

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

// Repo persists user documents. Both write paths merge the incoming fields
// into the stored document; only UpsertLogin bumps last_login.
type Repo interface {
	UpsertLogin(ctx context.Context, userID string, doc map[string]any) error
	Merge(ctx context.Context, userID string, doc map[string]any) error
	GetByID(ctx context.Context, userID string) (Record, error)
}
