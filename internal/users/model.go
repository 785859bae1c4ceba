package users

import "time"

// Record is a user document. Doc carries arbitrary profile fields merged
// across logins and profile updates; the timestamps live in columns so the
// merge cannot clobber them.
type Record struct {
	ID        string         `json:"id"`
	Doc       map[string]any `json:"doc"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	LastLogin time.Time      `json:"lastLogin"`
}
