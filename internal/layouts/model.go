// Package layouts stores the dashboard widget grid per user, falling back to
// a default arrangement whenever no saved layout can be read.
package layouts

// Widget is one grid cell. The wire names follow the frontend grid library.
type Widget struct {
	ID     string `json:"i"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"w"`
	Height int    `json:"h"`
}

// DefaultLayout is the arrangement served to new users and whenever the
// store cannot produce a saved one.
func DefaultLayout() []Widget {
	return []Widget{
		{ID: "welcome", X: 0, Y: 0, Width: 3, Height: 2},
		{ID: "services", X: 3, Y: 0, Width: 2, Height: 1},
		{ID: "notifications", X: 0, Y: 2, Width: 2, Height: 2},
		{ID: "assistant", X: 3, Y: 1, Width: 2, Height: 3},
	}
}
