package club

import "time"

// Club is one tenant: it owns teams, competitions, matches and its own
// flattened public match index.
type Club struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}
