package team

import "fmt"

// Team is a club-owned squad referenced by id from matches, competitions and
// standings.
type Team struct {
	ID      string
	ClubID  string
	Name    string
	LogoURL string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.ClubID == "" {
		return fmt.Errorf("team club id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// Lookup resolves team ids to their live records during aggregation and index
// row building.
type Lookup map[string]Team

func NewLookup(teams []Team) Lookup {
	out := make(Lookup, len(teams))
	for _, t := range teams {
		out[t.ID] = t
	}
	return out
}
