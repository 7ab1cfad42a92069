package standing

// Points awarded per result.
const (
	PointsWin  = 3
	PointsDraw = 1
)

// Tally is the per-team aggregate folded out of raw match results. Derived
// fields (played, points, goal difference) are intentionally absent; they are
// computed, never stored on the input side.
type Tally struct {
	TeamID       string
	TeamName     string
	LogoURL      string
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

// Standing is one ranked league table row for one team in one competition.
// Invariants: Played = Wins+Draws+Losses, Points = 3*Wins+Draws,
// GoalDifference = GoalsFor-GoalsAgainst.
type Standing struct {
	TeamID         string
	CompetitionID  string
	TeamName       string
	LogoURL        string
	Rank           int
	Played         int
	Wins           int
	Draws          int
	Losses         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

// Derive computes the derived columns for one tally. Rank is left unset; only
// the ranker assigns it.
func Derive(t Tally) Standing {
	return Standing{
		TeamID:         t.TeamID,
		TeamName:       t.TeamName,
		LogoURL:        t.LogoURL,
		Played:         t.Wins + t.Draws + t.Losses,
		Wins:           t.Wins,
		Draws:          t.Draws,
		Losses:         t.Losses,
		GoalsFor:       t.GoalsFor,
		GoalsAgainst:   t.GoalsAgainst,
		GoalDifference: t.GoalsFor - t.GoalsAgainst,
		Points:         PointsWin*t.Wins + PointsDraw*t.Draws,
	}
}

// Tally converts a standing row back to its editable aggregate. Used by the
// manual-override path, which re-derives and re-ranks without reading matches.
func (s Standing) Tally() Tally {
	return Tally{
		TeamID:       s.TeamID,
		TeamName:     s.TeamName,
		LogoURL:      s.LogoURL,
		Wins:         s.Wins,
		Draws:        s.Draws,
		Losses:       s.Losses,
		GoalsFor:     s.GoalsFor,
		GoalsAgainst: s.GoalsAgainst,
	}
}
