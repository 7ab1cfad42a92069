package matchindex

import (
	"fmt"
	"strings"
	"time"
)

const (
	// KeyDelimiter joins the row key components. Component values must not
	// contain it; BuildRow rejects matches whose ids would collide.
	KeyDelimiter = "__"

	// storeMaxBatchOps is the per-commit operation ceiling of the backing
	// store. BatchSize stays under it with safety margin.
	storeMaxBatchOps = 500
	BatchSize        = 450
)

// Row is one flattened, denormalized projection of a match: team names and
// logos resolved, date normalized, competition and round names inlined.
// Rows are eventually-consistent copies; any row can be rebuilt from the raw
// match at any time and none is authoritative.
type Row struct {
	MatchID         string
	CompetitionID   string
	RoundID         string
	MatchDate       string
	MatchTime       string
	CompetitionName string
	RoundName       string
	HomeTeamID      string
	AwayTeamID      string
	HomeTeamName    string
	AwayTeamName    string
	HomeTeamLogo    string
	AwayTeamLogo    string
	ScoreHome       *int
	ScoreAway       *int
}

// Key is the deterministic row id all writers upsert against.
func (r Row) Key() string {
	return r.CompetitionID + KeyDelimiter + r.RoundID + KeyDelimiter + r.MatchID
}

// Meta summarizes the last full backfill for one club. It lives in its own
// table, not as a sentinel row sharing the index id space.
type Meta struct {
	UpdatedAt time.Time
	Count     int
}

func validKeyComponent(value string) error {
	if value == "" {
		return fmt.Errorf("key component is empty")
	}
	if strings.Contains(value, KeyDelimiter) {
		return fmt.Errorf("key component %q contains reserved delimiter %q", value, KeyDelimiter)
	}
	return nil
}
