package competition

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	FormatLeague    = "league"
	FormatCup       = "cup"
	FormatLeagueCup = "league_cup"
)

// Competition is one club-owned competition whose matches are grouped into
// rounds.
type Competition struct {
	ID         string
	ClubID     string
	Name       string
	Season     string
	Format     string
	TeamIDs    []string
	RankLabels []RankLabel
}

// RankLabel colors a contiguous rank range in the rendered table, e.g.
// promotion or relegation zones.
type RankLabel struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Color string `json:"color"`
}

// Round groups matches inside a competition. The name carries a display
// ordering only; standings never depend on it except through the league-cup
// matchday filter.
type Round struct {
	ID            string
	CompetitionID string
	Name          string
}

func NormalizeFormat(value string) string {
	format := strings.ToLower(strings.TrimSpace(value))
	if format == "" {
		return FormatLeague
	}
	return format
}

func IsValidFormat(value string) bool {
	switch NormalizeFormat(value) {
	case FormatLeague, FormatCup, FormatLeagueCup:
		return true
	default:
		return false
	}
}

// HasStandings reports whether a league table can be computed for the format.
// Cup brackets carry no table at all.
func (c Competition) HasStandings() bool {
	return NormalizeFormat(c.Format) != FormatCup
}

// matchdayPattern matches the round naming convention for league matchdays,
// e.g. "第3節" or "12節". Full-width digits appear in hand-entered names.
var matchdayPattern = regexp.MustCompile(`[0-9０-９]+節`)

// IsLeagueMatchday reports whether a round name follows the matchday naming
// convention. For league_cup competitions only these rounds feed the table;
// knockout rounds are excluded.
func IsLeagueMatchday(roundName string) bool {
	return matchdayPattern.MatchString(roundName)
}

// StandingsRounds filters the rounds that participate in standings for the
// competition's format.
func (c Competition) StandingsRounds(rounds []Round) []Round {
	if NormalizeFormat(c.Format) != FormatLeagueCup {
		return rounds
	}

	out := make([]Round, 0, len(rounds))
	for _, r := range rounds {
		if IsLeagueMatchday(r.Name) {
			out = append(out, r)
		}
	}
	return out
}

func (c Competition) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("competition id is required")
	}
	if c.ClubID == "" {
		return fmt.Errorf("competition club id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("competition name is required")
	}
	if !IsValidFormat(c.Format) {
		return fmt.Errorf("unknown competition format %q", c.Format)
	}
	for _, label := range c.RankLabels {
		if label.From <= 0 || label.To < label.From {
			return fmt.Errorf("rank label range %d-%d is invalid", label.From, label.To)
		}
	}

	return nil
}
