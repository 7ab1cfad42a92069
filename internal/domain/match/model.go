package match

import (
	"fmt"
	"strings"
)

const (
	// KindFriendly and KindPractice are the synthetic competition ids of the
	// flat friendly-match collection.
	KindFriendly = "friendly"
	KindPractice = "practice"

	// RoundSingle is the synthetic round id friendly matches carry in the
	// public match index.
	RoundSingle = "single"
)

// Score holds a played result. A nil *Score means the match is unplayed and
// excluded from standings.
type Score struct {
	Home int
	Away int
}

func (s Score) Validate() error {
	if s.Home < 0 || s.Away < 0 {
		return fmt.Errorf("score cannot be negative")
	}
	return nil
}

// Match is one raw match record, either nested under a competition round or
// filed in the flat friendly collection with a synthetic competition id.
// The *TeamName/*TeamLogo fields carry values denormalized at write time and
// act as fallbacks when the live team record is gone.
type Match struct {
	ID            string
	ClubID        string
	CompetitionID string
	RoundID       string
	HomeTeamID    string
	AwayTeamID    string
	MatchDate     string
	MatchTime     string
	Score         *Score
	HomeTeamName  string
	AwayTeamName  string
	HomeTeamLogo  string
	AwayTeamLogo  string
}

func (m Match) Played() bool {
	return m.Score != nil
}

// IsFriendlyKind reports whether a competition id addresses the flat friendly
// collection rather than a real competition.
func IsFriendlyKind(competitionID string) bool {
	switch competitionID {
	case KindFriendly, KindPractice:
		return true
	default:
		return false
	}
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.ClubID == "" {
		return fmt.Errorf("match club id is required")
	}
	if m.CompetitionID == "" {
		return fmt.Errorf("match competition id is required")
	}
	if !IsFriendlyKind(m.CompetitionID) && m.RoundID == "" {
		return fmt.Errorf("match round id is required")
	}
	if strings.TrimSpace(m.MatchDate) == "" {
		return fmt.Errorf("match date is required")
	}
	if m.Score != nil {
		if err := m.Score.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Ref returns the hierarchical address of the match.
func (m Match) Ref() Ref {
	return Ref{CompetitionID: m.CompetitionID, RoundID: m.RoundID, MatchID: m.ID}
}

// Ref addresses one match inside the competition → round → match hierarchy.
// Friendlies use the synthetic competition id and RoundSingle.
type Ref struct {
	CompetitionID string
	RoundID       string
	MatchID       string
}

// Patch is a partial admin edit to a match. Nil pointers leave the field
// untouched. ScoreSet distinguishes "clear the score" from "leave it alone".
type Patch struct {
	HomeTeamID   *string
	AwayTeamID   *string
	MatchDate    *string
	MatchTime    *string
	Score        *Score
	ScoreSet     bool
	HomeTeamName *string
	AwayTeamName *string
	HomeTeamLogo *string
	AwayTeamLogo *string
}

// TouchesScore reports whether applying the patch can change standings.
func (p Patch) TouchesScore() bool {
	return p.ScoreSet
}

// Apply merges the patch onto a snapshot of the match and returns the result.
func (p Patch) Apply(m Match) Match {
	if p.HomeTeamID != nil {
		m.HomeTeamID = *p.HomeTeamID
	}
	if p.AwayTeamID != nil {
		m.AwayTeamID = *p.AwayTeamID
	}
	if p.MatchDate != nil {
		m.MatchDate = *p.MatchDate
	}
	if p.MatchTime != nil {
		m.MatchTime = *p.MatchTime
	}
	if p.ScoreSet {
		if p.Score != nil {
			s := *p.Score
			m.Score = &s
		} else {
			m.Score = nil
		}
	}
	if p.HomeTeamName != nil {
		m.HomeTeamName = *p.HomeTeamName
	}
	if p.AwayTeamName != nil {
		m.AwayTeamName = *p.AwayTeamName
	}
	if p.HomeTeamLogo != nil {
		m.HomeTeamLogo = *p.HomeTeamLogo
	}
	if p.AwayTeamLogo != nil {
		m.AwayTeamLogo = *p.AwayTeamLogo
	}

	return m
}
