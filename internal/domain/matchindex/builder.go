package matchindex

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/domain/team"
)

// ErrUnusableDate marks a match whose date cannot be normalized to a
// non-empty string. Such matches are silently dropped from batch builds; a
// row is never written with an empty date key.
var ErrUnusableDate = errors.New("match date cannot be normalized")

// Default display labels for the flat friendly collection when the admin set
// none explicitly.
const (
	friendlyLabel = "フレンドリーマッチ"
	practiceLabel = "練習試合"
	singleLabel   = "-"
)

// dateLayouts are the formats hand-entered and imported match dates show up
// in. Output is always the date-only ISO form.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	"2006年1月2日",
}

// NormalizeDate reduces a raw match date to a plain date string: ISO when a
// known layout parses, the trimmed original otherwise. Empty in, empty out.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("2006-01-02")
		}
	}

	return raw
}

// BuildRow flattens one raw match into an index row. Team display values
// prefer the live team record, then whatever was denormalized onto the match,
// then empty. Friendly matches get their synthetic competition id, the
// "single" round id and localized default labels. Pure; no I/O.
func BuildRow(m match.Match, competitionName, roundName string, teams team.Lookup) (Row, error) {
	matchDate := NormalizeDate(m.MatchDate)
	if matchDate == "" {
		return Row{}, fmt.Errorf("match %s: %w", m.ID, ErrUnusableDate)
	}

	competitionID := m.CompetitionID
	roundID := m.RoundID
	if match.IsFriendlyKind(m.CompetitionID) {
		roundID = match.RoundSingle
		if competitionName == "" {
			if m.CompetitionID == match.KindPractice {
				competitionName = practiceLabel
			} else {
				competitionName = friendlyLabel
			}
		}
		if roundName == "" {
			roundName = singleLabel
		}
	}

	row := Row{
		MatchID:         m.ID,
		CompetitionID:   competitionID,
		RoundID:         roundID,
		MatchDate:       matchDate,
		MatchTime:       m.MatchTime,
		CompetitionName: competitionName,
		RoundName:       roundName,
		HomeTeamID:      m.HomeTeamID,
		AwayTeamID:      m.AwayTeamID,
	}

	row.HomeTeamName, row.HomeTeamLogo = resolveTeamDisplay(teams, m.HomeTeamID, m.HomeTeamName, m.HomeTeamLogo)
	row.AwayTeamName, row.AwayTeamLogo = resolveTeamDisplay(teams, m.AwayTeamID, m.AwayTeamName, m.AwayTeamLogo)

	if m.Score != nil {
		home, away := m.Score.Home, m.Score.Away
		row.ScoreHome = &home
		row.ScoreAway = &away
	}

	for _, component := range []string{row.CompetitionID, row.RoundID, row.MatchID} {
		if err := validKeyComponent(component); err != nil {
			return Row{}, fmt.Errorf("match %s: %w", m.ID, err)
		}
	}

	return row, nil
}

func resolveTeamDisplay(teams team.Lookup, teamID, fallbackName, fallbackLogo string) (string, string) {
	if live, ok := teams[teamID]; ok {
		name := live.Name
		logo := live.LogoURL
		if name == "" {
			name = fallbackName
		}
		if logo == "" {
			logo = fallbackLogo
		}
		return name, logo
	}

	return fallbackName, fallbackLogo
}
