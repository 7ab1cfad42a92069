package matchindex

import (
	"errors"
	"testing"

	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/domain/team"
)

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"2025-04-06", "2025-04-06"},
		{"2025/04/06", "2025-04-06"},
		{"2025.04.06", "2025-04-06"},
		{"2025-04-06T09:30:00+09:00", "2025-04-06"},
		{"2025-04-06 09:30:00", "2025-04-06"},
		{"2025年4月6日", "2025-04-06"},
		{"  2025-04-06  ", "2025-04-06"},
		{"next sunday", "next sunday"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := NormalizeDate(tc.in); got != tc.want {
			t.Fatalf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildRow_PrefersLiveTeamRecord(t *testing.T) {
	t.Parallel()

	teams := team.Lookup{
		"t-home": {ID: "t-home", Name: "FC青葉", LogoURL: "https://cdn/aoba.png"},
	}
	m := match.Match{
		ID:            "m-1",
		ClubID:        "c-1",
		CompetitionID: "comp-1",
		RoundID:       "r-1",
		HomeTeamID:    "t-home",
		AwayTeamID:    "t-away",
		MatchDate:     "2025/05/11",
		MatchTime:     "13:00",
		HomeTeamName:  "stale name",
		AwayTeamName:  "視界FC",
		AwayTeamLogo:  "https://cdn/shikai.png",
		Score:         &match.Score{Home: 2, Away: 0},
	}

	row, err := BuildRow(m, "市リーグ", "第3節", teams)
	if err != nil {
		t.Fatalf("BuildRow error: %v", err)
	}

	if row.HomeTeamName != "FC青葉" || row.HomeTeamLogo != "https://cdn/aoba.png" {
		t.Fatalf("live team record not preferred: %+v", row)
	}
	// Away side has no live record; denormalized values on the match win.
	if row.AwayTeamName != "視界FC" || row.AwayTeamLogo != "https://cdn/shikai.png" {
		t.Fatalf("denormalized fallback not used: %+v", row)
	}
	if row.MatchDate != "2025-05-11" {
		t.Fatalf("date not normalized: %q", row.MatchDate)
	}
	if row.ScoreHome == nil || *row.ScoreHome != 2 || row.ScoreAway == nil || *row.ScoreAway != 0 {
		t.Fatalf("score not carried: %+v", row)
	}
	if row.Key() != "comp-1__r-1__m-1" {
		t.Fatalf("unexpected key %q", row.Key())
	}
}

func TestBuildRow_UnplayedMatchKeepsNilScores(t *testing.T) {
	t.Parallel()

	row, err := BuildRow(match.Match{
		ID:            "m-2",
		CompetitionID: "comp-1",
		RoundID:       "r-1",
		MatchDate:     "2025-06-01",
	}, "", "", nil)
	if err != nil {
		t.Fatalf("BuildRow error: %v", err)
	}
	if row.ScoreHome != nil || row.ScoreAway != nil {
		t.Fatalf("unplayed match must not carry scores: %+v", row)
	}
}

func TestBuildRow_RejectsUnusableDate(t *testing.T) {
	t.Parallel()

	for _, date := range []string{"", "   "} {
		_, err := BuildRow(match.Match{
			ID:            "m-3",
			CompetitionID: "comp-1",
			RoundID:       "r-1",
			MatchDate:     date,
		}, "", "", nil)
		if !errors.Is(err, ErrUnusableDate) {
			t.Fatalf("date %q: expected ErrUnusableDate, got %v", date, err)
		}
	}
}

func TestBuildRow_FriendlyDefaults(t *testing.T) {
	t.Parallel()

	row, err := BuildRow(match.Match{
		ID:            "m-4",
		CompetitionID: match.KindFriendly,
		MatchDate:     "2025-07-21",
	}, "", "", nil)
	if err != nil {
		t.Fatalf("BuildRow error: %v", err)
	}
	if row.CompetitionID != match.KindFriendly || row.RoundID != match.RoundSingle {
		t.Fatalf("synthetic ids not applied: %+v", row)
	}
	if row.CompetitionName != "フレンドリーマッチ" || row.RoundName != "-" {
		t.Fatalf("default labels not applied: %+v", row)
	}

	practice, err := BuildRow(match.Match{
		ID:            "m-5",
		CompetitionID: match.KindPractice,
		MatchDate:     "2025-07-22",
	}, "", "", nil)
	if err != nil {
		t.Fatalf("BuildRow error: %v", err)
	}
	if practice.CompetitionName != "練習試合" {
		t.Fatalf("practice label not applied: %+v", practice)
	}
	if practice.Key() != "practice__single__m-5" {
		t.Fatalf("unexpected key %q", practice.Key())
	}
}

func TestBuildRow_ExplicitFriendlyLabelsSurviveDefaults(t *testing.T) {
	t.Parallel()

	row, err := BuildRow(match.Match{
		ID:            "m-6",
		CompetitionID: match.KindFriendly,
		MatchDate:     "2025-07-23",
	}, "招待大会", "予選", nil)
	if err != nil {
		t.Fatalf("BuildRow error: %v", err)
	}
	if row.CompetitionName != "招待大会" || row.RoundName != "予選" {
		t.Fatalf("explicit labels overwritten: %+v", row)
	}
}

func TestBuildRow_RejectsDelimiterCollision(t *testing.T) {
	t.Parallel()

	_, err := BuildRow(match.Match{
		ID:            "m__7",
		CompetitionID: "comp-1",
		RoundID:       "r-1",
		MatchDate:     "2025-08-01",
	}, "", "", nil)
	if err == nil {
		t.Fatal("expected delimiter collision rejection")
	}
}
