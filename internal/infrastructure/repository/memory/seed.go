package memory

import (
	"time"

	"github.com/kickoffhq/clubsite/internal/domain/club"
	"github.com/kickoffhq/clubsite/internal/domain/competition"
	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/domain/team"
)

const (
	ClubIDAoba              = "aoba-fc"
	ClubIDMidori            = "midori-sc"
	CompetitionIDCityLeague = "aoba-city-league-2025"
	CompetitionIDSpringCup  = "aoba-spring-cup-2025"
)

func SeedClubs() []club.Club {
	return []club.Club{
		{ID: ClubIDAoba, Name: "青葉FC", Slug: "aoba-fc", CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: ClubIDMidori, Name: "みどりSC", Slug: "midori-sc", CreatedAt: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "aoba-top", ClubID: ClubIDAoba, Name: "青葉FCトップ"},
		{ID: "aoba-b", ClubID: ClubIDAoba, Name: "青葉FC B"},
		{ID: "aoba-u15", ClubID: ClubIDAoba, Name: "青葉FC U-15"},
		{ID: "midori-top", ClubID: ClubIDMidori, Name: "みどりSC"},
	}
}

func SeedCompetitions() []competition.Competition {
	return []competition.Competition{
		{
			ID:      CompetitionIDCityLeague,
			ClubID:  ClubIDAoba,
			Name:    "市民リーグ 1部",
			Season:  "2025",
			Format:  competition.FormatLeague,
			TeamIDs: []string{"aoba-top", "aoba-b"},
			RankLabels: []competition.RankLabel{
				{From: 1, To: 1, Color: "#2563eb"},
			},
		},
		{
			ID:     CompetitionIDSpringCup,
			ClubID: ClubIDAoba,
			Name:   "春季カップ",
			Season: "2025",
			Format: competition.FormatCup,
		},
	}
}

func SeedRounds() []competition.Round {
	return []competition.Round{
		{ID: "round-1", CompetitionID: CompetitionIDCityLeague, Name: "第1節"},
		{ID: "round-2", CompetitionID: CompetitionIDCityLeague, Name: "第2節"},
		{ID: "cup-final", CompetitionID: CompetitionIDSpringCup, Name: "決勝"},
	}
}

func SeedMatches() []match.Match {
	score := func(home, away int) *match.Score {
		return &match.Score{Home: home, Away: away}
	}

	return []match.Match{
		{
			ID:            "m-league-001",
			ClubID:        ClubIDAoba,
			CompetitionID: CompetitionIDCityLeague,
			RoundID:       "round-1",
			HomeTeamID:    "aoba-top",
			AwayTeamID:    "aoba-b",
			MatchDate:     "2025-04-06",
			MatchTime:     "10:00",
			Score:         score(2, 1),
		},
		{
			ID:            "m-league-002",
			ClubID:        ClubIDAoba,
			CompetitionID: CompetitionIDCityLeague,
			RoundID:       "round-2",
			HomeTeamID:    "aoba-b",
			AwayTeamID:    "aoba-top",
			MatchDate:     "2025-04-20",
			MatchTime:     "13:00",
		},
		{
			ID:            "m-cup-001",
			ClubID:        ClubIDAoba,
			CompetitionID: CompetitionIDSpringCup,
			RoundID:       "cup-final",
			HomeTeamID:    "aoba-top",
			AwayTeamID:    "midori-top",
			MatchDate:     "2025-05-05",
			MatchTime:     "11:00",
		},
	}
}

func SeedFriendlyMatches() []match.Match {
	return []match.Match{
		{
			ID:            "f-001",
			ClubID:        ClubIDAoba,
			CompetitionID: match.KindFriendly,
			RoundID:       match.RoundSingle,
			HomeTeamID:    "aoba-top",
			AwayTeamID:    "midori-top",
			MatchDate:     "2025-04-29",
			MatchTime:     "09:30",
			Score:         &match.Score{Home: 3, Away: 3},
		},
	}
}
