package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID            int64         `db:"id"`
	PublicID      string        `db:"public_id"`
	ClubID        string        `db:"club_public_id"`
	CompetitionID string        `db:"competition_public_id"`
	RoundID       string        `db:"round_public_id"`
	HomeTeamID    string        `db:"home_team_public_id"`
	AwayTeamID    string        `db:"away_team_public_id"`
	MatchDate     string        `db:"match_date"`
	MatchTime     string        `db:"match_time"`
	ScoreHome     sql.NullInt64 `db:"score_home"`
	ScoreAway     sql.NullInt64 `db:"score_away"`
	HomeTeamName  string        `db:"home_team_name"`
	AwayTeamName  string        `db:"away_team_name"`
	HomeTeamLogo  string        `db:"home_team_logo"`
	AwayTeamLogo  string        `db:"away_team_logo"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
	DeletedAt     *time.Time    `db:"deleted_at"`
}

type matchInsertModel struct {
	PublicID      string        `db:"public_id"`
	ClubID        string        `db:"club_public_id"`
	CompetitionID string        `db:"competition_public_id"`
	RoundID       string        `db:"round_public_id"`
	HomeTeamID    string        `db:"home_team_public_id"`
	AwayTeamID    string        `db:"away_team_public_id"`
	MatchDate     string        `db:"match_date"`
	MatchTime     string        `db:"match_time"`
	ScoreHome     sql.NullInt64 `db:"score_home"`
	ScoreAway     sql.NullInt64 `db:"score_away"`
	HomeTeamName  string        `db:"home_team_name"`
	AwayTeamName  string        `db:"away_team_name"`
	HomeTeamLogo  string        `db:"home_team_logo"`
	AwayTeamLogo  string        `db:"away_team_logo"`
}
