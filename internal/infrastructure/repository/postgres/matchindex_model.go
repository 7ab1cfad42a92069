package postgres

import (
	"database/sql"
	"time"
)

type matchIndexTableModel struct {
	ID              int64         `db:"id"`
	ClubID          string        `db:"club_public_id"`
	RowKey          string        `db:"row_key"`
	MatchID         string        `db:"match_public_id"`
	CompetitionID   string        `db:"competition_public_id"`
	RoundID         string        `db:"round_public_id"`
	MatchDate       string        `db:"match_date"`
	MatchTime       string        `db:"match_time"`
	CompetitionName string        `db:"competition_name"`
	RoundName       string        `db:"round_name"`
	HomeTeamID      string        `db:"home_team_public_id"`
	AwayTeamID      string        `db:"away_team_public_id"`
	HomeTeamName    string        `db:"home_team_name"`
	AwayTeamName    string        `db:"away_team_name"`
	HomeTeamLogo    string        `db:"home_team_logo"`
	AwayTeamLogo    string        `db:"away_team_logo"`
	ScoreHome       sql.NullInt64 `db:"score_home"`
	ScoreAway       sql.NullInt64 `db:"score_away"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

type matchIndexInsertModel struct {
	ClubID          string        `db:"club_public_id"`
	RowKey          string        `db:"row_key"`
	MatchID         string        `db:"match_public_id"`
	CompetitionID   string        `db:"competition_public_id"`
	RoundID         string        `db:"round_public_id"`
	MatchDate       string        `db:"match_date"`
	MatchTime       string        `db:"match_time"`
	CompetitionName string        `db:"competition_name"`
	RoundName       string        `db:"round_name"`
	HomeTeamID      string        `db:"home_team_public_id"`
	AwayTeamID      string        `db:"away_team_public_id"`
	HomeTeamName    string        `db:"home_team_name"`
	AwayTeamName    string        `db:"away_team_name"`
	HomeTeamLogo    string        `db:"home_team_logo"`
	AwayTeamLogo    string        `db:"away_team_logo"`
	ScoreHome       sql.NullInt64 `db:"score_home"`
	ScoreAway       sql.NullInt64 `db:"score_away"`
}

type matchIndexMetaTableModel struct {
	ID        int64     `db:"id"`
	ClubID    string    `db:"club_public_id"`
	RowCount  int       `db:"row_count"`
	UpdatedAt time.Time `db:"updated_at"`
}
