package postgres

import (
	"database/sql"
	"time"
)

type competitionTableModel struct {
	ID         int64          `db:"id"`
	PublicID   string         `db:"public_id"`
	ClubID     string         `db:"club_public_id"`
	Name       string         `db:"name"`
	Season     string         `db:"season"`
	Format     string         `db:"format"`
	RankLabels sql.NullString `db:"rank_labels"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
	DeletedAt  *time.Time     `db:"deleted_at"`
}

type competitionInsertModel struct {
	PublicID   string `db:"public_id"`
	ClubID     string `db:"club_public_id"`
	Name       string `db:"name"`
	Season     string `db:"season"`
	Format     string `db:"format"`
	RankLabels string `db:"rank_labels"`
}

type competitionTeamInsertModel struct {
	CompetitionID string `db:"competition_public_id"`
	TeamID        string `db:"team_public_id"`
	Position      int    `db:"position"`
}

type roundTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	ClubID        string     `db:"club_public_id"`
	CompetitionID string     `db:"competition_public_id"`
	Name          string     `db:"name"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type roundInsertModel struct {
	PublicID      string `db:"public_id"`
	ClubID        string `db:"club_public_id"`
	CompetitionID string `db:"competition_public_id"`
	Name          string `db:"name"`
}
