package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kickoffhq/clubsite/internal/domain/match"
	qb "github.com/kickoffhq/clubsite/internal/platform/querybuilder"
)

// FriendlyRepository stores the flat friendly/practice collection. It shares
// the match column layout; competition_public_id carries the synthetic kind
// and round_public_id is always the single round.
type FriendlyRepository struct {
	db *sqlx.DB
}

func NewFriendlyRepository(db *sqlx.DB) *FriendlyRepository {
	return &FriendlyRepository{db: db}
}

func (r *FriendlyRepository) ListByClub(ctx context.Context, clubID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("friendly_matches").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("match_date", "match_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select friendly matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select friendly matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMatchRow(row))
	}

	return out, nil
}

func (r *FriendlyRepository) Get(ctx context.Context, clubID, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("friendly_matches").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get friendly match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get friendly match: %w", err)
	}

	return mapMatchRow(row), true, nil
}

func (r *FriendlyRepository) Upsert(ctx context.Context, item match.Match) error {
	query, args, err := qb.InsertModel("friendly_matches", matchToInsertModel(item), `ON CONFLICT (club_public_id, public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    competition_public_id = EXCLUDED.competition_public_id,
    home_team_public_id = EXCLUDED.home_team_public_id,
    away_team_public_id = EXCLUDED.away_team_public_id,
    match_date = EXCLUDED.match_date,
    match_time = EXCLUDED.match_time,
    score_home = EXCLUDED.score_home,
    score_away = EXCLUDED.score_away,
    home_team_name = EXCLUDED.home_team_name,
    away_team_name = EXCLUDED.away_team_name,
    home_team_logo = EXCLUDED.home_team_logo,
    away_team_logo = EXCLUDED.away_team_logo,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert friendly match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert friendly match %s: %w", item.ID, err)
	}

	return nil
}

func (r *FriendlyRepository) Delete(ctx context.Context, clubID, matchID string) error {
	query, args, err := qb.Update("friendly_matches").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete friendly match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete friendly match %s: %w", matchID, err)
	}

	return nil
}
