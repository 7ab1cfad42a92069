package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kickoffhq/clubsite/internal/domain/match"
	qb "github.com/kickoffhq/clubsite/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListByRound(ctx context.Context, clubID, competitionID, roundID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("competition_public_id", competitionID),
			qb.Eq("round_public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("match_date", "match_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by round query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by round: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMatchRow(row))
	}

	return out, nil
}

func (r *MatchRepository) Get(ctx context.Context, clubID string, ref match.Ref) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("competition_public_id", ref.CompetitionID),
			qb.Eq("round_public_id", ref.RoundID),
			qb.Eq("public_id", ref.MatchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	return mapMatchRow(row), true, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	query, args, err := qb.InsertModel("matches", matchToInsertModel(item), matchUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match %s: %w", item.ID, err)
	}

	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, clubID string, ref match.Ref) error {
	query, args, err := qb.Update("matches").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("competition_public_id", ref.CompetitionID),
			qb.Eq("round_public_id", ref.RoundID),
			qb.Eq("public_id", ref.MatchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete match %s: %w", ref.MatchID, err)
	}

	return nil
}

const matchUpsertSuffix = `ON CONFLICT (club_public_id, competition_public_id, round_public_id, public_id) WHERE deleted_at IS NULL
DO UPDATE SET
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
    deleted_at = NULL`

func matchToInsertModel(item match.Match) matchInsertModel {
	model := matchInsertModel{
		PublicID:      item.ID,
		ClubID:        item.ClubID,
		CompetitionID: item.CompetitionID,
		RoundID:       item.RoundID,
		HomeTeamID:    item.HomeTeamID,
		AwayTeamID:    item.AwayTeamID,
		MatchDate:     item.MatchDate,
		MatchTime:     item.MatchTime,
		HomeTeamName:  item.HomeTeamName,
		AwayTeamName:  item.AwayTeamName,
		HomeTeamLogo:  item.HomeTeamLogo,
		AwayTeamLogo:  item.AwayTeamLogo,
	}
	if item.Score != nil {
		home, away := item.Score.Home, item.Score.Away
		model.ScoreHome = intPtrToNullInt(&home)
		model.ScoreAway = intPtrToNullInt(&away)
	}
	return model
}

func mapMatchRow(row matchTableModel) match.Match {
	item := match.Match{
		ID:            row.PublicID,
		ClubID:        row.ClubID,
		CompetitionID: row.CompetitionID,
		RoundID:       row.RoundID,
		HomeTeamID:    row.HomeTeamID,
		AwayTeamID:    row.AwayTeamID,
		MatchDate:     row.MatchDate,
		MatchTime:     row.MatchTime,
		HomeTeamName:  row.HomeTeamName,
		AwayTeamName:  row.AwayTeamName,
		HomeTeamLogo:  row.HomeTeamLogo,
		AwayTeamLogo:  row.AwayTeamLogo,
	}
	if row.ScoreHome.Valid && row.ScoreAway.Valid {
		item.Score = &match.Score{Home: int(row.ScoreHome.Int64), Away: int(row.ScoreAway.Int64)}
	}
	return item
}
