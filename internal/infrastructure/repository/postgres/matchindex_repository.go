package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kickoffhq/clubsite/internal/domain/matchindex"
	qb "github.com/kickoffhq/clubsite/internal/platform/querybuilder"
)

// MatchIndexRepository persists the flat per-club index. Index rows are hard
// rows, not soft-deleted entities: the index is a rebuildable projection, so
// there is nothing worth keeping on removal.
type MatchIndexRepository struct {
	db *sqlx.DB
}

func NewMatchIndexRepository(db *sqlx.DB) *MatchIndexRepository {
	return &MatchIndexRepository{db: db}
}

func (r *MatchIndexRepository) ListByClub(ctx context.Context, clubID string) ([]matchindex.Row, error) {
	query, args, err := qb.Select("*").From("match_index").
		Where(qb.Eq("club_public_id", clubID)).
		OrderBy("match_date", "match_time", "row_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match index query: %w", err)
	}

	var rows []matchIndexTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match index: %w", err)
	}

	out := make([]matchindex.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchindex.Row{
			MatchID:         row.MatchID,
			CompetitionID:   row.CompetitionID,
			RoundID:         row.RoundID,
			MatchDate:       row.MatchDate,
			MatchTime:       row.MatchTime,
			CompetitionName: row.CompetitionName,
			RoundName:       row.RoundName,
			HomeTeamID:      row.HomeTeamID,
			AwayTeamID:      row.AwayTeamID,
			HomeTeamName:    row.HomeTeamName,
			AwayTeamName:    row.AwayTeamName,
			HomeTeamLogo:    row.HomeTeamLogo,
			AwayTeamLogo:    row.AwayTeamLogo,
			ScoreHome:       nullIntToIntPtr(row.ScoreHome),
			ScoreAway:       nullIntToIntPtr(row.ScoreAway),
		})
	}

	return out, nil
}

// UpsertRows merge-writes one batch in a single transaction. Callers chunk
// to matchindex.BatchSize; each call is one atomic commit.
func (r *MatchIndexRepository) UpsertRows(ctx context.Context, clubID string, rows []matchindex.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert index rows: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, row := range rows {
		insertModel := matchIndexInsertModel{
			ClubID:          clubID,
			RowKey:          row.Key(),
			MatchID:         row.MatchID,
			CompetitionID:   row.CompetitionID,
			RoundID:         row.RoundID,
			MatchDate:       row.MatchDate,
			MatchTime:       row.MatchTime,
			CompetitionName: row.CompetitionName,
			RoundName:       row.RoundName,
			HomeTeamID:      row.HomeTeamID,
			AwayTeamID:      row.AwayTeamID,
			HomeTeamName:    row.HomeTeamName,
			AwayTeamName:    row.AwayTeamName,
			HomeTeamLogo:    row.HomeTeamLogo,
			AwayTeamLogo:    row.AwayTeamLogo,
			ScoreHome:       intPtrToNullInt(row.ScoreHome),
			ScoreAway:       intPtrToNullInt(row.ScoreAway),
		}
		query, args, err := qb.InsertModel("match_index", insertModel, `ON CONFLICT (club_public_id, row_key)
DO UPDATE SET
    match_date = EXCLUDED.match_date,
    match_time = EXCLUDED.match_time,
    competition_name = EXCLUDED.competition_name,
    round_name = EXCLUDED.round_name,
    home_team_public_id = EXCLUDED.home_team_public_id,
    away_team_public_id = EXCLUDED.away_team_public_id,
    home_team_name = EXCLUDED.home_team_name,
    away_team_name = EXCLUDED.away_team_name,
    home_team_logo = EXCLUDED.home_team_logo,
    away_team_logo = EXCLUDED.away_team_logo,
    score_home = EXCLUDED.score_home,
    score_away = EXCLUDED.score_away,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert index row query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert index row key=%s: %w", row.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert index rows tx: %w", err)
	}
	return nil
}

func (r *MatchIndexRepository) HasRows(ctx context.Context, clubID string) (bool, error) {
	query, args, err := qb.Select("1").From("match_index").
		Where(qb.Eq("club_public_id", clubID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build probe match index query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("probe match index: %w", err)
	}

	return true, nil
}

func (r *MatchIndexRepository) GetMeta(ctx context.Context, clubID string) (matchindex.Meta, bool, error) {
	query, args, err := qb.Select("*").From("match_index_meta").
		Where(qb.Eq("club_public_id", clubID)).
		ToSQL()
	if err != nil {
		return matchindex.Meta{}, false, fmt.Errorf("build get index meta query: %w", err)
	}

	var row matchIndexMetaTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchindex.Meta{}, false, nil
		}
		return matchindex.Meta{}, false, fmt.Errorf("get index meta: %w", err)
	}

	return matchindex.Meta{UpdatedAt: row.UpdatedAt, Count: row.RowCount}, true, nil
}

func (r *MatchIndexRepository) PutMeta(ctx context.Context, clubID string, meta matchindex.Meta) error {
	query, args, err := qb.InsertInto("match_index_meta").
		Columns("club_public_id", "row_count", "updated_at").
		Values(clubID, meta.Count, meta.UpdatedAt).
		Suffix(`ON CONFLICT (club_public_id)
DO UPDATE SET
    row_count = EXCLUDED.row_count,
    updated_at = EXCLUDED.updated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build put index meta query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put index meta: %w", err)
	}

	return nil
}
