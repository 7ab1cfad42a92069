package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/kickoffhq/clubsite/internal/domain/competition"
	qb "github.com/kickoffhq/clubsite/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) ListByClub(ctx context.Context, clubID string) ([]competition.Competition, error) {
	query, args, err := qb.Select("*").From("competitions").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select competitions query: %w", err)
	}

	var rows []competitionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select competitions: %w", err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		item, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, clubID, competitionID string) (competition.Competition, bool, error) {
	query, args, err := qb.Select("*").From("competitions").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("public_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build get competition query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("get competition: %w", err)
	}

	item, err := r.hydrate(ctx, row)
	if err != nil {
		return competition.Competition{}, false, err
	}
	return item, true, nil
}

// Upsert writes the competition row and swaps its team membership inside one
// transaction so a reader never observes a half-replaced entry list.
func (r *CompetitionRepository) Upsert(ctx context.Context, item competition.Competition) error {
	labels, err := encodeRankLabels(item.RankLabels)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert competition: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertModel := competitionInsertModel{
		PublicID:   item.ID,
		ClubID:     item.ClubID,
		Name:       item.Name,
		Season:     item.Season,
		Format:     item.Format,
		RankLabels: labels,
	}
	query, args, err := qb.InsertModel("competitions", insertModel, `ON CONFLICT (club_public_id, public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    name = EXCLUDED.name,
    season = EXCLUDED.season,
    format = EXCLUDED.format,
    rank_labels = EXCLUDED.rank_labels,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert competition query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert competition %s: %w", item.ID, err)
	}

	clearQuery, clearArgs, err := qb.Update("competition_teams").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("competition_public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear competition teams query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear competition teams: %w", err)
	}

	for position, teamID := range item.TeamIDs {
		memberModel := competitionTeamInsertModel{
			CompetitionID: item.ID,
			TeamID:        teamID,
			Position:      position,
		}
		memberQuery, memberArgs, err := qb.InsertModel("competition_teams", memberModel, `ON CONFLICT (competition_public_id, team_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    position = EXCLUDED.position,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert competition team query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, memberQuery, memberArgs...); err != nil {
			return fmt.Errorf("upsert competition team %s: %w", teamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert competition tx: %w", err)
	}
	return nil
}

func (r *CompetitionRepository) Delete(ctx context.Context, clubID, competitionID string) error {
	query, args, err := qb.Update("competitions").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("public_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete competition query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete competition %s: %w", competitionID, err)
	}

	return nil
}

func (r *CompetitionRepository) ListRounds(ctx context.Context, clubID, competitionID string) ([]competition.Round, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("competition_public_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rounds: %w", err)
	}

	out := make([]competition.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, competition.Round{
			ID:            row.PublicID,
			CompetitionID: row.CompetitionID,
			Name:          row.Name,
		})
	}

	return out, nil
}

func (r *CompetitionRepository) UpsertRound(ctx context.Context, clubID string, item competition.Round) error {
	insertModel := roundInsertModel{
		PublicID:      item.ID,
		ClubID:        clubID,
		CompetitionID: item.CompetitionID,
		Name:          item.Name,
	}
	query, args, err := qb.InsertModel("rounds", insertModel, `ON CONFLICT (club_public_id, competition_public_id, public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    name = EXCLUDED.name,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert round query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert round %s: %w", item.ID, err)
	}

	return nil
}

func (r *CompetitionRepository) DeleteRound(ctx context.Context, clubID, competitionID, roundID string) error {
	query, args, err := qb.Update("rounds").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("competition_public_id", competitionID),
			qb.Eq("public_id", roundID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete round query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete round %s: %w", roundID, err)
	}

	return nil
}

func (r *CompetitionRepository) hydrate(ctx context.Context, row competitionTableModel) (competition.Competition, error) {
	labels, err := decodeRankLabels(row.RankLabels.String)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("decode rank labels competition=%s: %w", row.PublicID, err)
	}

	teamIDs, err := r.listTeamIDs(ctx, row.PublicID)
	if err != nil {
		return competition.Competition{}, err
	}

	return competition.Competition{
		ID:         row.PublicID,
		ClubID:     row.ClubID,
		Name:       row.Name,
		Season:     row.Season,
		Format:     row.Format,
		TeamIDs:    teamIDs,
		RankLabels: labels,
	}, nil
}

func (r *CompetitionRepository) listTeamIDs(ctx context.Context, competitionID string) ([]string, error) {
	query, args, err := qb.Select("team_public_id").From("competition_teams").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("position", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select competition teams query: %w", err)
	}

	var teamIDs []string
	if err := r.db.SelectContext(ctx, &teamIDs, query, args...); err != nil {
		return nil, fmt.Errorf("select competition teams: %w", err)
	}

	return teamIDs, nil
}

func encodeRankLabels(labels []competition.RankLabel) (string, error) {
	if len(labels) == 0 {
		return "[]", nil
	}
	encoded, err := sonic.Marshal(labels)
	if err != nil {
		return "", fmt.Errorf("encode rank labels: %w", err)
	}
	return string(encoded), nil
}

func decodeRankLabels(raw string) ([]competition.RankLabel, error) {
	if raw == "" || raw == "[]" || raw == "null" {
		return nil, nil
	}
	var out []competition.RankLabel
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
