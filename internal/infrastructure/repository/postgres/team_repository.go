package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kickoffhq/clubsite/internal/domain/team"
	qb "github.com/kickoffhq/clubsite/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByClub(ctx context.Context, clubID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by club query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by club: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, clubID, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	insertModel := teamInsertModel{
		PublicID: item.ID,
		ClubID:   item.ClubID,
		Name:     item.Name,
		LogoURL:  item.LogoURL,
	}
	query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (club_public_id, public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    name = EXCLUDED.name,
    logo_url = EXCLUDED.logo_url,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team %s: %w", item.ID, err)
	}

	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, clubID, teamID string) error {
	query, args, err := qb.Update("teams").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete team %s: %w", teamID, err)
	}

	return nil
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		ID:      row.PublicID,
		ClubID:  row.ClubID,
		Name:    row.Name,
		LogoURL: row.LogoURL,
	}
}
