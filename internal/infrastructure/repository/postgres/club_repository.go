package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kickoffhq/clubsite/internal/domain/club"
	qb "github.com/kickoffhq/clubsite/internal/platform/querybuilder"
)

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	query, args, err := qb.Select("*").From("clubs").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select clubs query: %w", err)
	}

	var rows []clubTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select clubs: %w", err)
	}

	out := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		out = append(out, club.Club{
			ID:        row.PublicID,
			Name:      row.Name,
			Slug:      row.Slug,
			CreatedAt: row.CreatedAt,
		})
	}

	return out, nil
}

func (r *ClubRepository) GetByID(ctx context.Context, clubID string) (club.Club, bool, error) {
	query, args, err := qb.Select("*").From("clubs").
		Where(
			qb.Eq("public_id", clubID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build get club by id query: %w", err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("get club by id: %w", err)
	}

	return club.Club{
		ID:        row.PublicID,
		Name:      row.Name,
		Slug:      row.Slug,
		CreatedAt: row.CreatedAt,
	}, true, nil
}
