package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kickoffhq/clubsite/internal/domain/standing"
	qb "github.com/kickoffhq/clubsite/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListByCompetition(ctx context.Context, clubID, competitionID string) ([]standing.Standing, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("competition_public_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("rank", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Standing{
			TeamID:         row.TeamID,
			CompetitionID:  row.CompetitionID,
			TeamName:       row.TeamName,
			LogoURL:        row.LogoURL,
			Rank:           row.Rank,
			Played:         row.Played,
			Wins:           row.Wins,
			Draws:          row.Draws,
			Losses:         row.Losses,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
		})
	}

	return out, nil
}

// ReplaceByCompetition swaps the whole table inside one transaction: clear
// the current rows, upsert the new set. Readers never observe a half-written
// table.
func (r *StandingRepository) ReplaceByCompetition(ctx context.Context, clubID, competitionID string, standings []standing.Standing) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("standings").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("club_public_id", clubID),
			qb.Eq("competition_public_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}

	for _, item := range standings {
		insertModel := standingInsertModel{
			ClubID:         clubID,
			CompetitionID:  competitionID,
			TeamID:         item.TeamID,
			TeamName:       item.TeamName,
			LogoURL:        item.LogoURL,
			Rank:           item.Rank,
			Played:         item.Played,
			Wins:           item.Wins,
			Draws:          item.Draws,
			Losses:         item.Losses,
			GoalsFor:       item.GoalsFor,
			GoalsAgainst:   item.GoalsAgainst,
			GoalDifference: item.GoalDifference,
			Points:         item.Points,
		}
		query, args, err := qb.InsertModel("standings", insertModel, `ON CONFLICT (club_public_id, competition_public_id, team_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    team_name = EXCLUDED.team_name,
    logo_url = EXCLUDED.logo_url,
    rank = EXCLUDED.rank,
    played = EXCLUDED.played,
    wins = EXCLUDED.wins,
    draws = EXCLUDED.draws,
    losses = EXCLUDED.losses,
    goals_for = EXCLUDED.goals_for,
    goals_against = EXCLUDED.goals_against,
    goal_difference = EXCLUDED.goal_difference,
    points = EXCLUDED.points,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert standing team=%s: %w", item.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}
