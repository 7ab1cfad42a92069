package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kickoffhq/clubsite/internal/domain/club"
	"github.com/kickoffhq/clubsite/internal/domain/team"
	idgen "github.com/kickoffhq/clubsite/internal/platform/id"
)

type TeamService struct {
	clubRepo club.Repository
	teamRepo team.Repository
	ids      idgen.Generator
}

func NewTeamService(clubRepo club.Repository, teamRepo team.Repository, ids idgen.Generator) *TeamService {
	return &TeamService{
		clubRepo: clubRepo,
		teamRepo: teamRepo,
		ids:      ids,
	}
}

func (s *TeamService) ListByClub(ctx context.Context, clubID string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListByClub")
	defer span.End()

	if err := s.requireClub(ctx, clubID); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *TeamService) Save(ctx context.Context, item team.Team) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Save")
	defer span.End()

	if err := s.requireClub(ctx, item.ClubID); err != nil {
		return team.Team{}, err
	}

	if item.ID == "" && s.ids != nil {
		id, err := s.ids.NewID()
		if err != nil {
			return team.Team{}, fmt.Errorf("generate team id: %w", err)
		}
		item.ID = id
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Upsert(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("save team: %w", err)
	}
	return item, nil
}

func (s *TeamService) Delete(ctx context.Context, clubID, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete")
	defer span.End()

	if err := s.requireClub(ctx, clubID); err != nil {
		return err
	}

	_, exists, err := s.teamRepo.GetByID(ctx, clubID, teamID)
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	if err := s.teamRepo.Delete(ctx, clubID, teamID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}

func (s *TeamService) requireClub(ctx context.Context, clubID string) error {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	_, exists, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return fmt.Errorf("get club: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
	}
	return nil
}
