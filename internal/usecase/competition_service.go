package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kickoffhq/clubsite/internal/domain/club"
	"github.com/kickoffhq/clubsite/internal/domain/competition"
	idgen "github.com/kickoffhq/clubsite/internal/platform/id"
)

type CompetitionService struct {
	clubRepo        club.Repository
	competitionRepo competition.Repository
	ids             idgen.Generator
}

func NewCompetitionService(clubRepo club.Repository, competitionRepo competition.Repository, ids idgen.Generator) *CompetitionService {
	return &CompetitionService{
		clubRepo:        clubRepo,
		competitionRepo: competitionRepo,
		ids:             ids,
	}
}

func (s *CompetitionService) ListByClub(ctx context.Context, clubID string) ([]competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.ListByClub")
	defer span.End()

	if err := s.requireClub(ctx, clubID); err != nil {
		return nil, err
	}

	items, err := s.competitionRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	return items, nil
}

func (s *CompetitionService) Get(ctx context.Context, clubID, competitionID string) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Get")
	defer span.End()

	if err := s.requireClub(ctx, clubID); err != nil {
		return competition.Competition{}, err
	}

	comp, exists, err := s.competitionRepo.GetByID(ctx, clubID, competitionID)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("get competition: %w", err)
	}
	if !exists {
		return competition.Competition{}, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
	}
	return comp, nil
}

func (s *CompetitionService) Save(ctx context.Context, item competition.Competition) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Save")
	defer span.End()

	if err := s.requireClub(ctx, item.ClubID); err != nil {
		return competition.Competition{}, err
	}

	if item.ID == "" && s.ids != nil {
		id, err := s.ids.NewID()
		if err != nil {
			return competition.Competition{}, fmt.Errorf("generate competition id: %w", err)
		}
		item.ID = id
	}
	item.Format = competition.NormalizeFormat(item.Format)
	if err := item.Validate(); err != nil {
		return competition.Competition{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.competitionRepo.Upsert(ctx, item); err != nil {
		return competition.Competition{}, fmt.Errorf("save competition: %w", err)
	}
	return item, nil
}

func (s *CompetitionService) Delete(ctx context.Context, clubID, competitionID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Delete")
	defer span.End()

	if _, err := s.Get(ctx, clubID, competitionID); err != nil {
		return err
	}

	if err := s.competitionRepo.Delete(ctx, clubID, competitionID); err != nil {
		return fmt.Errorf("delete competition: %w", err)
	}
	return nil
}

func (s *CompetitionService) ListRounds(ctx context.Context, clubID, competitionID string) ([]competition.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.ListRounds")
	defer span.End()

	if _, err := s.Get(ctx, clubID, competitionID); err != nil {
		return nil, err
	}

	rounds, err := s.competitionRepo.ListRounds(ctx, clubID, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	return rounds, nil
}

func (s *CompetitionService) SaveRound(ctx context.Context, clubID string, item competition.Round) (competition.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.SaveRound")
	defer span.End()

	if _, err := s.Get(ctx, clubID, item.CompetitionID); err != nil {
		return competition.Round{}, err
	}

	if item.ID == "" && s.ids != nil {
		id, err := s.ids.NewID()
		if err != nil {
			return competition.Round{}, fmt.Errorf("generate round id: %w", err)
		}
		item.ID = id
	}
	if strings.TrimSpace(item.Name) == "" {
		return competition.Round{}, fmt.Errorf("%w: round name is required", ErrInvalidInput)
	}

	if err := s.competitionRepo.UpsertRound(ctx, clubID, item); err != nil {
		return competition.Round{}, fmt.Errorf("save round: %w", err)
	}
	return item, nil
}

func (s *CompetitionService) DeleteRound(ctx context.Context, clubID, competitionID, roundID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.DeleteRound")
	defer span.End()

	if _, err := s.Get(ctx, clubID, competitionID); err != nil {
		return err
	}

	if err := s.competitionRepo.DeleteRound(ctx, clubID, competitionID, roundID); err != nil {
		return fmt.Errorf("delete round: %w", err)
	}
	return nil
}

func (s *CompetitionService) requireClub(ctx context.Context, clubID string) error {
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
