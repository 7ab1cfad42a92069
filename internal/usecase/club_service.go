package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kickoffhq/clubsite/internal/domain/club"
)

type ClubService struct {
	clubRepo club.Repository
}

func NewClubService(clubRepo club.Repository) *ClubService {
	return &ClubService{clubRepo: clubRepo}
}

func (s *ClubService) List(ctx context.Context) ([]club.Club, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.List")
	defer span.End()

	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return clubs, nil
}

func (s *ClubService) Get(ctx context.Context, clubID string) (club.Club, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.Get")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return club.Club{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	item, exists, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return club.Club{}, fmt.Errorf("get club: %w", err)
	}
	if !exists {
		return club.Club{}, fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
	}
	return item, nil
}
