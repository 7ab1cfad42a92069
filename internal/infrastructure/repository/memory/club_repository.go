package memory

import (
	"context"
	"sync"

	"github.com/kickoffhq/clubsite/internal/domain/club"
)

type ClubRepository struct {
	mu    sync.RWMutex
	clubs []club.Club
}

func NewClubRepository(clubs []club.Club) *ClubRepository {
	out := make([]club.Club, len(clubs))
	copy(out, clubs)
	return &ClubRepository{clubs: out}
}

func (r *ClubRepository) List(_ context.Context) ([]club.Club, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]club.Club, 0, len(r.clubs))
	out = append(out, r.clubs...)

	return out, nil
}

func (r *ClubRepository) GetByID(_ context.Context, clubID string) (club.Club, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.clubs {
		if item.ID == clubID {
			return item, true, nil
		}
	}

	return club.Club{}, false, nil
}
