package memory

import (
	"context"
	"sync"

	"github.com/kickoffhq/clubsite/internal/domain/team"
)

type TeamRepository struct {
	mu          sync.RWMutex
	teamsByClub map[string][]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	teamsByClub := make(map[string][]team.Team)
	for _, item := range teams {
		teamsByClub[item.ClubID] = append(teamsByClub[item.ClubID], item)
	}

	return &TeamRepository{teamsByClub: teamsByClub}
}

func (r *TeamRepository) ListByClub(_ context.Context, clubID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := r.teamsByClub[clubID]
	out := make([]team.Team, 0, len(teams))
	out = append(out, teams...)

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, clubID, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.teamsByClub[clubID] {
		if item.ID == teamID {
			return item, true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.teamsByClub[item.ClubID]
	for idx := range rows {
		if rows[idx].ID == item.ID {
			rows[idx] = item
			return nil
		}
	}
	r.teamsByClub[item.ClubID] = append(rows, item)

	return nil
}

func (r *TeamRepository) Delete(_ context.Context, clubID, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.teamsByClub[clubID]
	kept := make([]team.Team, 0, len(rows))
	for _, item := range rows {
		if item.ID != teamID {
			kept = append(kept, item)
		}
	}
	r.teamsByClub[clubID] = kept

	return nil
}
