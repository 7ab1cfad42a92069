package memory

import (
	"context"
	"sync"

	"github.com/kickoffhq/clubsite/internal/domain/competition"
)

type CompetitionRepository struct {
	mu                  sync.RWMutex
	competitionsByClub  map[string][]competition.Competition
	roundsByCompetition map[string][]competition.Round
}

func NewCompetitionRepository(competitions []competition.Competition, rounds []competition.Round) *CompetitionRepository {
	competitionsByClub := make(map[string][]competition.Competition)
	for _, item := range competitions {
		competitionsByClub[item.ClubID] = append(competitionsByClub[item.ClubID], item)
	}
	roundsByCompetition := make(map[string][]competition.Round)
	for _, item := range rounds {
		roundsByCompetition[item.CompetitionID] = append(roundsByCompetition[item.CompetitionID], item)
	}

	return &CompetitionRepository{
		competitionsByClub:  competitionsByClub,
		roundsByCompetition: roundsByCompetition,
	}
}

func (r *CompetitionRepository) ListByClub(_ context.Context, clubID string) ([]competition.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	competitions := r.competitionsByClub[clubID]
	out := make([]competition.Competition, 0, len(competitions))
	out = append(out, competitions...)

	return out, nil
}

func (r *CompetitionRepository) GetByID(_ context.Context, clubID, competitionID string) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.competitionsByClub[clubID] {
		if item.ID == competitionID {
			return item, true, nil
		}
	}

	return competition.Competition{}, false, nil
}

func (r *CompetitionRepository) Upsert(_ context.Context, item competition.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.competitionsByClub[item.ClubID]
	for idx := range rows {
		if rows[idx].ID == item.ID {
			rows[idx] = item
			return nil
		}
	}
	r.competitionsByClub[item.ClubID] = append(rows, item)

	return nil
}

func (r *CompetitionRepository) Delete(_ context.Context, clubID, competitionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.competitionsByClub[clubID]
	kept := make([]competition.Competition, 0, len(rows))
	for _, item := range rows {
		if item.ID != competitionID {
			kept = append(kept, item)
		}
	}
	r.competitionsByClub[clubID] = kept
	delete(r.roundsByCompetition, competitionID)

	return nil
}

func (r *CompetitionRepository) ListRounds(_ context.Context, _, competitionID string) ([]competition.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rounds := r.roundsByCompetition[competitionID]
	out := make([]competition.Round, 0, len(rounds))
	out = append(out, rounds...)

	return out, nil
}

func (r *CompetitionRepository) UpsertRound(_ context.Context, _ string, item competition.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.roundsByCompetition[item.CompetitionID]
	for idx := range rows {
		if rows[idx].ID == item.ID {
			rows[idx] = item
			return nil
		}
	}
	r.roundsByCompetition[item.CompetitionID] = append(rows, item)

	return nil
}

func (r *CompetitionRepository) DeleteRound(_ context.Context, _, competitionID, roundID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.roundsByCompetition[competitionID]
	kept := make([]competition.Round, 0, len(rows))
	for _, item := range rows {
		if item.ID != roundID {
			kept = append(kept, item)
		}
	}
	r.roundsByCompetition[competitionID] = kept

	return nil
}
