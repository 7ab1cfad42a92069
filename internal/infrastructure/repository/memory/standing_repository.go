package memory

import (
	"context"
	"sync"

	"github.com/kickoffhq/clubsite/internal/domain/standing"
)

type standingKey struct {
	clubID        string
	competitionID string
}

type StandingRepository struct {
	mu     sync.RWMutex
	tables map[standingKey][]standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{tables: make(map[standingKey][]standing.Standing)}
}

func (r *StandingRepository) ListByCompetition(_ context.Context, clubID, competitionID string) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.tables[standingKey{clubID: clubID, competitionID: competitionID}]
	out := make([]standing.Standing, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *StandingRepository) ReplaceByCompetition(_ context.Context, clubID, competitionID string, standings []standing.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]standing.Standing, len(standings))
	copy(rows, standings)
	r.tables[standingKey{clubID: clubID, competitionID: competitionID}] = rows

	return nil
}
