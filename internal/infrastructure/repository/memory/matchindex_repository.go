package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kickoffhq/clubsite/internal/domain/matchindex"
)

type MatchIndexRepository struct {
	mu         sync.RWMutex
	rowsByClub map[string]map[string]matchindex.Row
	metaByClub map[string]matchindex.Meta
}

func NewMatchIndexRepository() *MatchIndexRepository {
	return &MatchIndexRepository{
		rowsByClub: make(map[string]map[string]matchindex.Row),
		metaByClub: make(map[string]matchindex.Meta),
	}
}

func (r *MatchIndexRepository) ListByClub(_ context.Context, clubID string) ([]matchindex.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.rowsByClub[clubID]
	out := make([]matchindex.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchDate != out[j].MatchDate {
			return out[i].MatchDate < out[j].MatchDate
		}
		if out[i].MatchTime != out[j].MatchTime {
			return out[i].MatchTime < out[j].MatchTime
		}
		return out[i].Key() < out[j].Key()
	})

	return out, nil
}

func (r *MatchIndexRepository) UpsertRows(_ context.Context, clubID string, rows []matchindex.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.rowsByClub[clubID]
	if existing == nil {
		existing = make(map[string]matchindex.Row, len(rows))
		r.rowsByClub[clubID] = existing
	}
	for _, row := range rows {
		existing[row.Key()] = row
	}

	return nil
}

func (r *MatchIndexRepository) HasRows(_ context.Context, clubID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rowsByClub[clubID]) > 0, nil
}

func (r *MatchIndexRepository) GetMeta(_ context.Context, clubID string) (matchindex.Meta, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.metaByClub[clubID]
	return meta, ok, nil
}

func (r *MatchIndexRepository) PutMeta(_ context.Context, clubID string, meta matchindex.Meta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metaByClub[clubID] = meta

	return nil
}
