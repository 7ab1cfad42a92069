package memory

import (
	"context"
	"sync"

	"github.com/kickoffhq/clubsite/internal/domain/match"
)

type matchKey struct {
	clubID        string
	competitionID string
	roundID       string
}

type MatchRepository struct {
	mu             sync.RWMutex
	matchesByRound map[matchKey][]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	matchesByRound := make(map[matchKey][]match.Match)
	for _, item := range matches {
		key := matchKey{clubID: item.ClubID, competitionID: item.CompetitionID, roundID: item.RoundID}
		matchesByRound[key] = append(matchesByRound[key], item)
	}

	return &MatchRepository{matchesByRound: matchesByRound}
}

func (r *MatchRepository) ListByRound(_ context.Context, clubID, competitionID, roundID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.matchesByRound[matchKey{clubID: clubID, competitionID: competitionID, roundID: roundID}]
	out := make([]match.Match, 0, len(matches))
	out = append(out, matches...)

	return out, nil
}

func (r *MatchRepository) Get(_ context.Context, clubID string, ref match.Ref) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.matchesByRound[matchKey{clubID: clubID, competitionID: ref.CompetitionID, roundID: ref.RoundID}] {
		if item.ID == ref.MatchID {
			return item, true, nil
		}
	}

	return match.Match{}, false, nil
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := matchKey{clubID: item.ClubID, competitionID: item.CompetitionID, roundID: item.RoundID}
	rows := r.matchesByRound[key]
	for idx := range rows {
		if rows[idx].ID == item.ID {
			rows[idx] = item
			return nil
		}
	}
	r.matchesByRound[key] = append(rows, item)

	return nil
}

func (r *MatchRepository) Delete(_ context.Context, clubID string, ref match.Ref) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := matchKey{clubID: clubID, competitionID: ref.CompetitionID, roundID: ref.RoundID}
	rows := r.matchesByRound[key]
	kept := make([]match.Match, 0, len(rows))
	for _, item := range rows {
		if item.ID != ref.MatchID {
			kept = append(kept, item)
		}
	}
	r.matchesByRound[key] = kept

	return nil
}

type FriendlyRepository struct {
	mu            sync.RWMutex
	matchesByClub map[string][]match.Match
}

func NewFriendlyRepository(matches []match.Match) *FriendlyRepository {
	matchesByClub := make(map[string][]match.Match)
	for _, item := range matches {
		matchesByClub[item.ClubID] = append(matchesByClub[item.ClubID], item)
	}

	return &FriendlyRepository{matchesByClub: matchesByClub}
}

func (r *FriendlyRepository) ListByClub(_ context.Context, clubID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.matchesByClub[clubID]
	out := make([]match.Match, 0, len(matches))
	out = append(out, matches...)

	return out, nil
}

func (r *FriendlyRepository) Get(_ context.Context, clubID, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.matchesByClub[clubID] {
		if item.ID == matchID {
			return item, true, nil
		}
	}

	return match.Match{}, false, nil
}

func (r *FriendlyRepository) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.matchesByClub[item.ClubID]
	for idx := range rows {
		if rows[idx].ID == item.ID {
			rows[idx] = item
			return nil
		}
	}
	r.matchesByClub[item.ClubID] = append(rows, item)

	return nil
}

func (r *FriendlyRepository) Delete(_ context.Context, clubID, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.matchesByClub[clubID]
	kept := make([]match.Match, 0, len(rows))
	for _, item := range rows {
		if item.ID != matchID {
			kept = append(kept, item)
		}
	}
	r.matchesByClub[clubID] = kept

	return nil
}
