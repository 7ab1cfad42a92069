package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/kickoffhq/clubsite/internal/domain/club"
	"github.com/kickoffhq/clubsite/internal/domain/competition"
	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/domain/matchindex"
	"github.com/kickoffhq/clubsite/internal/domain/standing"
	"github.com/kickoffhq/clubsite/internal/domain/team"
)

type stubClubRepository struct {
	byID map[string]club.Club
}

func (r *stubClubRepository) List(_ context.Context) ([]club.Club, error) {
	out := make([]club.Club, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubClubRepository) GetByID(_ context.Context, clubID string) (club.Club, bool, error) {
	c, ok := r.byID[clubID]
	return c, ok, nil
}

type stubCompetitionRepository struct {
	byID     map[string]competition.Competition
	rounds   map[string][]competition.Round
	getErr   error
	listErr  error
	roundErr error
}

func (r *stubCompetitionRepository) ListByClub(_ context.Context, clubID string) ([]competition.Competition, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]competition.Competition, 0)
	for _, c := range r.byID {
		if c.ClubID == clubID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubCompetitionRepository) GetByID(_ context.Context, clubID, competitionID string) (competition.Competition, bool, error) {
	if r.getErr != nil {
		return competition.Competition{}, false, r.getErr
	}
	c, ok := r.byID[competitionID]
	if !ok || c.ClubID != clubID {
		return competition.Competition{}, false, nil
	}
	return c, true, nil
}

func (r *stubCompetitionRepository) Upsert(_ context.Context, item competition.Competition) error {
	if r.byID == nil {
		r.byID = map[string]competition.Competition{}
	}
	r.byID[item.ID] = item
	return nil
}

func (r *stubCompetitionRepository) Delete(_ context.Context, _, competitionID string) error {
	delete(r.byID, competitionID)
	return nil
}

func (r *stubCompetitionRepository) ListRounds(_ context.Context, _, competitionID string) ([]competition.Round, error) {
	if r.roundErr != nil {
		return nil, r.roundErr
	}
	return r.rounds[competitionID], nil
}

func (r *stubCompetitionRepository) UpsertRound(_ context.Context, _ string, item competition.Round) error {
	if r.rounds == nil {
		r.rounds = map[string][]competition.Round{}
	}
	r.rounds[item.CompetitionID] = append(r.rounds[item.CompetitionID], item)
	return nil
}

func (r *stubCompetitionRepository) DeleteRound(_ context.Context, _, competitionID, roundID string) error {
	kept := make([]competition.Round, 0)
	for _, round := range r.rounds[competitionID] {
		if round.ID != roundID {
			kept = append(kept, round)
		}
	}
	r.rounds[competitionID] = kept
	return nil
}

type stubTeamRepository struct {
	byClub map[string][]team.Team
}

func (r *stubTeamRepository) ListByClub(_ context.Context, clubID string) ([]team.Team, error) {
	return r.byClub[clubID], nil
}

func (r *stubTeamRepository) GetByID(_ context.Context, clubID, teamID string) (team.Team, bool, error) {
	for _, t := range r.byClub[clubID] {
		if t.ID == teamID {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *stubTeamRepository) Upsert(_ context.Context, item team.Team) error {
	if r.byClub == nil {
		r.byClub = map[string][]team.Team{}
	}
	for i, t := range r.byClub[item.ClubID] {
		if t.ID == item.ID {
			r.byClub[item.ClubID][i] = item
			return nil
		}
	}
	r.byClub[item.ClubID] = append(r.byClub[item.ClubID], item)
	return nil
}

func (r *stubTeamRepository) Delete(_ context.Context, clubID, teamID string) error {
	kept := make([]team.Team, 0)
	for _, t := range r.byClub[clubID] {
		if t.ID != teamID {
			kept = append(kept, t)
		}
	}
	r.byClub[clubID] = kept
	return nil
}

type stubMatchRepository struct {
	mu      sync.Mutex
	byRound map[string][]match.Match
	listErr error
}

func roundKey(competitionID, roundID string) string {
	return competitionID + "/" + roundID
}

func (r *stubMatchRepository) ListByRound(_ context.Context, _, competitionID, roundID string) ([]match.Match, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byRound[roundKey(competitionID, roundID)], nil
}

func (r *stubMatchRepository) Get(_ context.Context, _ string, ref match.Ref) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.byRound[roundKey(ref.CompetitionID, ref.RoundID)] {
		if m.ID == ref.MatchID {
			return m, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *stubMatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byRound == nil {
		r.byRound = map[string][]match.Match{}
	}
	key := roundKey(item.CompetitionID, item.RoundID)
	for i, m := range r.byRound[key] {
		if m.ID == item.ID {
			r.byRound[key][i] = item
			return nil
		}
	}
	r.byRound[key] = append(r.byRound[key], item)
	return nil
}

func (r *stubMatchRepository) Delete(_ context.Context, _ string, ref match.Ref) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := roundKey(ref.CompetitionID, ref.RoundID)
	kept := make([]match.Match, 0)
	for _, m := range r.byRound[key] {
		if m.ID != ref.MatchID {
			kept = append(kept, m)
		}
	}
	r.byRound[key] = kept
	return nil
}

type stubFriendlyRepository struct {
	byClub map[string][]match.Match
}

func (r *stubFriendlyRepository) ListByClub(_ context.Context, clubID string) ([]match.Match, error) {
	return r.byClub[clubID], nil
}

func (r *stubFriendlyRepository) Get(_ context.Context, clubID, matchID string) (match.Match, bool, error) {
	for _, m := range r.byClub[clubID] {
		if m.ID == matchID {
			return m, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *stubFriendlyRepository) Upsert(_ context.Context, item match.Match) error {
	if r.byClub == nil {
		r.byClub = map[string][]match.Match{}
	}
	for i, m := range r.byClub[item.ClubID] {
		if m.ID == item.ID {
			r.byClub[item.ClubID][i] = item
			return nil
		}
	}
	r.byClub[item.ClubID] = append(r.byClub[item.ClubID], item)
	return nil
}

func (r *stubFriendlyRepository) Delete(_ context.Context, clubID, matchID string) error {
	kept := make([]match.Match, 0)
	for _, m := range r.byClub[clubID] {
		if m.ID != matchID {
			kept = append(kept, m)
		}
	}
	r.byClub[clubID] = kept
	return nil
}

type stubStandingRepository struct {
	rows       map[string][]standing.Standing
	replaceErr error
	replaced   int
}

func standingsKey(clubID, competitionID string) string {
	return clubID + "/" + competitionID
}

func (r *stubStandingRepository) ListByCompetition(_ context.Context, clubID, competitionID string) ([]standing.Standing, error) {
	return r.rows[standingsKey(clubID, competitionID)], nil
}

func (r *stubStandingRepository) ReplaceByCompetition(_ context.Context, clubID, competitionID string, standings []standing.Standing) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	if r.rows == nil {
		r.rows = map[string][]standing.Standing{}
	}
	r.rows[standingsKey(clubID, competitionID)] = standings
	r.replaced++
	return nil
}

type stubIndexRepository struct {
	mu        sync.Mutex
	rows      map[string]map[string]matchindex.Row
	meta      map[string]matchindex.Meta
	batches   [][]matchindex.Row
	upsertErr error
	failAfter int // fail on the Nth batch (1-based) when > 0
}

func (r *stubIndexRepository) ListByClub(_ context.Context, clubID string) ([]matchindex.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]matchindex.Row, 0, len(r.rows[clubID]))
	for _, row := range r.rows[clubID] {
		out = append(out, row)
	}
	return out, nil
}

func (r *stubIndexRepository) UpsertRows(_ context.Context, clubID string, rows []matchindex.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	if r.failAfter > 0 && len(r.batches)+1 >= r.failAfter {
		return fmt.Errorf("batch %d commit refused", len(r.batches)+1)
	}
	if r.rows == nil {
		r.rows = map[string]map[string]matchindex.Row{}
	}
	if r.rows[clubID] == nil {
		r.rows[clubID] = map[string]matchindex.Row{}
	}
	batch := make([]matchindex.Row, len(rows))
	copy(batch, rows)
	r.batches = append(r.batches, batch)
	for _, row := range rows {
		r.rows[clubID][row.Key()] = row
	}
	return nil
}

func (r *stubIndexRepository) HasRows(_ context.Context, clubID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows[clubID]) > 0, nil
}

func (r *stubIndexRepository) GetMeta(_ context.Context, clubID string) (matchindex.Meta, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	meta, ok := r.meta[clubID]
	return meta, ok, nil
}

func (r *stubIndexRepository) PutMeta(_ context.Context, clubID string, meta matchindex.Meta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.meta == nil {
		r.meta = map[string]matchindex.Meta{}
	}
	r.meta[clubID] = meta
	return nil
}

type recordingIndexSync struct {
	calls []match.Ref
	err   error
}

func (s *recordingIndexSync) UpsertMatch(_ context.Context, _ string, ref match.Ref, _ match.Patch) error {
	s.calls = append(s.calls, ref)
	return s.err
}

type recordingRecomputer struct {
	calls []string
	err   error
}

func (s *recordingRecomputer) Recompute(_ context.Context, _, competitionID string) ([]standing.Standing, error) {
	s.calls = append(s.calls, competitionID)
	return nil, s.err
}
