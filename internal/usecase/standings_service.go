package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc"

	"github.com/kickoffhq/clubsite/internal/domain/competition"
	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/domain/standing"
	"github.com/kickoffhq/clubsite/internal/domain/team"
)

// StandingsService recomputes league tables from raw match results and
// persists them wholesale. Standings correctness is a primary guarantee;
// unlike index synchronization, every failure here surfaces to the caller.
type StandingsService struct {
	competitionRepo competition.Repository
	teamRepo        team.Repository
	matchRepo       match.Repository
	standingRepo    standing.Repository
}

func NewStandingsService(
	competitionRepo competition.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	standingRepo standing.Repository,
) *StandingsService {
	return &StandingsService{
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		matchRepo:       matchRepo,
		standingRepo:    standingRepo,
	}
}

// ListByCompetition returns the persisted table. Cup competitions are refused
// before any read.
func (s *StandingsService) ListByCompetition(ctx context.Context, clubID, competitionID string) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListByCompetition")
	defer span.End()

	comp, err := s.requireStandingsCompetition(ctx, clubID, competitionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.standingRepo.ListByCompetition(ctx, clubID, comp.ID)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	return rows, nil
}

// Recompute rebuilds the full table from the competition's match corpus and
// replaces the persisted rows in one transaction.
func (s *StandingsService) Recompute(ctx context.Context, clubID, competitionID string) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Recompute")
	defer span.End()

	comp, err := s.requireStandingsCompetition(ctx, clubID, competitionID)
	if err != nil {
		return nil, err
	}

	rounds, err := s.competitionRepo.ListRounds(ctx, clubID, comp.ID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	candidates := comp.StandingsRounds(rounds)

	matches, err := s.readRoundMatches(ctx, clubID, comp.ID, candidates)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	tallies := foldMatches(comp, team.NewLookup(teams), matches)
	ranked := standing.Rank(tallies)
	for i := range ranked {
		ranked[i].CompetitionID = comp.ID
	}

	if err := s.standingRepo.ReplaceByCompetition(ctx, clubID, comp.ID, ranked); err != nil {
		return nil, fmt.Errorf("replace standings: %w", err)
	}

	return ranked, nil
}

// ApplyManualRows takes operator-edited tallies, re-derives the computed
// columns and re-ranks, then replaces the table. No match data is touched;
// this is the cheap override path, not a recomputation.
func (s *StandingsService) ApplyManualRows(ctx context.Context, clubID, competitionID string, rows []standing.Tally) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ApplyManualRows")
	defer span.End()

	comp, err := s.requireStandingsCompetition(ctx, clubID, competitionID)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if strings.TrimSpace(row.TeamID) == "" {
			return nil, fmt.Errorf("%w: standing row team id is required", ErrInvalidInput)
		}
		if row.Wins < 0 || row.Draws < 0 || row.Losses < 0 || row.GoalsFor < 0 || row.GoalsAgainst < 0 {
			return nil, fmt.Errorf("%w: standing row for team %s has negative values", ErrInvalidInput, row.TeamID)
		}
	}

	ranked := standing.Rank(rows)
	for i := range ranked {
		ranked[i].CompetitionID = comp.ID
	}

	if err := s.standingRepo.ReplaceByCompetition(ctx, clubID, comp.ID, ranked); err != nil {
		return nil, fmt.Errorf("replace standings: %w", err)
	}

	return ranked, nil
}

func (s *StandingsService) requireStandingsCompetition(ctx context.Context, clubID, competitionID string) (competition.Competition, error) {
	clubID = strings.TrimSpace(clubID)
	competitionID = strings.TrimSpace(competitionID)
	if clubID == "" {
		return competition.Competition{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}
	if competitionID == "" {
		return competition.Competition{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	comp, exists, err := s.competitionRepo.GetByID(ctx, clubID, competitionID)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("get competition: %w", err)
	}
	if !exists {
		return competition.Competition{}, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
	}
	if !comp.HasStandings() {
		return competition.Competition{}, fmt.Errorf("%w: competition=%s format=%s", ErrStandingsNotSupported, comp.ID, comp.Format)
	}

	return comp, nil
}

// readRoundMatches fans the per-round reads out concurrently and joins before
// folding. Pure read parallelism; the fold itself stays single-threaded.
func (s *StandingsService) readRoundMatches(ctx context.Context, clubID, competitionID string, rounds []competition.Round) ([]match.Match, error) {
	perRound := make([][]match.Match, len(rounds))
	errs := make([]error, len(rounds))

	var wg conc.WaitGroup
	for i, r := range rounds {
		i, r := i, r
		wg.Go(func() {
			items, err := s.matchRepo.ListByRound(ctx, clubID, competitionID, r.ID)
			if err != nil {
				errs[i] = fmt.Errorf("list matches round=%s: %w", r.ID, err)
				return
			}
			perRound[i] = items
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make([]match.Match, 0)
	for _, items := range perRound {
		out = append(out, items...)
	}
	return out, nil
}

// foldMatches seeds one zeroed tally per declared team and accumulates every
// played match. Teams outside the declared list are ignored even when a match
// references them; a match referencing an unknown id still updates the known
// side.
func foldMatches(comp competition.Competition, teams team.Lookup, matches []match.Match) []standing.Tally {
	index := make(map[string]*standing.Tally, len(comp.TeamIDs))
	order := make([]string, 0, len(comp.TeamIDs))
	for _, teamID := range comp.TeamIDs {
		if _, ok := index[teamID]; ok {
			continue
		}
		tally := &standing.Tally{TeamID: teamID}
		if live, ok := teams[teamID]; ok {
			tally.TeamName = live.Name
			tally.LogoURL = live.LogoURL
		}
		index[teamID] = tally
		order = append(order, teamID)
	}

	for _, m := range matches {
		if !m.Played() {
			continue
		}
		home := index[m.HomeTeamID]
		away := index[m.AwayTeamID]
		if home != nil {
			applyResult(home, m.Score.Home, m.Score.Away)
		}
		if away != nil {
			applyResult(away, m.Score.Away, m.Score.Home)
		}
	}

	out := make([]standing.Tally, 0, len(order))
	for _, teamID := range order {
		out = append(out, *index[teamID])
	}
	return out
}

func applyResult(t *standing.Tally, scored, conceded int) {
	t.GoalsFor += scored
	t.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		t.Wins++
	case scored < conceded:
		t.Losses++
	default:
		t.Draws++
	}
}
