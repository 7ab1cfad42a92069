package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kickoffhq/clubsite/internal/domain/competition"
	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/domain/standing"
	idgen "github.com/kickoffhq/clubsite/internal/platform/id"
	"github.com/kickoffhq/clubsite/internal/platform/logging"
)

// IndexSynchronizer is the incremental index entry point MatchService calls
// after every authoritative match write.
type IndexSynchronizer interface {
	UpsertMatch(ctx context.Context, clubID string, ref match.Ref, patch match.Patch) error
}

// StandingsRecomputer rebuilds a competition table from match data.
type StandingsRecomputer interface {
	Recompute(ctx context.Context, clubID, competitionID string) ([]standing.Standing, error)
}

// MatchService handles admin match mutations. Each mutation has two
// independent side effects: an incremental index upsert (best-effort, logged
// and swallowed) and a standings recomputation when the edit is
// standings-relevant (surfaced on failure). They are deliberately not one
// transaction.
type MatchService struct {
	competitionRepo competition.Repository
	matchRepo       match.Repository
	friendlyRepo    match.FriendlyRepository
	indexSync       IndexSynchronizer
	standings       StandingsRecomputer
	ids             idgen.Generator
	logger          *logging.Logger
}

func NewMatchService(
	competitionRepo competition.Repository,
	matchRepo match.Repository,
	friendlyRepo match.FriendlyRepository,
	indexSync IndexSynchronizer,
	standings StandingsRecomputer,
	ids idgen.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		competitionRepo: competitionRepo,
		matchRepo:       matchRepo,
		friendlyRepo:    friendlyRepo,
		indexSync:       indexSync,
		standings:       standings,
		ids:             ids,
		logger:          logger,
	}
}

// Create writes a new match and fans out the secondary effects.
func (s *MatchService) Create(ctx context.Context, clubID string, item match.Match) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return match.Match{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}
	item.ClubID = clubID

	if item.ID == "" && s.ids != nil {
		id, err := s.ids.NewID()
		if err != nil {
			return match.Match{}, fmt.Errorf("generate match id: %w", err)
		}
		item.ID = id
	}

	comp, friendly, err := s.resolveTarget(ctx, clubID, &item)
	if err != nil {
		return match.Match{}, err
	}
	if err := item.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if friendly {
		if err := s.friendlyRepo.Upsert(ctx, item); err != nil {
			return match.Match{}, fmt.Errorf("create friendly match: %w", err)
		}
	} else {
		if err := s.matchRepo.Upsert(ctx, item); err != nil {
			return match.Match{}, fmt.Errorf("create match: %w", err)
		}
	}

	s.syncIndex(ctx, clubID, item.Ref(), fullPatch(item))

	if item.Score != nil {
		if err := s.maybeRecompute(ctx, clubID, comp); err != nil {
			return match.Match{}, err
		}
	}

	return item, nil
}

// Update applies a partial patch to an existing match.
func (s *MatchService) Update(ctx context.Context, clubID string, ref match.Ref, patch match.Patch) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return match.Match{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	current, friendly, comp, err := s.getExisting(ctx, clubID, ref)
	if err != nil {
		return match.Match{}, err
	}

	updated := patch.Apply(current)
	if err := updated.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if friendly {
		if err := s.friendlyRepo.Upsert(ctx, updated); err != nil {
			return match.Match{}, fmt.Errorf("update friendly match: %w", err)
		}
	} else {
		if err := s.matchRepo.Upsert(ctx, updated); err != nil {
			return match.Match{}, fmt.Errorf("update match: %w", err)
		}
	}

	s.syncIndex(ctx, clubID, ref, patch)

	if patch.TouchesScore() {
		if err := s.maybeRecompute(ctx, clubID, comp); err != nil {
			return match.Match{}, err
		}
	}

	return updated, nil
}

// Delete removes the authoritative match record. Standings are recomputed
// when the deleted match carried a score. The flat index row is left behind:
// the index has no delete propagation, only add/update idempotence.
func (s *MatchService) Delete(ctx context.Context, clubID string, ref match.Ref) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	current, friendly, comp, err := s.getExisting(ctx, clubID, ref)
	if err != nil {
		return err
	}

	if friendly {
		if err := s.friendlyRepo.Delete(ctx, clubID, ref.MatchID); err != nil {
			return fmt.Errorf("delete friendly match: %w", err)
		}
	} else {
		if err := s.matchRepo.Delete(ctx, clubID, ref); err != nil {
			return fmt.Errorf("delete match: %w", err)
		}
	}

	if current.Score != nil {
		if err := s.maybeRecompute(ctx, clubID, comp); err != nil {
			return err
		}
	}

	return nil
}

// Get returns one match for the admin edit form.
func (s *MatchService) Get(ctx context.Context, clubID string, ref match.Ref) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	current, _, _, err := s.getExisting(ctx, clubID, ref)
	return current, err
}

// ListByRound returns the raw matches of one round.
func (s *MatchService) ListByRound(ctx context.Context, clubID, competitionID, roundID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByRound")
	defer span.End()

	if match.IsFriendlyKind(competitionID) {
		items, err := s.friendlyRepo.ListByClub(ctx, clubID)
		if err != nil {
			return nil, fmt.Errorf("list friendly matches: %w", err)
		}
		return items, nil
	}

	items, err := s.matchRepo.ListByRound(ctx, clubID, competitionID, roundID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) getExisting(ctx context.Context, clubID string, ref match.Ref) (match.Match, bool, *competition.Competition, error) {
	if match.IsFriendlyKind(ref.CompetitionID) {
		current, ok, err := s.friendlyRepo.Get(ctx, clubID, ref.MatchID)
		if err != nil {
			return match.Match{}, false, nil, fmt.Errorf("get friendly match: %w", err)
		}
		if !ok {
			return match.Match{}, false, nil, fmt.Errorf("%w: match=%s", ErrNotFound, ref.MatchID)
		}
		return current, true, nil, nil
	}

	current, ok, err := s.matchRepo.Get(ctx, clubID, ref)
	if err != nil {
		return match.Match{}, false, nil, fmt.Errorf("get match: %w", err)
	}
	if !ok {
		return match.Match{}, false, nil, fmt.Errorf("%w: match=%s", ErrNotFound, ref.MatchID)
	}

	comp, ok, err := s.competitionRepo.GetByID(ctx, clubID, ref.CompetitionID)
	if err != nil {
		return match.Match{}, false, nil, fmt.Errorf("get competition: %w", err)
	}
	if !ok {
		return match.Match{}, false, nil, fmt.Errorf("%w: competition=%s", ErrNotFound, ref.CompetitionID)
	}
	return current, false, &comp, nil
}

func (s *MatchService) resolveTarget(ctx context.Context, clubID string, item *match.Match) (*competition.Competition, bool, error) {
	if match.IsFriendlyKind(item.CompetitionID) {
		item.RoundID = match.RoundSingle
		return nil, true, nil
	}

	comp, ok, err := s.competitionRepo.GetByID(ctx, clubID, item.CompetitionID)
	if err != nil {
		return nil, false, fmt.Errorf("get competition: %w", err)
	}
	if !ok {
		return nil, false, fmt.Errorf("%w: competition=%s", ErrNotFound, item.CompetitionID)
	}
	return &comp, false, nil
}

// maybeRecompute runs the aggregator for real competitions with standings.
// Friendly and cup matches never reach it.
func (s *MatchService) maybeRecompute(ctx context.Context, clubID string, comp *competition.Competition) error {
	if comp == nil || !comp.HasStandings() || s.standings == nil {
		return nil
	}
	if _, err := s.standings.Recompute(ctx, clubID, comp.ID); err != nil {
		return fmt.Errorf("recompute standings competition=%s: %w", comp.ID, err)
	}
	return nil
}

// syncIndex is the best-effort secondary effect: a failed index write never
// fails the admin mutation.
func (s *MatchService) syncIndex(ctx context.Context, clubID string, ref match.Ref, patch match.Patch) {
	if s.indexSync == nil {
		return
	}
	if err := s.indexSync.UpsertMatch(ctx, clubID, ref, patch); err != nil {
		s.logger.WarnContext(ctx, "match index sync failed",
			"club_id", clubID,
			"competition_id", ref.CompetitionID,
			"match_id", ref.MatchID,
			"error", err,
		)
	}
}

// fullPatch projects every field of a freshly created match into a patch so
// the index row builder sees the complete record.
func fullPatch(m match.Match) match.Patch {
	return match.Patch{
		HomeTeamID:   &m.HomeTeamID,
		AwayTeamID:   &m.AwayTeamID,
		MatchDate:    &m.MatchDate,
		MatchTime:    &m.MatchTime,
		Score:        m.Score,
		ScoreSet:     true,
		HomeTeamName: &m.HomeTeamName,
		AwayTeamName: &m.AwayTeamName,
		HomeTeamLogo: &m.HomeTeamLogo,
		AwayTeamLogo: &m.AwayTeamLogo,
	}
}
