package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/kickoffhq/clubsite/internal/domain/club"
	"github.com/kickoffhq/clubsite/internal/domain/competition"
	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/domain/matchindex"
	"github.com/kickoffhq/clubsite/internal/domain/team"
	"github.com/kickoffhq/clubsite/internal/platform/cache"
	"github.com/kickoffhq/clubsite/internal/platform/logging"
	"github.com/kickoffhq/clubsite/internal/platform/resilience"
)

const defaultBackfillWorkers = 8

// SitePurger pings the static-site cache after index writes. Best-effort; a
// nil purger disables the ping.
type SitePurger interface {
	PurgeClub(ctx context.Context, clubID string) error
}

// MatchIndexService maintains the flattened per-club public match index: full
// backfills, incremental per-match upserts and the presence gate that decides
// whether a public read may skip the backfill.
type MatchIndexService struct {
	clubRepo        club.Repository
	competitionRepo competition.Repository
	teamRepo        team.Repository
	matchRepo       match.Repository
	friendlyRepo    match.FriendlyRepository
	indexRepo       matchindex.Repository
	listCache       *cache.Store
	purger          SitePurger
	logger          *logging.Logger
	backfillWorkers int
	backfills       resilience.SingleFlight
	now             func() time.Time
}

func NewMatchIndexService(
	clubRepo club.Repository,
	competitionRepo competition.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	friendlyRepo match.FriendlyRepository,
	indexRepo matchindex.Repository,
	listCache *cache.Store,
	purger SitePurger,
	logger *logging.Logger,
) *MatchIndexService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchIndexService{
		clubRepo:        clubRepo,
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		matchRepo:       matchRepo,
		friendlyRepo:    friendlyRepo,
		indexRepo:       indexRepo,
		listCache:       listCache,
		purger:          purger,
		logger:          logger,
		backfillWorkers: defaultBackfillWorkers,
		now:             time.Now,
	}
}

// SetBackfillWorkers bounds the round-read fanout during a backfill. Values
// below 1 keep the default.
func (s *MatchIndexService) SetBackfillWorkers(workers int) {
	if workers >= 1 {
		s.backfillWorkers = workers
	}
}

// HasIndex is the presence gate: true once the club's flat index holds at
// least one real row. Meta state never counts.
func (s *MatchIndexService) HasIndex(ctx context.Context, clubID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchIndexService.HasIndex")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return false, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	present, err := s.indexRepo.HasRows(ctx, clubID)
	if err != nil {
		return false, fmt.Errorf("probe match index: %w", err)
	}
	return present, nil
}

// Backfill rebuilds the whole flat index for a club from the nested source:
// every competition round's matches plus every friendly, committed in batches
// of matchindex.BatchSize, then the meta record. Idempotent — deterministic
// keys and merge writes mean re-running with unchanged source data rewrites
// byte-identical rows. Concurrent in-process calls for one club are coalesced;
// a crash mid-run leaves a partial index that the next run repairs.
func (s *MatchIndexService) Backfill(ctx context.Context, clubID string) (matchindex.Meta, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchIndexService.Backfill")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return matchindex.Meta{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	value, err, shared := s.backfills.Do(clubID, func() (any, error) {
		return s.backfill(ctx, clubID)
	})
	if err != nil {
		return matchindex.Meta{}, err
	}
	if shared {
		s.logger.InfoContext(ctx, "match index backfill coalesced", "club_id", clubID)
	}

	meta, _ := value.(matchindex.Meta)
	return meta, nil
}

func (s *MatchIndexService) backfill(ctx context.Context, clubID string) (matchindex.Meta, error) {
	if _, err := s.requireClub(ctx, clubID); err != nil {
		return matchindex.Meta{}, err
	}

	teams, err := s.teamRepo.ListByClub(ctx, clubID)
	if err != nil {
		return matchindex.Meta{}, fmt.Errorf("list teams: %w", err)
	}
	lookup := team.NewLookup(teams)

	rows, err := s.collectClubRows(ctx, clubID, lookup)
	if err != nil {
		return matchindex.Meta{}, err
	}

	for start := 0; start < len(rows); start += matchindex.BatchSize {
		end := start + matchindex.BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := s.indexRepo.UpsertRows(ctx, clubID, rows[start:end]); err != nil {
			// Committed batches stay committed; the caller retries the whole
			// backfill and idempotence repairs the gap.
			return matchindex.Meta{}, fmt.Errorf("commit index batch %d-%d: %w", start, end, err)
		}
	}

	meta := matchindex.Meta{UpdatedAt: s.now(), Count: len(rows)}
	if err := s.indexRepo.PutMeta(ctx, clubID, meta); err != nil {
		return matchindex.Meta{}, fmt.Errorf("write index meta: %w", err)
	}

	s.invalidateList(ctx, clubID)
	s.purge(ctx, clubID)
	s.logger.InfoContext(ctx, "match index backfill complete", "club_id", clubID, "rows", meta.Count)

	return meta, nil
}

// collectClubRows walks competitions → rounds → matches plus friendlies and
// flattens everything that builds cleanly. Rows with unusable dates are
// dropped, never escalated.
func (s *MatchIndexService) collectClubRows(ctx context.Context, clubID string, lookup team.Lookup) ([]matchindex.Row, error) {
	competitions, err := s.competitionRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}

	type roundRead struct {
		comp  competition.Competition
		round competition.Round
	}
	reads := make([]roundRead, 0)
	for _, comp := range competitions {
		rounds, err := s.competitionRepo.ListRounds(ctx, clubID, comp.ID)
		if err != nil {
			return nil, fmt.Errorf("list rounds competition=%s: %w", comp.ID, err)
		}
		for _, r := range rounds {
			reads = append(reads, roundRead{comp: comp, round: r})
		}
	}

	perRound := make([][]match.Match, len(reads))
	errs := make([]error, len(reads))

	workers := s.backfillWorkers
	if workers <= 0 {
		workers = defaultBackfillWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create backfill worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, read := range reads {
		i, read := i, read
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			items, err := s.matchRepo.ListByRound(ctx, clubID, read.comp.ID, read.round.ID)
			if err != nil {
				errs[i] = fmt.Errorf("list matches competition=%s round=%s: %w", read.comp.ID, read.round.ID, err)
				return
			}
			perRound[i] = items
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit backfill read: %w", err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	rows := make([]matchindex.Row, 0)
	for i, read := range reads {
		for _, m := range perRound[i] {
			row, err := matchindex.BuildRow(m, read.comp.Name, read.round.Name, lookup)
			if err != nil {
				s.logRowDrop(ctx, clubID, m.ID, err)
				continue
			}
			rows = append(rows, row)
		}
	}

	friendlies, err := s.friendlyRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list friendly matches: %w", err)
	}
	for _, m := range friendlies {
		row, err := matchindex.BuildRow(m, "", "", lookup)
		if err != nil {
			s.logRowDrop(ctx, clubID, m.ID, err)
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// UpsertMatch rebuilds exactly one index row from the admin's field patch
// merged onto the current match snapshot and merge-writes it. Called
// synchronously from every match mutation so the flat index never trails the
// nested source by more than one write.
func (s *MatchIndexService) UpsertMatch(ctx context.Context, clubID string, ref match.Ref, patch match.Patch) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchIndexService.UpsertMatch")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}
	if ref.CompetitionID == "" || ref.MatchID == "" {
		return fmt.Errorf("%w: match ref is incomplete", ErrInvalidInput)
	}

	snapshot, competitionName, roundName, err := s.matchSnapshot(ctx, clubID, ref)
	if err != nil {
		return err
	}
	merged := patch.Apply(snapshot)

	teams, err := s.teamRepo.ListByClub(ctx, clubID)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}

	row, err := matchindex.BuildRow(merged, competitionName, roundName, team.NewLookup(teams))
	if err != nil {
		if errors.Is(err, matchindex.ErrUnusableDate) {
			s.logRowDrop(ctx, clubID, ref.MatchID, err)
			return nil
		}
		return fmt.Errorf("build index row: %w", err)
	}

	if err := s.indexRepo.UpsertRows(ctx, clubID, []matchindex.Row{row}); err != nil {
		return fmt.Errorf("upsert index row key=%s: %w", row.Key(), err)
	}

	s.invalidateList(ctx, clubID)
	s.purge(ctx, clubID)
	return nil
}

// ListClubMatches serves the public "all matches for this club" read. The
// presence gate runs first; an unpopulated index triggers one synchronous
// backfill before reading. Subsequent reads hit the flat index directly.
func (s *MatchIndexService) ListClubMatches(ctx context.Context, clubID string) ([]matchindex.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchIndexService.ListClubMatches")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	if s.listCache != nil {
		if cached, ok := s.listCache.Get(ctx, s.listCacheKey(clubID)); ok {
			if rows, ok := cached.([]matchindex.Row); ok {
				return rows, nil
			}
		}
	}

	if _, err := s.requireClub(ctx, clubID); err != nil {
		return nil, err
	}

	present, err := s.indexRepo.HasRows(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("probe match index: %w", err)
	}
	if !present {
		if _, err := s.Backfill(ctx, clubID); err != nil {
			return nil, fmt.Errorf("backfill match index: %w", err)
		}
	}

	rows, err := s.indexRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list match index: %w", err)
	}

	if s.listCache != nil {
		s.listCache.Set(ctx, s.listCacheKey(clubID), rows)
	}
	return rows, nil
}

// Meta exposes the last backfill summary, mainly for the admin dashboard.
func (s *MatchIndexService) Meta(ctx context.Context, clubID string) (matchindex.Meta, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchIndexService.Meta")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return matchindex.Meta{}, false, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	meta, ok, err := s.indexRepo.GetMeta(ctx, clubID)
	if err != nil {
		return matchindex.Meta{}, false, fmt.Errorf("get index meta: %w", err)
	}
	return meta, ok, nil
}

func (s *MatchIndexService) matchSnapshot(ctx context.Context, clubID string, ref match.Ref) (match.Match, string, string, error) {
	if match.IsFriendlyKind(ref.CompetitionID) {
		snapshot, ok, err := s.friendlyRepo.Get(ctx, clubID, ref.MatchID)
		if err != nil {
			return match.Match{}, "", "", fmt.Errorf("get friendly match: %w", err)
		}
		if !ok {
			snapshot = match.Match{ID: ref.MatchID, ClubID: clubID, CompetitionID: ref.CompetitionID, RoundID: match.RoundSingle}
		}
		return snapshot, "", "", nil
	}

	snapshot, ok, err := s.matchRepo.Get(ctx, clubID, ref)
	if err != nil {
		return match.Match{}, "", "", fmt.Errorf("get match: %w", err)
	}
	if !ok {
		snapshot = match.Match{ID: ref.MatchID, ClubID: clubID, CompetitionID: ref.CompetitionID, RoundID: ref.RoundID}
	}

	competitionName := ""
	roundName := ""
	if comp, ok, err := s.competitionRepo.GetByID(ctx, clubID, ref.CompetitionID); err != nil {
		return match.Match{}, "", "", fmt.Errorf("get competition: %w", err)
	} else if ok {
		competitionName = comp.Name
	}
	if rounds, err := s.competitionRepo.ListRounds(ctx, clubID, ref.CompetitionID); err == nil {
		for _, r := range rounds {
			if r.ID == ref.RoundID {
				roundName = r.Name
				break
			}
		}
	}

	return snapshot, competitionName, roundName, nil
}

func (s *MatchIndexService) requireClub(ctx context.Context, clubID string) (club.Club, error) {
	c, exists, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return club.Club{}, fmt.Errorf("get club: %w", err)
	}
	if !exists {
		return club.Club{}, fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
	}
	return c, nil
}

func (s *MatchIndexService) listCacheKey(clubID string) string {
	return "club-matches:" + clubID
}

func (s *MatchIndexService) invalidateList(ctx context.Context, clubID string) {
	if s.listCache != nil {
		s.listCache.Delete(ctx, s.listCacheKey(clubID))
	}
}

func (s *MatchIndexService) purge(ctx context.Context, clubID string) {
	if s.purger == nil {
		return
	}
	if err := s.purger.PurgeClub(ctx, clubID); err != nil {
		s.logger.WarnContext(ctx, "site cache purge failed", "club_id", clubID, "error", err)
	}
}

func (s *MatchIndexService) logRowDrop(ctx context.Context, clubID, matchID string, err error) {
	s.logger.DebugContext(ctx, "index row dropped", "club_id", clubID, "match_id", matchID, "error", err)
}
