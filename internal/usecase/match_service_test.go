package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kickoffhq/clubsite/internal/domain/competition"
	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/platform/logging"
)

type fixedIDGenerator struct {
	next int
}

func (g *fixedIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("generated-%d", g.next), nil
}

type matchFixture struct {
	service      *MatchService
	matchRepo    *stubMatchRepository
	friendlyRepo *stubFriendlyRepository
	indexSync    *recordingIndexSync
	recomputer   *recordingRecomputer
}

func newMatchFixture(format string) *matchFixture {
	compRepo := &stubCompetitionRepository{
		byID: map[string]competition.Competition{
			"comp-1": {ID: "comp-1", ClubID: testClubID, Name: "市リーグ", Format: format},
		},
	}
	matchRepo := &stubMatchRepository{byRound: map[string][]match.Match{
		roundKey("comp-1", "r-1"): {
			{ID: "m-1", ClubID: testClubID, CompetitionID: "comp-1", RoundID: "r-1", HomeTeamID: "team-a", AwayTeamID: "team-b", MatchDate: "2025-04-06"},
		},
	}}
	friendlyRepo := &stubFriendlyRepository{byClub: map[string][]match.Match{
		testClubID: {
			{ID: "f-1", ClubID: testClubID, CompetitionID: match.KindFriendly, RoundID: match.RoundSingle, MatchDate: "2025-04-29", Score: score(1, 0)},
		},
	}}
	indexSync := &recordingIndexSync{}
	recomputer := &recordingRecomputer{}

	service := NewMatchService(compRepo, matchRepo, friendlyRepo, indexSync, recomputer, &fixedIDGenerator{}, logging.NewNop())
	return &matchFixture{
		service:      service,
		matchRepo:    matchRepo,
		friendlyRepo: friendlyRepo,
		indexSync:    indexSync,
		recomputer:   recomputer,
	}
}

func TestMatchService_Create_GeneratesIDAndSyncsIndex(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)

	created, err := f.service.Create(context.Background(), testClubID, match.Match{
		CompetitionID: "comp-1",
		RoundID:       "r-1",
		HomeTeamID:    "team-a",
		AwayTeamID:    "team-b",
		MatchDate:     "2025-04-13",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID != "generated-1" {
		t.Fatalf("id = %q, want generated", created.ID)
	}

	if len(f.indexSync.calls) != 1 || f.indexSync.calls[0].MatchID != "generated-1" {
		t.Fatalf("index sync calls = %+v", f.indexSync.calls)
	}
	// No score, so the table is untouched.
	if len(f.recomputer.calls) != 0 {
		t.Fatalf("recompute must not run for an unplayed match, got %v", f.recomputer.calls)
	}
}

func TestMatchService_Create_WithScoreRecomputesStandings(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)

	_, err := f.service.Create(context.Background(), testClubID, match.Match{
		CompetitionID: "comp-1",
		RoundID:       "r-1",
		HomeTeamID:    "team-a",
		AwayTeamID:    "team-b",
		MatchDate:     "2025-04-13",
		Score:         score(2, 0),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(f.recomputer.calls) != 1 || f.recomputer.calls[0] != "comp-1" {
		t.Fatalf("recompute calls = %v", f.recomputer.calls)
	}
}

func TestMatchService_Create_CupScoreSkipsStandings(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatCup)

	_, err := f.service.Create(context.Background(), testClubID, match.Match{
		CompetitionID: "comp-1",
		RoundID:       "r-1",
		MatchDate:     "2025-04-13",
		Score:         score(2, 0),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(f.recomputer.calls) != 0 {
		t.Fatalf("cup match must not recompute standings, got %v", f.recomputer.calls)
	}
}

func TestMatchService_Create_FriendlyRoutesToFlatCollection(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)

	created, err := f.service.Create(context.Background(), testClubID, match.Match{
		CompetitionID: match.KindPractice,
		MatchDate:     "2025-05-03",
		Score:         score(4, 4),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.RoundID != match.RoundSingle {
		t.Fatalf("round id = %q, want %q", created.RoundID, match.RoundSingle)
	}

	if _, ok, _ := f.friendlyRepo.Get(context.Background(), testClubID, created.ID); !ok {
		t.Fatal("friendly match missing from flat collection")
	}
	// Even a scored friendly never reaches the aggregator.
	if len(f.recomputer.calls) != 0 {
		t.Fatalf("friendly must not recompute standings, got %v", f.recomputer.calls)
	}
}

func TestMatchService_IndexSyncFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)
	f.indexSync.err = errors.New("index store down")

	created, err := f.service.Create(context.Background(), testClubID, match.Match{
		CompetitionID: "comp-1",
		RoundID:       "r-1",
		MatchDate:     "2025-04-13",
	})
	if err != nil {
		t.Fatalf("index sync failure must not fail the mutation: %v", err)
	}

	// The authoritative write landed.
	if _, ok, _ := f.matchRepo.Get(context.Background(), testClubID, created.Ref()); !ok {
		t.Fatal("authoritative match record missing")
	}
}

func TestMatchService_RecomputeFailureSurfaces(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)
	f.recomputer.err = errors.New("standings store down")

	_, err := f.service.Create(context.Background(), testClubID, match.Match{
		CompetitionID: "comp-1",
		RoundID:       "r-1",
		MatchDate:     "2025-04-13",
		Score:         score(1, 1),
	})
	if err == nil {
		t.Fatal("standings failure must surface")
	}
}

func TestMatchService_Update_ScoreEditTriggersRecompute(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)

	updated, err := f.service.Update(context.Background(), testClubID,
		match.Ref{CompetitionID: "comp-1", RoundID: "r-1", MatchID: "m-1"},
		match.Patch{Score: score(3, 1), ScoreSet: true},
	)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Score == nil || updated.Score.Home != 3 {
		t.Fatalf("patched score not applied: %+v", updated.Score)
	}
	if len(f.recomputer.calls) != 1 {
		t.Fatalf("recompute calls = %v", f.recomputer.calls)
	}
	if len(f.indexSync.calls) != 1 {
		t.Fatalf("index sync calls = %+v", f.indexSync.calls)
	}
}

func TestMatchService_Update_NonScoreEditSkipsRecompute(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)

	newDate := "2025-04-20"
	_, err := f.service.Update(context.Background(), testClubID,
		match.Ref{CompetitionID: "comp-1", RoundID: "r-1", MatchID: "m-1"},
		match.Patch{MatchDate: &newDate},
	)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(f.recomputer.calls) != 0 {
		t.Fatalf("date edit must not recompute standings, got %v", f.recomputer.calls)
	}
	if len(f.indexSync.calls) != 1 {
		t.Fatal("date edit must still sync the index")
	}
}

func TestMatchService_Update_ClearingScoreStillRecomputes(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)
	f.matchRepo.byRound[roundKey("comp-1", "r-1")][0].Score = score(2, 2)

	updated, err := f.service.Update(context.Background(), testClubID,
		match.Ref{CompetitionID: "comp-1", RoundID: "r-1", MatchID: "m-1"},
		match.Patch{Score: nil, ScoreSet: true},
	)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Score != nil {
		t.Fatalf("score not cleared: %+v", updated.Score)
	}
	if len(f.recomputer.calls) != 1 {
		t.Fatalf("clearing a score must recompute, got %v", f.recomputer.calls)
	}
}

func TestMatchService_Update_UnknownMatch(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)

	_, err := f.service.Update(context.Background(), testClubID,
		match.Ref{CompetitionID: "comp-1", RoundID: "r-1", MatchID: "m-missing"},
		match.Patch{},
	)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMatchService_Delete_ScoredMatchRecomputes(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)
	f.matchRepo.byRound[roundKey("comp-1", "r-1")][0].Score = score(1, 0)

	ref := match.Ref{CompetitionID: "comp-1", RoundID: "r-1", MatchID: "m-1"}
	if err := f.service.Delete(context.Background(), testClubID, ref); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	if _, ok, _ := f.matchRepo.Get(context.Background(), testClubID, ref); ok {
		t.Fatal("match not removed")
	}
	if len(f.recomputer.calls) != 1 {
		t.Fatalf("deleting a scored match must recompute, got %v", f.recomputer.calls)
	}
}

func TestMatchService_Delete_UnplayedMatchSkipsRecompute(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)

	ref := match.Ref{CompetitionID: "comp-1", RoundID: "r-1", MatchID: "m-1"}
	if err := f.service.Delete(context.Background(), testClubID, ref); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(f.recomputer.calls) != 0 {
		t.Fatalf("unplayed delete must not recompute, got %v", f.recomputer.calls)
	}
}

func TestMatchService_ListByRound_FriendlyKindReadsFlatCollection(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(competition.FormatLeague)

	items, err := f.service.ListByRound(context.Background(), testClubID, match.KindFriendly, "")
	if err != nil {
		t.Fatalf("ListByRound error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "f-1" {
		t.Fatalf("unexpected friendly list %+v", items)
	}
}
