package usecase

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/kickoffhq/clubsite/internal/domain/club"
	"github.com/kickoffhq/clubsite/internal/domain/competition"
	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/domain/matchindex"
	"github.com/kickoffhq/clubsite/internal/domain/team"
	"github.com/kickoffhq/clubsite/internal/platform/logging"
)

func newIndexFixture(indexRepo *stubIndexRepository) (*MatchIndexService, *stubCompetitionRepository, *stubMatchRepository, *stubFriendlyRepository) {
	clubRepo := &stubClubRepository{byID: map[string]club.Club{
		testClubID: {ID: testClubID, Name: "青葉FC"},
	}}
	compRepo := &stubCompetitionRepository{
		byID: map[string]competition.Competition{
			"comp-1": {ID: "comp-1", ClubID: testClubID, Name: "市リーグ", Format: competition.FormatLeague},
		},
		rounds: map[string][]competition.Round{
			"comp-1": {{ID: "r-1", CompetitionID: "comp-1", Name: "第1節"}},
		},
	}
	teamRepo := &stubTeamRepository{byClub: map[string][]team.Team{
		testClubID: {
			{ID: "team-a", ClubID: testClubID, Name: "Aチーム", LogoURL: "https://cdn/a.png"},
			{ID: "team-b", ClubID: testClubID, Name: "Bチーム"},
		},
	}}
	matchRepo := &stubMatchRepository{byRound: map[string][]match.Match{
		roundKey("comp-1", "r-1"): {
			{ID: "m-1", ClubID: testClubID, CompetitionID: "comp-1", RoundID: "r-1", HomeTeamID: "team-a", AwayTeamID: "team-b", MatchDate: "2025-04-06", Score: score(2, 1)},
		},
	}}
	friendlyRepo := &stubFriendlyRepository{byClub: map[string][]match.Match{
		testClubID: {
			{ID: "f-1", ClubID: testClubID, CompetitionID: match.KindFriendly, HomeTeamID: "team-a", AwayTeamID: "team-b", MatchDate: "2025-04-29"},
		},
	}}

	service := NewMatchIndexService(clubRepo, compRepo, teamRepo, matchRepo, friendlyRepo, indexRepo, nil, nil, logging.NewNop())
	return service, compRepo, matchRepo, friendlyRepo
}

func TestMatchIndexService_Backfill_FlattensHierarchyAndFriendlies(t *testing.T) {
	t.Parallel()

	indexRepo := &stubIndexRepository{}
	service, _, _, _ := newIndexFixture(indexRepo)

	meta, err := service.Backfill(context.Background(), testClubID)
	if err != nil {
		t.Fatalf("Backfill error: %v", err)
	}
	if meta.Count != 2 {
		t.Fatalf("meta count = %d, want 2", meta.Count)
	}
	if meta.UpdatedAt.IsZero() {
		t.Fatal("meta updatedAt not set")
	}

	row, ok := indexRepo.rows[testClubID]["comp-1__r-1__m-1"]
	if !ok {
		t.Fatalf("competition match row missing; have %v", indexRepo.rows[testClubID])
	}
	if row.CompetitionName != "市リーグ" || row.RoundName != "第1節" || row.HomeTeamName != "Aチーム" {
		t.Fatalf("row not denormalized: %+v", row)
	}

	if _, ok := indexRepo.rows[testClubID]["friendly__single__f-1"]; !ok {
		t.Fatal("friendly row missing")
	}
}

func TestMatchIndexService_Backfill_ChunksAtBatchSize(t *testing.T) {
	t.Parallel()

	indexRepo := &stubIndexRepository{}
	service, compRepo, matchRepo, friendlyRepo := newIndexFixture(indexRepo)

	// 600 competition matches across two rounds plus 400 friendlies: 1000
	// rows, so three commits of 450+450+100.
	compRepo.rounds["comp-1"] = []competition.Round{
		{ID: "r-1", CompetitionID: "comp-1", Name: "第1節"},
		{ID: "r-2", CompetitionID: "comp-1", Name: "第2節"},
	}
	for _, roundID := range []string{"r-1", "r-2"} {
		items := make([]match.Match, 0, 300)
		for i := 0; i < 300; i++ {
			items = append(items, match.Match{
				ID:            fmt.Sprintf("%s-m-%03d", roundID, i),
				ClubID:        testClubID,
				CompetitionID: "comp-1",
				RoundID:       roundID,
				MatchDate:     "2025-04-06",
			})
		}
		matchRepo.byRound[roundKey("comp-1", roundID)] = items
	}
	friendlies := make([]match.Match, 0, 400)
	for i := 0; i < 400; i++ {
		friendlies = append(friendlies, match.Match{
			ID:            fmt.Sprintf("f-%03d", i),
			ClubID:        testClubID,
			CompetitionID: match.KindFriendly,
			MatchDate:     "2025-05-01",
		})
	}
	friendlyRepo.byClub[testClubID] = friendlies

	meta, err := service.Backfill(context.Background(), testClubID)
	if err != nil {
		t.Fatalf("Backfill error: %v", err)
	}

	if meta.Count != 1000 {
		t.Fatalf("meta count = %d, want 1000", meta.Count)
	}
	if len(indexRepo.batches) != 3 {
		t.Fatalf("expected 3 batch commits, got %d", len(indexRepo.batches))
	}
	if got := []int{len(indexRepo.batches[0]), len(indexRepo.batches[1]), len(indexRepo.batches[2])}; !reflect.DeepEqual(got, []int{450, 450, 100}) {
		t.Fatalf("unexpected batch sizes %v", got)
	}
	if len(indexRepo.rows[testClubID]) != 1000 {
		t.Fatalf("index holds %d rows, want 1000", len(indexRepo.rows[testClubID]))
	}
}

func TestMatchIndexService_Backfill_IsIdempotent(t *testing.T) {
	t.Parallel()

	indexRepo := &stubIndexRepository{}
	service, _, _, _ := newIndexFixture(indexRepo)

	if _, err := service.Backfill(context.Background(), testClubID); err != nil {
		t.Fatalf("first Backfill error: %v", err)
	}
	first := make(map[string]matchindex.Row, len(indexRepo.rows[testClubID]))
	for key, row := range indexRepo.rows[testClubID] {
		first[key] = row
	}

	if _, err := service.Backfill(context.Background(), testClubID); err != nil {
		t.Fatalf("second Backfill error: %v", err)
	}

	if !reflect.DeepEqual(first, indexRepo.rows[testClubID]) {
		t.Fatalf("re-running backfill changed the row set:\nfirst=%v\nsecond=%v", first, indexRepo.rows[testClubID])
	}
}

func TestMatchIndexService_Backfill_DropsUnusableDates(t *testing.T) {
	t.Parallel()

	indexRepo := &stubIndexRepository{}
	service, _, matchRepo, _ := newIndexFixture(indexRepo)

	matchRepo.byRound[roundKey("comp-1", "r-1")] = append(matchRepo.byRound[roundKey("comp-1", "r-1")],
		match.Match{ID: "m-bad", ClubID: testClubID, CompetitionID: "comp-1", RoundID: "r-1", MatchDate: "   "},
	)

	meta, err := service.Backfill(context.Background(), testClubID)
	if err != nil {
		t.Fatalf("Backfill error: %v", err)
	}

	// The dropped row is excluded from both the index and the count.
	if meta.Count != 2 {
		t.Fatalf("meta count = %d, want 2", meta.Count)
	}
	for key := range indexRepo.rows[testClubID] {
		if key == "comp-1__r-1__m-bad" {
			t.Fatal("row with unusable date was written")
		}
	}
}

func TestMatchIndexService_Backfill_PartialFailureKeepsCommittedBatches(t *testing.T) {
	t.Parallel()

	indexRepo := &stubIndexRepository{failAfter: 2}
	service, _, matchRepo, _ := newIndexFixture(indexRepo)

	items := make([]match.Match, 0, 500)
	for i := 0; i < 500; i++ {
		items = append(items, match.Match{
			ID:            fmt.Sprintf("m-%03d", i),
			ClubID:        testClubID,
			CompetitionID: "comp-1",
			RoundID:       "r-1",
			MatchDate:     "2025-04-06",
		})
	}
	matchRepo.byRound[roundKey("comp-1", "r-1")] = items

	if _, err := service.Backfill(context.Background(), testClubID); err == nil {
		t.Fatal("expected batch commit failure to surface")
	}
	if len(indexRepo.batches) != 1 {
		t.Fatalf("first batch should remain committed, got %d batches", len(indexRepo.batches))
	}
	if _, ok := indexRepo.meta[testClubID]; ok {
		t.Fatal("meta must not be written after a failed backfill")
	}

	// A retry repairs the gap completely.
	indexRepo.failAfter = 0
	meta, err := service.Backfill(context.Background(), testClubID)
	if err != nil {
		t.Fatalf("retry Backfill error: %v", err)
	}
	if meta.Count != 501 {
		t.Fatalf("meta count after retry = %d, want 501", meta.Count)
	}
}

func TestMatchIndexService_ListClubMatches_BackfillsOnce(t *testing.T) {
	t.Parallel()

	indexRepo := &stubIndexRepository{}
	service, _, _, _ := newIndexFixture(indexRepo)

	rows, err := service.ListClubMatches(context.Background(), testClubID)
	if err != nil {
		t.Fatalf("ListClubMatches error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	committed := len(indexRepo.batches)
	if committed == 0 {
		t.Fatal("empty index must trigger a backfill")
	}

	if _, err := service.ListClubMatches(context.Background(), testClubID); err != nil {
		t.Fatalf("second ListClubMatches error: %v", err)
	}
	if len(indexRepo.batches) != committed {
		t.Fatal("populated index must not re-trigger backfill")
	}
}

func TestMatchIndexService_UpsertMatch_MergesPatchOntoSnapshot(t *testing.T) {
	t.Parallel()

	indexRepo := &stubIndexRepository{}
	service, _, _, _ := newIndexFixture(indexRepo)

	newScore := &match.Score{Home: 3, Away: 3}
	err := service.UpsertMatch(context.Background(), testClubID,
		match.Ref{CompetitionID: "comp-1", RoundID: "r-1", MatchID: "m-1"},
		match.Patch{Score: newScore, ScoreSet: true},
	)
	if err != nil {
		t.Fatalf("UpsertMatch error: %v", err)
	}

	row, ok := indexRepo.rows[testClubID]["comp-1__r-1__m-1"]
	if !ok {
		t.Fatal("row not written")
	}
	if row.ScoreHome == nil || *row.ScoreHome != 3 || row.ScoreAway == nil || *row.ScoreAway != 3 {
		t.Fatalf("patched score not reflected: %+v", row)
	}
	// Untouched fields come from the stored snapshot.
	if row.MatchDate != "2025-04-06" || row.HomeTeamName != "Aチーム" {
		t.Fatalf("snapshot fields lost: %+v", row)
	}
}

func TestMatchIndexService_UpsertMatch_SwallowsUnusableDate(t *testing.T) {
	t.Parallel()

	indexRepo := &stubIndexRepository{}
	service, _, _, _ := newIndexFixture(indexRepo)

	empty := ""
	err := service.UpsertMatch(context.Background(), testClubID,
		match.Ref{CompetitionID: "comp-1", RoundID: "r-1", MatchID: "m-1"},
		match.Patch{MatchDate: &empty},
	)
	if err != nil {
		t.Fatalf("unusable date must not escalate, got %v", err)
	}
	if len(indexRepo.rows[testClubID]) != 0 {
		t.Fatal("no row may be written for an unusable date")
	}
}

func TestMatchIndexService_HasIndex_ProbesRealRowsOnly(t *testing.T) {
	t.Parallel()

	indexRepo := &stubIndexRepository{}
	service, _, _, _ := newIndexFixture(indexRepo)

	// Meta alone must not satisfy the gate.
	if err := indexRepo.PutMeta(context.Background(), testClubID, matchindex.Meta{Count: 0}); err != nil {
		t.Fatalf("PutMeta error: %v", err)
	}

	present, err := service.HasIndex(context.Background(), testClubID)
	if err != nil {
		t.Fatalf("HasIndex error: %v", err)
	}
	if present {
		t.Fatal("meta-only index reported as present")
	}

	if _, err := service.Backfill(context.Background(), testClubID); err != nil {
		t.Fatalf("Backfill error: %v", err)
	}
	present, err = service.HasIndex(context.Background(), testClubID)
	if err != nil {
		t.Fatalf("HasIndex error: %v", err)
	}
	if !present {
		t.Fatal("backfilled index reported as absent")
	}
}
