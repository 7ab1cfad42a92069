package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/domain/matchindex"
)

func TestMatchRepository_UpsertReplacesExistingRow(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(SeedMatches())
	ctx := context.Background()

	ref := match.Ref{CompetitionID: CompetitionIDCityLeague, RoundID: "round-1", MatchID: "m-league-001"}
	existing, found, err := repo.Get(ctx, ClubIDAoba, ref)
	require.NoError(t, err)
	require.True(t, found)

	existing.Score = &match.Score{Home: 5, Away: 0}
	require.NoError(t, repo.Upsert(ctx, existing))

	updated, found, err := repo.Get(ctx, ClubIDAoba, ref)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 5, updated.Score.Home)

	rows, err := repo.ListByRound(ctx, ClubIDAoba, CompetitionIDCityLeague, "round-1")
	require.NoError(t, err)
	require.Len(t, rows, 1, "upsert must replace, not append")
}

func TestMatchRepository_DeleteRemovesOnlyTarget(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(SeedMatches())
	ctx := context.Background()

	ref := match.Ref{CompetitionID: CompetitionIDCityLeague, RoundID: "round-1", MatchID: "m-league-001"}
	require.NoError(t, repo.Delete(ctx, ClubIDAoba, ref))

	_, found, err := repo.Get(ctx, ClubIDAoba, ref)
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = repo.Get(ctx, ClubIDAoba, match.Ref{
		CompetitionID: CompetitionIDSpringCup, RoundID: "cup-final", MatchID: "m-cup-001",
	})
	require.NoError(t, err)
	require.True(t, found)
}

func TestFriendlyRepository_IsolatesClubs(t *testing.T) {
	t.Parallel()

	repo := NewFriendlyRepository(SeedFriendlyMatches())
	ctx := context.Background()

	aoba, err := repo.ListByClub(ctx, ClubIDAoba)
	require.NoError(t, err)
	require.NotEmpty(t, aoba)

	other, err := repo.ListByClub(ctx, "unknown-club")
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestMatchIndexRepository_UpsertRowsMergesByKey(t *testing.T) {
	t.Parallel()

	repo := NewMatchIndexRepository()
	ctx := context.Background()

	row := matchindex.Row{
		MatchID:       "m-1",
		CompetitionID: "comp-1",
		RoundID:       "r-1",
		MatchDate:     "2025-04-06",
		HomeTeamName:  "A",
		AwayTeamName:  "B",
	}
	require.NoError(t, repo.UpsertRows(ctx, ClubIDAoba, []matchindex.Row{row}))

	row.HomeTeamName = "A updated"
	require.NoError(t, repo.UpsertRows(ctx, ClubIDAoba, []matchindex.Row{row}))

	rows, err := repo.ListByClub(ctx, ClubIDAoba)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "A updated", rows[0].HomeTeamName)
}

func TestMatchIndexRepository_ListSortsByDateThenTime(t *testing.T) {
	t.Parallel()

	repo := NewMatchIndexRepository()
	ctx := context.Background()

	rows := []matchindex.Row{
		{MatchID: "m-late", CompetitionID: "c", RoundID: "r", MatchDate: "2025-05-01", MatchTime: "15:00"},
		{MatchID: "m-early", CompetitionID: "c", RoundID: "r", MatchDate: "2025-04-01", MatchTime: "10:00"},
		{MatchID: "m-mid", CompetitionID: "c", RoundID: "r", MatchDate: "2025-05-01", MatchTime: "09:00"},
	}
	require.NoError(t, repo.UpsertRows(ctx, ClubIDAoba, rows))

	listed, err := repo.ListByClub(ctx, ClubIDAoba)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, "m-early", listed[0].MatchID)
	require.Equal(t, "m-mid", listed[1].MatchID)
	require.Equal(t, "m-late", listed[2].MatchID)
}

func TestMatchIndexRepository_MetaRoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewMatchIndexRepository()
	ctx := context.Background()

	_, found, err := repo.GetMeta(ctx, ClubIDAoba)
	require.NoError(t, err)
	require.False(t, found)

	meta := matchindex.Meta{UpdatedAt: time.Date(2025, 4, 6, 12, 0, 0, 0, time.UTC), Count: 42}
	require.NoError(t, repo.PutMeta(ctx, ClubIDAoba, meta))

	got, found, err := repo.GetMeta(ctx, ClubIDAoba)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, meta, got)

	// Meta alone never satisfies the presence probe.
	has, err := repo.HasRows(ctx, ClubIDAoba)
	require.NoError(t, err)
	require.False(t, has)
}
