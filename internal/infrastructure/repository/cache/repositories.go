// Package cache wraps repositories with read-through caching backed by the
// in-process store. Writes pass through and invalidate the affected keys.
package cache

import (
	"context"

	"github.com/kickoffhq/clubsite/internal/domain/club"
	"github.com/kickoffhq/clubsite/internal/domain/competition"
	"github.com/kickoffhq/clubsite/internal/domain/team"
	basecache "github.com/kickoffhq/clubsite/internal/platform/cache"
)

type ClubRepository struct {
	next  club.Repository
	cache *basecache.Store
}

func NewClubRepository(next club.Repository, cache *basecache.Store) *ClubRepository {
	return &ClubRepository{next: next, cache: cache}
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	v, err := r.cache.GetOrLoad(ctx, "club:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]club.Club(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]club.Club)
	return append([]club.Club(nil), items...), nil
}

func (r *ClubRepository) GetByID(ctx context.Context, clubID string) (club.Club, bool, error) {
	key := "club:id:" + clubID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, clubID)
		if err != nil {
			return nil, err
		}
		return cachedClubByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return club.Club{}, false, err
	}

	cached, _ := v.(cachedClubByID)
	return cached.value, cached.exists, nil
}

type cachedClubByID struct {
	value  club.Club
	exists bool
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListByClub(ctx context.Context, clubID string) ([]team.Team, error) {
	key := "team:list:" + clubID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByClub(ctx, clubID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, clubID, teamID string) (team.Team, bool, error) {
	key := "team:id:" + clubID + ":" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, clubID, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, "team:list:"+item.ClubID)
	r.cache.Delete(ctx, "team:id:"+item.ClubID+":"+item.ID)
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, clubID, teamID string) error {
	if err := r.next.Delete(ctx, clubID, teamID); err != nil {
		return err
	}
	r.cache.Delete(ctx, "team:list:"+clubID)
	r.cache.Delete(ctx, "team:id:"+clubID+":"+teamID)
	return nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

type CompetitionRepository struct {
	next  competition.Repository
	cache *basecache.Store
}

func NewCompetitionRepository(next competition.Repository, cache *basecache.Store) *CompetitionRepository {
	return &CompetitionRepository{next: next, cache: cache}
}

func (r *CompetitionRepository) ListByClub(ctx context.Context, clubID string) ([]competition.Competition, error) {
	key := "competition:list:" + clubID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByClub(ctx, clubID)
		if err != nil {
			return nil, err
		}
		out := make([]competition.Competition, 0, len(items))
		for _, item := range items {
			out = append(out, cloneCompetition(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]competition.Competition)
	out := make([]competition.Competition, 0, len(items))
	for _, item := range items {
		out = append(out, cloneCompetition(item))
	}
	return out, nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, clubID, competitionID string) (competition.Competition, bool, error) {
	key := "competition:id:" + clubID + ":" + competitionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, clubID, competitionID)
		if err != nil {
			return nil, err
		}
		return cachedCompetitionByID{value: cloneCompetition(item), exists: exists}, nil
	})
	if err != nil {
		return competition.Competition{}, false, err
	}

	cached, _ := v.(cachedCompetitionByID)
	return cloneCompetition(cached.value), cached.exists, nil
}

func (r *CompetitionRepository) Upsert(ctx context.Context, item competition.Competition) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, "competition:list:"+item.ClubID)
	r.cache.Delete(ctx, "competition:id:"+item.ClubID+":"+item.ID)
	return nil
}

func (r *CompetitionRepository) Delete(ctx context.Context, clubID, competitionID string) error {
	if err := r.next.Delete(ctx, clubID, competitionID); err != nil {
		return err
	}
	r.cache.Delete(ctx, "competition:list:"+clubID)
	r.cache.Delete(ctx, "competition:id:"+clubID+":"+competitionID)
	r.cache.Delete(ctx, roundListKey(clubID, competitionID))
	return nil
}

func (r *CompetitionRepository) ListRounds(ctx context.Context, clubID, competitionID string) ([]competition.Round, error) {
	v, err := r.cache.GetOrLoad(ctx, roundListKey(clubID, competitionID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListRounds(ctx, clubID, competitionID)
		if err != nil {
			return nil, err
		}
		return append([]competition.Round(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]competition.Round)
	return append([]competition.Round(nil), items...), nil
}

func (r *CompetitionRepository) UpsertRound(ctx context.Context, clubID string, item competition.Round) error {
	if err := r.next.UpsertRound(ctx, clubID, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, roundListKey(clubID, item.CompetitionID))
	return nil
}

func (r *CompetitionRepository) DeleteRound(ctx context.Context, clubID, competitionID, roundID string) error {
	if err := r.next.DeleteRound(ctx, clubID, competitionID, roundID); err != nil {
		return err
	}
	r.cache.Delete(ctx, roundListKey(clubID, competitionID))
	return nil
}

type cachedCompetitionByID struct {
	value  competition.Competition
	exists bool
}

func cloneCompetition(item competition.Competition) competition.Competition {
	out := item
	out.TeamIDs = append([]string(nil), item.TeamIDs...)
	out.RankLabels = append([]competition.RankLabel(nil), item.RankLabels...)
	return out
}

func roundListKey(clubID, competitionID string) string {
	return "round:list:" + clubID + ":" + competitionID
}
