package match

import "context"

// Repository describes access to matches nested under competition rounds.
type Repository interface {
	ListByRound(ctx context.Context, clubID, competitionID, roundID string) ([]Match, error)
	Get(ctx context.Context, clubID string, ref Ref) (Match, bool, error)
	Upsert(ctx context.Context, item Match) error
	Delete(ctx context.Context, clubID string, ref Ref) error
}

// FriendlyRepository describes the flat friendly/practice match collection.
type FriendlyRepository interface {
	ListByClub(ctx context.Context, clubID string) ([]Match, error)
	Get(ctx context.Context, clubID, matchID string) (Match, bool, error)
	Upsert(ctx context.Context, item Match) error
	Delete(ctx context.Context, clubID, matchID string) error
}
