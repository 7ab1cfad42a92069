package competition

import "context"

// Repository describes competition and round persistence needs from use cases.
type Repository interface {
	ListByClub(ctx context.Context, clubID string) ([]Competition, error)
	GetByID(ctx context.Context, clubID, competitionID string) (Competition, bool, error)
	Upsert(ctx context.Context, item Competition) error
	Delete(ctx context.Context, clubID, competitionID string) error

	ListRounds(ctx context.Context, clubID, competitionID string) ([]Round, error)
	UpsertRound(ctx context.Context, clubID string, item Round) error
	DeleteRound(ctx context.Context, clubID, competitionID, roundID string) error
}
