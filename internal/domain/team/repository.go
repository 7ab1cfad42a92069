package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListByClub(ctx context.Context, clubID string) ([]Team, error)
	GetByID(ctx context.Context, clubID, teamID string) (Team, bool, error)
	Upsert(ctx context.Context, item Team) error
	Delete(ctx context.Context, clubID, teamID string) error
}
