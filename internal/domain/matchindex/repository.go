package matchindex

import "context"

// Repository is the flat per-club index collection. UpsertRows merge-writes
// one batch against deterministic keys as a single atomic commit; callers
// chunk to BatchSize. HasRows is the presence probe the backfill gate uses;
// it must never count meta state.
type Repository interface {
	ListByClub(ctx context.Context, clubID string) ([]Row, error)
	UpsertRows(ctx context.Context, clubID string, rows []Row) error
	HasRows(ctx context.Context, clubID string) (bool, error)
	GetMeta(ctx context.Context, clubID string) (Meta, bool, error)
	PutMeta(ctx context.Context, clubID string, meta Meta) error
}
