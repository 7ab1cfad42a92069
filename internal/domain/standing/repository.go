package standing

import "context"

// Repository persists ranked tables. Replace swaps the whole table for a
// competition in one transaction; partially patched tables never exist from a
// reader's point of view.
type Repository interface {
	ListByCompetition(ctx context.Context, clubID, competitionID string) ([]Standing, error)
	ReplaceByCompetition(ctx context.Context, clubID, competitionID string, standings []Standing) error
}
