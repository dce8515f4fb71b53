package driven

import (
	"context"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

// JournalStore records submitted group updates.
type JournalStore interface {
	// Record stores one entry. ID and CreatedAt are assigned by the store.
	Record(ctx context.Context, entry domain.JournalEntry) error

	// List returns the most recent entries, newest first.
	// A limit of zero or less returns every entry.
	List(ctx context.Context, limit int) ([]domain.JournalEntry, error)
}
