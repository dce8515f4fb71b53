package driving

import (
	"context"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

// HistoryService reads the journal of submitted updates.
type HistoryService interface {
	// List returns recent journal entries, newest first.
	List(ctx context.Context, limit int) ([]domain.JournalEntry, error)
}
