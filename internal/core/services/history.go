package services

import (
	"context"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/core/ports/driven"
	"github.com/custodia-labs/ncedit/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads the update journal.
type HistoryService struct {
	journal driven.JournalStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(journal driven.JournalStore) *HistoryService {
	return &HistoryService{journal: journal}
}

// List returns recent journal entries, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if s.journal == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.journal.List(ctx, limit)
}
