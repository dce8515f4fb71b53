package driving

import (
	"context"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

// BatchService reconciles every group of a desired-state file.
type BatchService interface {
	// Run loads the file at path and reconciles its groups one at a time.
	// The report lists every attempted group; the error joins group failures.
	Run(ctx context.Context, path string, opts domain.BatchOptions) (*domain.BatchReport, error)
}
