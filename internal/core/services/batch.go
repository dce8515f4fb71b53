package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/core/ports/driven"
	"github.com/custodia-labs/ncedit/internal/core/ports/driving"
	"github.com/custodia-labs/ncedit/internal/logger"
)

// Ensure BatchService implements the interface.
var _ driving.BatchService = (*BatchService)(nil)

// BatchService reconciles every group in a desired-state file.
type BatchService struct {
	loader driven.BatchLoader
	groups driving.GroupService
}

// NewBatchService creates a new batch service.
func NewBatchService(loader driven.BatchLoader, groups driving.GroupService) *BatchService {
	return &BatchService{
		loader: loader,
		groups: groups,
	}
}

// Run loads the file and reconciles its groups sequentially in name order.
// Each group is fully updated and verified before the next one starts.
//
// By default a failed group is reported and the remaining groups still
// run; with FailFast the run stops at the first failure.
func (s *BatchService) Run(
	ctx context.Context,
	path string,
	opts domain.BatchOptions,
) (*domain.BatchReport, error) {
	if s.loader == nil || s.groups == nil {
		return nil, domain.ErrNotImplemented
	}

	docs, err := s.loader.Load(path, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("loading batch %s: %w", path, err)
	}
	logger.Debug("Loaded %d groups from %s", len(docs), path)

	report := &domain.BatchReport{}
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(docs)) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		outcome := domain.GroupOutcome{Group: name}
		result, err := s.groups.Reconcile(ctx, name, docs[name])
		if err != nil {
			outcome.Err = err
			errs = append(errs, fmt.Errorf("group %q: %w", name, err))
			logger.Warn("Group %s failed: %v", name, err)
		} else {
			outcome.Changed = result.Changed
		}
		report.Outcomes = append(report.Outcomes, outcome)

		if err != nil && opts.FailFast {
			break
		}
	}

	return report, errors.Join(errs...)
}
