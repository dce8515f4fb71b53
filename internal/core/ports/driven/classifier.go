package driven

import (
	"context"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

// ClassifierClient talks to the remote node classifier.
// Implementations handle transport, authentication and encoding; they
// never retry and never cache.
type ClassifierClient interface {
	// GroupID resolves a group name to its id.
	// Returns domain.ErrNotFound if no group has that name.
	GroupID(ctx context.Context, name string) (string, error)

	// Group fetches a group by id.
	// Returns domain.ErrNotFound if the id is unknown.
	Group(ctx context.Context, id string) (*domain.Group, error)

	// CreateGroup creates a group and returns the id the classifier reports.
	CreateGroup(ctx context.Context, group domain.NewGroup) (string, error)

	// UpdateGroup submits a group delta. The rule and classes fields
	// replace the stored values; null class or parameter entries delete.
	// A nil error does not prove the update was stored.
	UpdateGroup(ctx context.Context, delta domain.GroupDelta) error
}
