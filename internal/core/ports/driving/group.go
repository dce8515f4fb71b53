package driving

import (
	"context"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

// GroupService reconciles classifier groups.
type GroupService interface {
	// ResolveGroupID returns the id of the named group, creating the group
	// under the root group when it does not exist yet.
	ResolveGroupID(ctx context.Context, name string) (string, error)

	// Get fetches the named group without creating it.
	Get(ctx context.Context, name string) (*domain.Group, error)

	// UpdateGroup submits classes and rule as a full replacement and
	// verifies the result by reading the group back. Nil fields keep
	// their current remote value.
	UpdateGroup(ctx context.Context, name string, req domain.UpdateRequest) error

	// Reconcile brings the named group to the desired state. An update is
	// submitted only when something differs.
	Reconcile(ctx context.Context, name string, desired domain.DesiredState) (*domain.ReconcileResult, error)
}
