// Package memory provides an in-memory classifier used by tests and
// dry runs. It mirrors the remote read semantics: deleted classes and
// parameters vanish instead of reading back as null.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.ClassifierClient = (*Classifier)(nil)

// Classifier is an in-memory implementation of driven.ClassifierClient.
type Classifier struct {
	mu     sync.RWMutex
	groups map[string]*domain.Group

	// updates records every submitted delta in order.
	updates []domain.GroupDelta

	// dropUpdates accepts updates without storing them.
	dropUpdates bool

	// hideCreated accepts creates without making the group resolvable.
	hideCreated bool

	// failWith, when set, is returned by every call.
	failWith error
}

// NewClassifier creates an empty in-memory classifier.
func NewClassifier() *Classifier {
	return &Classifier{
		groups: make(map[string]*domain.Group),
	}
}

// AddGroup stores a copy of group, assigning an id when it has none.
// Returns the group id.
func (c *Classifier) AddGroup(group domain.Group) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	stored := group.Clone()
	stored.Classes = stored.Classes.Saved()
	c.groups[group.ID] = stored
	return group.ID
}

// DropUpdates makes UpdateGroup succeed without storing anything,
// simulating a write the classifier silently lost.
func (c *Classifier) DropUpdates(drop bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropUpdates = drop
}

// HideCreated makes CreateGroup succeed without the group becoming
// resolvable by name.
func (c *Classifier) HideCreated(hide bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hideCreated = hide
}

// FailWith makes every call return err. Pass nil to recover.
func (c *Classifier) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWith = err
}

// Updates returns the deltas submitted so far.
func (c *Classifier) Updates() []domain.GroupDelta {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.GroupDelta, len(c.updates))
	copy(out, c.updates)
	return out
}

// GroupID resolves a group name to its id.
func (c *Classifier) GroupID(_ context.Context, name string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.failWith != nil {
		return "", c.failWith
	}
	for id, group := range c.groups {
		if group.Name == name {
			return id, nil
		}
	}
	return "", domain.ErrNotFound
}

// Group returns a copy of the stored group.
func (c *Classifier) Group(_ context.Context, id string) (*domain.Group, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.failWith != nil {
		return nil, c.failWith
	}
	group, ok := c.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return group.Clone(), nil
}

// CreateGroup stores a new group under a fresh id.
func (c *Classifier) CreateGroup(_ context.Context, req domain.NewGroup) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return "", c.failWith
	}
	if req.Name == "" {
		return "", errors.New("group name is required")
	}
	id := uuid.NewString()
	if c.hideCreated {
		return id, nil
	}
	c.groups[id] = &domain.Group{
		ID:          id,
		Name:        req.Name,
		Parent:      req.Parent,
		Environment: req.Environment,
		Rule:        req.Rule.Clone(),
		Classes:     req.Classes.Saved(),
	}
	return id, nil
}

// UpdateGroup replaces the group's rule and classes. Null entries in the
// delta are dropped, as the classifier does, and an empty rule clears it.
func (c *Classifier) UpdateGroup(_ context.Context, delta domain.GroupDelta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.updates = append(c.updates, domain.GroupDelta{
		ID:      delta.ID,
		Rule:    delta.Rule.Clone(),
		Classes: delta.Classes.Clone(),
	})
	group, ok := c.groups[delta.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if c.dropUpdates {
		return nil
	}
	switch {
	case delta.Rule == nil:
		// An omitted rule is left alone.
	case delta.Rule.Empty():
		group.Rule = nil
	default:
		group.Rule = delta.Rule.Clone()
	}
	group.Classes = delta.Classes.Saved()
	return nil
}
