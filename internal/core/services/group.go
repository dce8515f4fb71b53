package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/core/ports/driven"
	"github.com/custodia-labs/ncedit/internal/core/ports/driving"
	"github.com/custodia-labs/ncedit/internal/logger"
)

// Ensure GroupService implements the interface.
var _ driving.GroupService = (*GroupService)(nil)

// GroupConfig holds the values used when a group has to be created.
type GroupConfig struct {
	// RootGroup is the parent id of created groups.
	RootGroup string

	// Environment is the environment of created groups.
	Environment string
}

// GroupService reconciles groups against the classifier.
type GroupService struct {
	client  driven.ClassifierClient
	journal driven.JournalStore
	config  GroupConfig
}

// NewGroupService creates a group service bound to one classifier client.
func NewGroupService(client driven.ClassifierClient, config GroupConfig) *GroupService {
	if config.RootGroup == "" {
		config.RootGroup = domain.RootGroupID
	}
	if config.Environment == "" {
		config.Environment = domain.DefaultEnvironment
	}
	return &GroupService{
		client: client,
		config: config,
	}
}

// SetJournal sets the store that records submitted updates.
func (s *GroupService) SetJournal(journal driven.JournalStore) {
	s.journal = journal
}

// ResolveGroupID returns the id of the named group, creating it as a child
// of the root group with no classes when it does not exist.
func (s *GroupService) ResolveGroupID(ctx context.Context, name string) (string, error) {
	if s.client == nil {
		return "", domain.ErrNotImplemented
	}
	if err := validateGroupName(name); err != nil {
		return "", err
	}

	id, err := s.client.GroupID(ctx, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("resolving group %q: %w", name, err)
	}

	logger.Info("Group %s not found, creating it under %s", name, s.config.RootGroup)
	if _, err := s.client.CreateGroup(ctx, domain.NewGroup{
		Name:        name,
		Parent:      s.config.RootGroup,
		Environment: s.config.Environment,
		Classes:     domain.Classes{},
	}); err != nil {
		return "", fmt.Errorf("creating group %q: %w", name, err)
	}

	id, err = s.client.GroupID(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w: group %q: %w", domain.ErrGroupCreationFailed, name, err)
	}
	if id == "" {
		return "", fmt.Errorf("%w: group %q has no id", domain.ErrGroupCreationFailed, name)
	}
	return id, nil
}

// Get fetches the named group without creating it.
func (s *GroupService) Get(ctx context.Context, name string) (*domain.Group, error) {
	if s.client == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := validateGroupName(name); err != nil {
		return nil, err
	}

	id, err := s.client.GroupID(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolving group %q: %w", name, err)
	}
	return s.client.Group(ctx, id)
}

// UpdateGroup submits the request as a full replacement of the group's
// rule and classes, then reads the group back to confirm the write.
func (s *GroupService) UpdateGroup(ctx context.Context, name string, req domain.UpdateRequest) error {
	if s.client == nil {
		return domain.ErrNotImplemented
	}
	id, err := s.ResolveGroupID(ctx, name)
	if err != nil {
		return err
	}
	_, err = s.update(ctx, name, id, req)
	return err
}

// Reconcile fetches the group, applies the desired state in memory and,
// when anything changed, submits and verifies an update.
func (s *GroupService) Reconcile(
	ctx context.Context,
	name string,
	desired domain.DesiredState,
) (*domain.ReconcileResult, error) {
	if s.client == nil {
		return nil, domain.ErrNotImplemented
	}
	logger.Section("Group " + name)

	id, err := s.ResolveGroupID(ctx, name)
	if err != nil {
		return nil, err
	}
	group, err := s.client.Group(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching group %q: %w", name, err)
	}

	changed, err := group.Apply(desired)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", name, err)
	}

	result := &domain.ReconcileResult{Group: name, GroupID: id}
	if !changed {
		logger.Info("Group %s already up-to-date", name)
		return result, nil
	}

	delta, err := s.update(ctx, name, id, domain.UpdateRequest{
		Classes: group.Classes,
		Rule:    group.Rule,
	})
	if err != nil {
		return nil, err
	}
	result.Changed = true
	result.Delta = delta
	return result, nil
}

// update runs the submit, re-read and compare steps for a resolved group.
func (s *GroupService) update(
	ctx context.Context,
	name, id string,
	req domain.UpdateRequest,
) (*domain.GroupDelta, error) {
	classes, rule := req.Classes, req.Rule
	if classes == nil || rule == nil {
		// The classifier replaces whole fields, so omitted fields are
		// resubmitted with their current value.
		current, err := s.client.Group(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetching group %q: %w", name, err)
		}
		if classes == nil {
			classes = current.Classes
		}
		if rule == nil {
			rule = current.Rule
		}
	}
	if classes == nil {
		classes = domain.Classes{}
	}

	delta := &domain.GroupDelta{ID: id, Rule: rule, Classes: classes}
	logger.Debug("Submitting group %s: rule=%s classes=%s", name, rule, classes)

	if err := s.client.UpdateGroup(ctx, *delta); err != nil {
		err = fmt.Errorf("updating group %q: %w", name, err)
		s.record(ctx, name, delta, err)
		return nil, err
	}

	observed, err := s.client.Group(ctx, id)
	if err != nil {
		err = fmt.Errorf("re-reading group %q: %w", name, err)
		s.record(ctx, name, delta, err)
		return nil, err
	}

	if !domain.DeltaSaved(observed.Classes, classes) || !rule.Equal(observed.Rule) {
		err := &domain.VerificationError{
			Group:           name,
			ExpectedClasses: classes,
			ExpectedRule:    rule,
			ObservedClasses: observed.Classes,
			ObservedRule:    observed.Rule,
		}
		s.record(ctx, name, delta, err)
		return nil, err
	}

	logger.Info("Group %s changes saved", name)
	s.record(ctx, name, delta, nil)
	return delta, nil
}

// record journals one update attempt. Journal failures only warn; they
// never fail a reconciliation.
func (s *GroupService) record(ctx context.Context, name string, delta *domain.GroupDelta, updateErr error) {
	if s.journal == nil {
		return
	}
	entry := domain.JournalEntry{
		Group:    name,
		GroupID:  delta.ID,
		Classes:  delta.Classes.String(),
		Rule:     delta.Rule.String(),
		Verified: updateErr == nil,
	}
	if updateErr != nil {
		entry.Error = updateErr.Error()
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		logger.Warn("Failed to journal update of group %s: %v", name, err)
	}
}

func validateGroupName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: group name is required", domain.ErrInvalidArgument)
	}
	return nil
}
