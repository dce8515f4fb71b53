package domain

// RootGroupID is the id of the classifier's "All Nodes" group, the parent
// of groups created by ncedit unless configured otherwise.
const RootGroupID = "00000000-0000-4000-8000-000000000000"

// DefaultEnvironment is the environment assigned to created groups.
const DefaultEnvironment = "production"

// Group is a node group as stored by the classifier.
// Groups are always fetched fresh; nothing is cached between invocations.
type Group struct {
	// ID is the classifier-assigned identifier.
	ID string `json:"id"`

	// Name is the unique human-readable group name.
	Name string `json:"name"`

	// Parent is the id of the parent group.
	Parent string `json:"parent,omitempty"`

	// Environment is the code environment the group's nodes use.
	Environment string `json:"environment,omitempty"`

	// Rule decides which nodes belong to the group. Nil when unset.
	Rule *RuleTree `json:"rule,omitempty"`

	// Classes are the classes and parameters applied to member nodes.
	Classes Classes `json:"classes"`
}

// Clone returns a deep copy of the group.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	out := *g
	out.Rule = g.Rule.Clone()
	out.Classes = g.Classes.Clone()
	return &out
}

// NewGroup describes a group to create.
type NewGroup struct {
	Name        string    `json:"name"`
	Parent      string    `json:"parent"`
	Environment string    `json:"environment"`
	Rule        *RuleTree `json:"rule,omitempty"`
	Classes     Classes   `json:"classes"`
}

// GroupDelta is the body of a group update. The classifier replaces the
// rule and classes fields wholesale, so both always carry full values.
type GroupDelta struct {
	ID      string    `json:"id"`
	Rule    *RuleTree `json:"rule,omitempty"`
	Classes Classes   `json:"classes"`
}

// UpdateRequest is a group update as callers express it.
// A nil field is left as it currently is on the classifier.
type UpdateRequest struct {
	Classes Classes
	Rule    *RuleTree
}

// ReconcileResult reports the outcome of reconciling one group.
type ReconcileResult struct {
	// Group is the group name.
	Group string

	// GroupID is the resolved classifier id.
	GroupID string

	// Changed is true when an update was submitted and verified.
	Changed bool

	// Delta is the submitted update, nil when nothing changed.
	Delta *GroupDelta
}
