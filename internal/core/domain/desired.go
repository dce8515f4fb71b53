package domain

import (
	"maps"
	"slices"
)

// DesiredState is what a user wants one group to look like.
// Every field is optional; an empty DesiredState changes nothing.
type DesiredState struct {
	// Classes maps class names to the parameter values they must carry.
	Classes map[string]map[string]any `json:"classes,omitempty"`

	// DeleteClasses lists classes to remove.
	DeleteClasses []string `json:"delete_classes,omitempty"`

	// DeleteParams lists parameters to remove, keyed by class.
	DeleteParams map[string][]string `json:"delete_params,omitempty"`

	// AppendRules sets the rule conjunction and lists predicates that must
	// be present in the rule.
	AppendRules *RuleTree `json:"append_rules,omitempty"`
}

// IsEmpty returns true if the desired state asks for nothing.
func (d DesiredState) IsEmpty() bool {
	return len(d.Classes) == 0 && len(d.DeleteClasses) == 0 &&
		len(d.DeleteParams) == 0 && d.AppendRules == nil
}

// Apply reconciles the group in memory against the desired state, in the
// order classes, delete_classes, delete_params, append_rules. The rule is
// validated first so a bad conjunction leaves the group untouched.
func (g *Group) Apply(d DesiredState) (bool, error) {
	if d.AppendRules != nil {
		if err := d.AppendRules.Validate(); err != nil {
			return false, err
		}
	}

	changed := false
	if len(d.Classes) > 0 {
		classesChanged, err := g.EnsureClassesAndParams(d.Classes)
		if err != nil {
			return false, err
		}
		changed = classesChanged || changed
	}
	if len(d.DeleteClasses) > 0 {
		changed = g.DeleteClasses(d.DeleteClasses) || changed
	}
	if len(d.DeleteParams) > 0 {
		changed = g.DeleteParams(d.DeleteParams) || changed
	}
	if d.AppendRules != nil {
		rulesChanged, err := g.EnsureRules(d.AppendRules)
		if err != nil {
			return false, err
		}
		changed = rulesChanged || changed
	}
	return changed, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
