package domain

import "fmt"

// EnsureClass makes the named class present, or marks it deleted when del
// is set. Deleting an absent or already deleted class is a no-op.
// Returns true if the group changed.
func (g *Group) EnsureClass(name string, del bool) bool {
	if g.Classes == nil {
		g.Classes = make(Classes)
	}
	class, ok := g.Classes[name]
	present := ok && class != nil && !class.Deleted

	if del {
		if !present {
			return false
		}
		g.Classes[name] = &Class{Deleted: true}
		return true
	}

	if present {
		return false
	}
	g.Classes[name] = &Class{Params: make(map[string]Param)}
	return true
}

// EnsureParam sets a class parameter to value, or marks it deleted when del
// is set. A nil value is a deletion, as the classifier removes parameters
// sent as null. The class must already be present; call EnsureClass first.
// Returns true if the group changed.
func (g *Group) EnsureParam(className, param string, value any, del bool) (bool, error) {
	class, ok := g.Classes[className]
	if !ok || class == nil || class.Deleted {
		return false, fmt.Errorf("%w: class %q is not present in group %q", ErrInvalidArgument, className, g.Name)
	}
	if value == nil {
		del = true
	}
	if class.Params == nil {
		class.Params = make(map[string]Param)
	}
	current, ok := class.Params[param]

	if del {
		if !ok || current.Deleted {
			return false, nil
		}
		class.Params[param] = Param{Deleted: true}
		return true, nil
	}

	if ok && !current.Deleted && ValuesEqual(current.Value, value) {
		return false, nil
	}
	class.Params[param] = Param{Value: NormalizeValue(value)}
	return true, nil
}

// EnsureClassesAndParams makes every desired class present with every
// desired parameter value. Each class and parameter is visited even after
// a change has been seen.
func (g *Group) EnsureClassesAndParams(desired map[string]map[string]any) (bool, error) {
	changed := false
	for _, className := range sortedKeys(desired) {
		changed = g.EnsureClass(className, false) || changed

		params := desired[className]
		for _, param := range sortedKeys(params) {
			paramChanged, err := g.EnsureParam(className, param, params[param], false)
			if err != nil {
				return changed, err
			}
			changed = paramChanged || changed
		}
	}
	return changed, nil
}

// DeleteClasses marks each named class deleted.
func (g *Group) DeleteClasses(names []string) bool {
	changed := false
	for _, name := range names {
		changed = g.EnsureClass(name, true) || changed
	}
	return changed
}

// DeleteParams marks parameters deleted, keyed by class. Parameters of
// classes the group does not have are already gone and are skipped.
func (g *Group) DeleteParams(params map[string][]string) bool {
	changed := false
	for _, className := range sortedKeys(params) {
		class, ok := g.Classes[className]
		if !ok || class == nil || class.Deleted {
			continue
		}
		for _, param := range params[className] {
			// The class is present, so EnsureParam cannot fail here.
			paramChanged, _ := g.EnsureParam(className, param, nil, true)
			changed = paramChanged || changed
		}
	}
	return changed
}

// EnsureRule appends predicate to the group's rule unless a predicate with
// the same operator, field and value is already there. Existing predicates
// keep their order.
func (g *Group) EnsureRule(predicate Predicate) bool {
	if g.Rule == nil {
		g.Rule = &RuleTree{Conjunction: DefaultConjunction}
	}
	for _, existing := range g.Rule.Predicates {
		if existing.SameAs(predicate) {
			return false
		}
	}
	g.Rule.Predicates = append(g.Rule.Predicates, clonePredicate(predicate))
	return true
}

// EnsureRuleConjunction sets the conjunction of the whole rule chain.
// Anything but "and" or "or" fails without touching the group. A rule
// without predicates takes the conjunction but reports no change, since an
// empty rule is sent to the classifier as null whatever its conjunction.
func (g *Group) EnsureRuleConjunction(op Conjunction) (bool, error) {
	if _, err := ParseConjunction(string(op)); err != nil {
		return false, err
	}
	if g.Rule == nil {
		g.Rule = &RuleTree{Conjunction: op}
		return false, nil
	}
	if g.Rule.Conjunction == op {
		return false, nil
	}
	g.Rule.Conjunction = op
	return !g.Rule.Empty(), nil
}

// EnsureRules applies the desired conjunction and appends every desired
// predicate not yet present. Predicates are never removed. The desired rule
// is validated before the group is touched. A desired KeepConjunction leaves
// the current conjunction, or the default for a new rule.
func (g *Group) EnsureRules(desired *RuleTree) (bool, error) {
	if err := desired.Validate(); err != nil {
		return false, err
	}
	if g.Rule == nil {
		g.Rule = &RuleTree{Conjunction: DefaultConjunction}
	}

	changed := false
	if desired.Conjunction != KeepConjunction {
		conjunctionChanged, err := g.EnsureRuleConjunction(desired.Conjunction)
		if err != nil {
			return false, err
		}
		changed = conjunctionChanged
	}
	for _, p := range desired.Predicates {
		changed = g.EnsureRule(p) || changed
	}
	return changed, nil
}
