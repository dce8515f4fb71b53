package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Conjunction joins the predicates of a rule.
type Conjunction string

const (
	// And requires every predicate to match.
	And Conjunction = "and"

	// Or requires any predicate to match.
	Or Conjunction = "or"

	// DefaultConjunction is used when a group without a rule gains one.
	DefaultConjunction = Or

	// KeepConjunction in a desired rule leaves the group's conjunction as it is.
	KeepConjunction Conjunction = ""
)

// Valid returns true if the conjunction is "and" or "or".
func (c Conjunction) Valid() bool {
	return c == And || c == Or
}

// ParseConjunction validates a conjunction string.
func ParseConjunction(s string) (Conjunction, error) {
	c := Conjunction(strings.TrimSpace(s))
	if !c.Valid() {
		return "", fmt.Errorf("%w: rule conjunction must be \"and\" or \"or\", got %q", ErrInvalidArgument, s)
	}
	return c, nil
}

// Predicate is one membership test, [operator, field, value].
// The field is either a name ("name") or a path (["fact", "os", "family"]).
type Predicate []any

// Operator returns the predicate operator, or "" if it is not a string.
func (p Predicate) Operator() string {
	if len(p) == 0 {
		return ""
	}
	op, _ := p[0].(string)
	return op
}

// SameAs reports whether both predicates have the same operator, field and
// value. Comparison is positional and structural; a field of
// ["fact", "name"] never equals "name".
func (p Predicate) SameAs(other Predicate) bool {
	return ValuesEqual(p.head(), other.head())
}

// Validate checks the predicate has an operator, a field and a value.
// The compound forms ["not", p], ["and", p...] and ["or", p...] are checked
// recursively.
func (p Predicate) Validate() error {
	switch p.Operator() {
	case "not":
		if len(p) != 2 {
			return fmt.Errorf("%w: predicate %s must be [\"not\", predicate]", ErrInvalidArgument, p)
		}
		return validateTerms(p[1:])
	case string(And), string(Or):
		if len(p) < 2 {
			return fmt.Errorf("%w: predicate %s joins no predicates", ErrInvalidArgument, p)
		}
		return validateTerms(p[1:])
	}
	if len(p) < 3 || p.Operator() == "" {
		return fmt.Errorf("%w: predicate %s must be [operator, field, value]", ErrInvalidArgument, p)
	}
	return nil
}

func validateTerms(terms []any) error {
	for _, term := range terms {
		var sub Predicate
		switch v := term.(type) {
		case Predicate:
			sub = v
		case []any:
			sub = Predicate(v)
		default:
			return fmt.Errorf("%w: %v is not a predicate", ErrInvalidArgument, term)
		}
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the predicate as JSON.
func (p Predicate) String() string {
	data, err := json.Marshal([]any(p))
	if err != nil {
		return fmt.Sprintf("%v", []any(p))
	}
	return string(data)
}

func (p Predicate) head() []any {
	if len(p) > 3 {
		return []any(p[:3])
	}
	return []any(p)
}

// RuleTree is a group's membership rule: one conjunction governing a flat
// chain of predicates. Nested conjunctions are carried as opaque predicates.
type RuleTree struct {
	Conjunction Conjunction
	Predicates  []Predicate
}

// NewRuleTree returns a rule with the given conjunction and predicates.
func NewRuleTree(conjunction Conjunction, predicates ...Predicate) *RuleTree {
	return &RuleTree{Conjunction: conjunction, Predicates: predicates}
}

// Clone returns a deep copy of the rule. A nil rule clones to nil.
func (r *RuleTree) Clone() *RuleTree {
	if r == nil {
		return nil
	}
	out := &RuleTree{Conjunction: r.Conjunction}
	for _, p := range r.Predicates {
		out.Predicates = append(out.Predicates, clonePredicate(p))
	}
	return out
}

// Empty returns true for a nil rule or a rule without predicates.
func (r *RuleTree) Empty() bool {
	return r == nil || len(r.Predicates) == 0
}

// Equal reports structural equality. All empty rules are equal.
func (r *RuleTree) Equal(other *RuleTree) bool {
	if r.Empty() || other.Empty() {
		return r.Empty() == other.Empty()
	}
	if r.Conjunction != other.Conjunction || len(r.Predicates) != len(other.Predicates) {
		return false
	}
	for i := range r.Predicates {
		if !ValuesEqual([]any(r.Predicates[i]), []any(other.Predicates[i])) {
			return false
		}
	}
	return true
}

// Validate checks the conjunction and every predicate. KeepConjunction is
// accepted.
func (r *RuleTree) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: rule is required", ErrInvalidArgument)
	}
	if r.Conjunction != KeepConjunction {
		if _, err := ParseConjunction(string(r.Conjunction)); err != nil {
			return err
		}
	}
	for _, p := range r.Predicates {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the rule in its wire form.
func (r *RuleTree) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%v", r.wire())
	}
	return string(data)
}

// wire returns the classifier's flat form [conjunction, p1, p2, ...].
func (r *RuleTree) wire() []any {
	out := make([]any, 0, len(r.Predicates)+1)
	out = append(out, string(r.Conjunction))
	for _, p := range r.Predicates {
		out = append(out, []any(p))
	}
	return out
}

// MarshalJSON encodes the rule in the classifier's flat form. A rule
// without predicates encodes as null since the classifier rejects a bare
// conjunction.
func (r *RuleTree) MarshalJSON() ([]byte, error) {
	if r.Empty() {
		return []byte("null"), nil
	}
	return json.Marshal(r.wire())
}

// UnmarshalJSON accepts both the flat form ["or", p1, p2] and the nested
// form ["or", [p1, p2]].
func (r *RuleTree) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("rule must be a list: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: rule must start with a conjunction", ErrInvalidArgument)
	}

	var conjunction string
	if err := json.Unmarshal(raw[0], &conjunction); err != nil || conjunction == "" {
		return fmt.Errorf("%w: rule must start with a conjunction", ErrInvalidArgument)
	}

	items := raw[1:]
	if len(items) == 1 && isPredicateList(items[0]) {
		var nested []json.RawMessage
		if err := json.Unmarshal(items[0], &nested); err != nil {
			return err
		}
		items = nested
	}

	tree := RuleTree{Conjunction: Conjunction(conjunction)}
	for _, item := range items {
		var p []any
		if err := json.Unmarshal(item, &p); err != nil {
			return fmt.Errorf("predicate must be a list: %w", err)
		}
		tree.Predicates = append(tree.Predicates, Predicate(p))
	}
	*r = tree
	return nil
}

// isPredicateList reports whether data is a list of lists (or an empty
// list), which marks the nested rule form.
func isPredicateList(data json.RawMessage) bool {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return false
	}
	if len(list) == 0 {
		return true
	}
	var first []json.RawMessage
	return json.Unmarshal(list[0], &first) == nil
}

func clonePredicate(p Predicate) Predicate {
	if v, ok := NormalizeValue([]any(p)).([]any); ok {
		return Predicate(v)
	}
	out := make(Predicate, len(p))
	copy(out, p)
	return out
}
