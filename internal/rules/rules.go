// Package rules evaluates classifier group rules against a node's facts,
// to preview which groups a node would join.
//
// A rule is compiled once into an expr-lang program. Field lookups happen in
// Go before each run and are passed to the program as variables f0, f1, ...
// with presence flags p0, p1, ... next to the predicate values v0, v1, ...,
// so the program itself only compares and combines.
package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

// Node is the data a rule is evaluated against.
type Node struct {
	// Name is the node certname, matched by the "name" field.
	Name string

	// Facts are the node's facts, matched by ["fact", ...] fields.
	Facts map[string]any

	// Trusted are the node's trusted facts, matched by ["trusted", ...] fields.
	Trusted map[string]any
}

// Matcher is a compiled rule.
type Matcher struct {
	source  string
	program *vm.Program
	fields  []field
	values  map[string]any
}

// field is one lookup feeding a program variable.
type field struct {
	path    []string
	numeric bool
}

// Compile translates the rule into an expr program. An empty rule matches
// no node.
func Compile(rule *domain.RuleTree) (*Matcher, error) {
	c := &compiler{values: make(map[string]any)}

	source := "false"
	if !rule.Empty() {
		if !rule.Conjunction.Valid() {
			return nil, fmt.Errorf("%w: unknown conjunction %q", domain.ErrInvalidArgument, rule.Conjunction)
		}
		terms := make([]string, 0, len(rule.Predicates))
		for _, p := range rule.Predicates {
			term, err := c.predicate([]any(p))
			if err != nil {
				return nil, err
			}
			terms = append(terms, term)
		}
		source = join(string(rule.Conjunction), terms)
	}

	env := make(map[string]any, len(c.values)+len(c.fields))
	for k, v := range c.values {
		env[k] = v
	}
	for i, f := range c.fields {
		env[presentVar(i)] = false
		env[fieldVar(i)] = f.zero()
	}

	program, err := expr.Compile(source, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling rule %s: %w", source, err)
	}

	return &Matcher{
		source:  source,
		program: program,
		fields:  c.fields,
		values:  c.values,
	}, nil
}

// Source returns the generated expression.
func (m *Matcher) Source() string {
	return m.source
}

// Match reports whether the node satisfies the rule.
func (m *Matcher) Match(node Node) (bool, error) {
	env := make(map[string]any, len(m.values)+len(m.fields))
	for k, v := range m.values {
		env[k] = v
	}
	for i, f := range m.fields {
		value, present := f.resolve(node)
		env[presentVar(i)] = present
		env[fieldVar(i)] = value
	}

	out, err := expr.Run(m.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating rule: %w", err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("rule must evaluate to bool (got %T)", out)
	}
	return matched, nil
}

// compiler accumulates variables while walking predicates.
type compiler struct {
	fields []field
	values map[string]any
}

func (c *compiler) predicate(p []any) (string, error) {
	if len(p) == 0 {
		return "", fmt.Errorf("%w: empty predicate", domain.ErrInvalidArgument)
	}
	op, _ := p[0].(string)

	switch op {
	case "and", "or":
		terms := make([]string, 0, len(p)-1)
		for _, sub := range p[1:] {
			term, err := c.nested(sub)
			if err != nil {
				return "", err
			}
			terms = append(terms, term)
		}
		return join(op, terms), nil
	case "not":
		if len(p) != 2 {
			return "", fmt.Errorf("%w: not takes one predicate", domain.ErrInvalidArgument)
		}
		term, err := c.nested(p[1])
		if err != nil {
			return "", err
		}
		return "!" + term, nil
	}

	if len(p) != 3 {
		return "", fmt.Errorf("%w: predicate %v must be [operator, field, value]", domain.ErrInvalidArgument, p)
	}
	path, err := fieldPath(p[1])
	if err != nil {
		return "", err
	}

	switch op {
	case "=":
		f, v := c.bind(path, false, toString(p[2]))
		return fmt.Sprintf("(%s && %s == %s)", presentOf(f), f, v), nil
	case "~":
		pattern := toString(p[2])
		if _, err := regexp.Compile(pattern); err != nil {
			return "", fmt.Errorf("%w: bad pattern %q: %v", domain.ErrInvalidArgument, pattern, err)
		}
		f, v := c.bind(path, false, pattern)
		return fmt.Sprintf("(%s && %s matches %s)", presentOf(f), f, v), nil
	case "<", "<=", ">", ">=":
		n, ok := toNumber(p[2])
		if !ok {
			return "", fmt.Errorf("%w: operator %s needs a number, got %v", domain.ErrInvalidArgument, op, p[2])
		}
		f, v := c.bind(path, true, n)
		return fmt.Sprintf("(%s && %s %s %s)", presentOf(f), f, op, v), nil
	default:
		return "", fmt.Errorf("%w: unsupported operator %q", domain.ErrInvalidArgument, op)
	}
}

func (c *compiler) nested(sub any) (string, error) {
	p, ok := sub.([]any)
	if !ok {
		if pred, isPred := sub.(domain.Predicate); isPred {
			p = []any(pred)
		} else {
			return "", fmt.Errorf("%w: nested predicate %v must be a list", domain.ErrInvalidArgument, sub)
		}
	}
	return c.predicate(p)
}

// bind registers a field lookup and a value, returning their variable names.
func (c *compiler) bind(path []string, numeric bool, value any) (string, string) {
	i := len(c.fields)
	c.fields = append(c.fields, field{path: path, numeric: numeric})
	v := "v" + strconv.Itoa(i)
	c.values[v] = value
	return fieldVar(i), v
}

func fieldVar(i int) string {
	return "f" + strconv.Itoa(i)
}

func presentVar(i int) string {
	return "p" + strconv.Itoa(i)
}

// presentOf maps "f3" to "p3".
func presentOf(fieldName string) string {
	return "p" + strings.TrimPrefix(fieldName, "f")
}

// zero is the value a missing field takes, typed so the program compiles
// against concrete types.
func (f field) zero() any {
	if f.numeric {
		return float64(0)
	}
	return ""
}

// resolve looks the field up on the node. A field that is absent, or not a
// number where one is needed, is reported as not present.
func (f field) resolve(node Node) (any, bool) {
	raw, ok := node.lookup(f.path)
	if !ok {
		return f.zero(), false
	}
	if f.numeric {
		n, ok := toNumber(raw)
		if !ok {
			return f.zero(), false
		}
		return n, true
	}
	return toString(raw), true
}

func join(op string, terms []string) string {
	if len(terms) == 0 {
		// An empty "and" is vacuously true, an empty "or" false.
		return strconv.FormatBool(op == "and")
	}
	sep := " || "
	if op == "and" {
		sep = " && "
	}
	return "(" + strings.Join(terms, sep) + ")"
}

// fieldPath converts "name" or ["fact", "os", "family"] to a lookup path.
func fieldPath(raw any) ([]string, error) {
	switch f := raw.(type) {
	case string:
		if f == "name" {
			return []string{"name"}, nil
		}
		return []string{"fact", f}, nil
	case []any:
		if len(f) < 2 {
			return nil, fmt.Errorf("%w: field %v needs a root and a name", domain.ErrInvalidArgument, f)
		}
		path := make([]string, len(f))
		for i, part := range f {
			s, ok := part.(string)
			if !ok {
				s = toString(part)
			}
			path[i] = s
		}
		if path[0] != "fact" && path[0] != "trusted" {
			return nil, fmt.Errorf("%w: field root must be fact or trusted, got %q", domain.ErrInvalidArgument, path[0])
		}
		return path, nil
	default:
		return nil, fmt.Errorf("%w: field %v must be a name or a list", domain.ErrInvalidArgument, raw)
	}
}

// lookup resolves a path against the node.
func (n Node) lookup(path []string) (any, bool) {
	if len(path) == 1 && path[0] == "name" {
		return n.Name, n.Name != ""
	}

	var cur any
	switch path[0] {
	case "fact":
		cur = n.Facts
	case "trusted":
		cur = n.Trusted
	default:
		return nil, false
	}
	for _, key := range path[1:] {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return n, err == nil
	default:
		return 0, false
	}
}
