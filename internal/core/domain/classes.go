package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Param is a single class parameter entry.
// A Deleted param is sent to the classifier as null, which removes it.
type Param struct {
	// Deleted marks the parameter for removal.
	Deleted bool

	// Value is any JSON-compatible value. Ignored when Deleted is set.
	Value any
}

// Class holds the parameters of one class applied by a group.
type Class struct {
	// Deleted marks the whole class for removal.
	Deleted bool

	// Params maps parameter names to their entries.
	Params map[string]Param
}

// Classes maps class names to class entries.
//
// A class missing from the map is not managed by this delta. A class with
// Deleted set is an explicit removal. Anything else is the desired content.
// The same three states apply to parameters within a class.
type Classes map[string]*Class

// ParamNames returns the parameter names of the class in sorted order.
func (c *Class) ParamNames() []string {
	names := make([]string, 0, len(c.Params))
	for name := range c.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Names returns the class names in sorted order.
func (c Classes) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the classes.
func (c Classes) Clone() Classes {
	if c == nil {
		return nil
	}
	out := make(Classes, len(c))
	for name, class := range c {
		if class == nil || class.Deleted {
			out[name] = &Class{Deleted: true}
			continue
		}
		params := make(map[string]Param, len(class.Params))
		for p, v := range class.Params {
			if v.Deleted {
				params[p] = Param{Deleted: true}
				continue
			}
			params[p] = Param{Value: NormalizeValue(v.Value)}
		}
		out[name] = &Class{Params: params}
	}
	return out
}

// Saved returns the classes as the classifier reports them once this delta
// has been applied: deleted or null parameters of kept classes are dropped,
// then deleted classes are dropped.
func (c Classes) Saved() Classes {
	out := make(Classes, len(c))
	for name, class := range c.Clone() {
		if class.Deleted {
			continue
		}
		for p, v := range class.Params {
			if v.Deleted || v.Value == nil {
				delete(class.Params, p)
			}
		}
		out[name] = class
	}
	return out
}

// Equal reports whether both maps hold the same classes, parameters and
// deletion markers. Nil and empty maps are equal.
func (c Classes) Equal(other Classes) bool {
	return reflect.DeepEqual(c.wire(), other.wire())
}

// String renders the classes in their wire form.
func (c Classes) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%v", c.wire())
	}
	return string(data)
}

// wire converts the classes to the classifier's JSON shape, with deletions
// as nil.
func (c Classes) wire() map[string]any {
	out := make(map[string]any, len(c))
	for name, class := range c {
		if class == nil || class.Deleted {
			out[name] = nil
			continue
		}
		params := make(map[string]any, len(class.Params))
		for p, v := range class.Params {
			if v.Deleted {
				params[p] = nil
				continue
			}
			params[p] = NormalizeValue(v.Value)
		}
		out[name] = params
	}
	return out
}

// MarshalJSON encodes deleted classes and parameters as null.
func (c Classes) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.wire())
}

// UnmarshalJSON decodes null classes and parameters as deletions.
func (c *Classes) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*c = nil
		return nil
	}

	out := make(Classes, len(raw))
	for name, body := range raw {
		var params map[string]any
		if err := json.Unmarshal(body, &params); err != nil {
			return fmt.Errorf("class %q: %w", name, err)
		}
		if params == nil {
			out[name] = &Class{Deleted: true}
			continue
		}
		class := &Class{Params: make(map[string]Param, len(params))}
		for p, v := range params {
			if v == nil {
				class.Params[p] = Param{Deleted: true}
				continue
			}
			class.Params[p] = Param{Value: v}
		}
		out[name] = class
	}
	*c = out
	return nil
}
