package domain

import (
	"encoding/json"
	"reflect"
)

// NormalizeValue converts v to the shape encoding/json produces when the
// value is read back from the classifier: numbers become float64, maps
// become map[string]any and slices become []any. Values that cannot be
// encoded are returned unchanged.
func NormalizeValue(v any) any {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// ValuesEqual reports whether two parameter values are structurally equal
// once normalised.
func ValuesEqual(a, b any) bool {
	return reflect.DeepEqual(NormalizeValue(a), NormalizeValue(b))
}
