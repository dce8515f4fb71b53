package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClasses_UnmarshalJSON_NullsAreDeletions(t *testing.T) {
	var c Classes
	err := json.Unmarshal([]byte(`{"foo": null, "bar": {"a": null, "b": "x"}, "baz": {}}`), &c)

	require.NoError(t, err)
	assert.True(t, c["foo"].Deleted)
	assert.False(t, c["bar"].Deleted)
	assert.True(t, c["bar"].Params["a"].Deleted)
	assert.Equal(t, "x", c["bar"].Params["b"].Value)
	assert.False(t, c["baz"].Deleted)
	assert.Empty(t, c["baz"].Params)
}

func TestClasses_MarshalJSON_DeletionsAreNulls(t *testing.T) {
	c := Classes{
		"foo": {Deleted: true},
		"bar": {Params: map[string]Param{"a": {Deleted: true}, "b": {Value: "x"}}},
	}

	data, err := json.Marshal(c)

	require.NoError(t, err)
	assert.JSONEq(t, `{"foo": null, "bar": {"a": null, "b": "x"}}`, string(data))
}

func TestClasses_UnmarshalJSON_RejectsNonObjectClass(t *testing.T) {
	var c Classes
	err := json.Unmarshal([]byte(`{"foo": "bar"}`), &c)

	assert.Error(t, err)
}

func TestClasses_Saved(t *testing.T) {
	c := Classes{
		"foo": {Deleted: true},
		"bar": {Params: map[string]Param{"a": {Deleted: true}, "b": {Value: "x"}}},
	}

	saved := c.Saved()

	assert.NotContains(t, saved, "foo")
	require.Contains(t, saved, "bar")
	assert.NotContains(t, saved["bar"].Params, "a")
	assert.Equal(t, "x", saved["bar"].Params["b"].Value)
}

func TestClasses_Saved_DropsNullValues(t *testing.T) {
	c := Classes{"foo": {Params: map[string]Param{"a": {Value: nil}, "b": {Value: "x"}}}}

	saved := c.Saved()

	require.Contains(t, saved, "foo")
	assert.NotContains(t, saved["foo"].Params, "a")
	assert.Contains(t, saved["foo"].Params, "b")
}

func TestClasses_Equal(t *testing.T) {
	assert.True(t, Classes(nil).Equal(Classes{}))
	assert.True(t, Classes{"a": {}}.Equal(Classes{"a": {Params: map[string]Param{}}}))
	assert.False(t, Classes{"a": {}}.Equal(Classes{"a": {Deleted: true}}))
	assert.False(t, Classes{"a": {}}.Equal(Classes{"b": {}}))
}

func TestClasses_CloneIsDeep(t *testing.T) {
	original := Classes{"foo": {Params: map[string]Param{"a": {Value: "x"}}}}

	clone := original.Clone()
	clone["foo"].Params["a"] = Param{Value: "y"}
	clone["bar"] = &Class{}

	assert.Equal(t, "x", original["foo"].Params["a"].Value)
	assert.NotContains(t, original, "bar")
}

func TestClasses_Names(t *testing.T) {
	c := Classes{"b": {}, "a": {}, "c": {}}

	assert.Equal(t, []string{"a", "b", "c"}, c.Names())
}
