package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeClasses(t *testing.T, raw string) Classes {
	t.Helper()
	var c Classes
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	return c
}

func TestDeltaSaved(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		requested string
		want      bool
	}{
		{"deleted class confirmed absent", `{}`, `{"foo": null}`, true},
		{"deleted param confirmed absent", `{"foo": {}}`, `{"foo": {"bar": null}}`, true},
		{"value mismatch", `{"foo": {"bar": "baz1"}}`, `{"foo": {"bar": "baz"}}`, false},
		{"exact match", `{"foo": {"bar": "baz"}}`, `{"foo": {"bar": "baz"}}`, true},
		{"deleted class still present", `{"foo": {}}`, `{"foo": null}`, false},
		{"deleted param still present", `{"foo": {"bar": "baz"}}`, `{"foo": {"bar": null}}`, false},
		{"extra remote class", `{"foo": {}, "bar": {}}`, `{"foo": {}}`, false},
		{"missing remote param", `{"foo": {}}`, `{"foo": {"a": 1}}`, false},
		{"structured values", `{"foo": {"a": {"x": [1, 2]}}}`, `{"foo": {"a": {"x": [1, 2]}}}`, true},
		{"both empty", `{}`, `{}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeltaSaved(decodeClasses(t, tt.remote), decodeClasses(t, tt.requested))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeltaSaved_MixedNumericTypes(t *testing.T) {
	remote := decodeClasses(t, `{"ntp": {"servers": 3}}`)
	requested := Classes{"ntp": {Params: map[string]Param{"servers": {Value: 3}}}}

	assert.True(t, DeltaSaved(remote, requested))
}

func TestDeltaSaved_DoesNotMutateRequest(t *testing.T) {
	requested := decodeClasses(t, `{"foo": {"bar": null}, "gone": null}`)

	DeltaSaved(Classes{}, requested)

	assert.True(t, requested["foo"].Params["bar"].Deleted)
	assert.True(t, requested["gone"].Deleted)
}

func TestVerificationError(t *testing.T) {
	err := &VerificationError{
		Group:           "web",
		ExpectedClasses: Classes{"foo": {Params: map[string]Param{"bar": {Value: "baz"}}}},
		ObservedClasses: Classes{},
	}

	assert.True(t, errors.Is(err, ErrUpdateVerificationFailed))
	assert.Contains(t, err.Error(), `group "web"`)
	assert.Contains(t, err.Error(), `{"foo":{"bar":"baz"}}`)

	var target *VerificationError
	require.True(t, errors.As(error(err), &target))
	assert.Equal(t, "web", target.Group)
}
