// Package batch reads desired-state files for batch reconciliation.
//
// A file maps group names to desired states:
//
//	web:
//	  classes:
//	    nginx: {port: 80}
//	  delete_classes: [apache]
//	  delete_params: {nginx: [user]}
//	  append_rules: [or, [["=", name, web01]]]
//
// YAML is decoded with yaml.v3. JSON files may carry comments and trailing
// commas, which are stripped with tidwall/jsonc before decoding.
package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.BatchLoader = (*Loader)(nil)

// Loader reads batch files from disk.
type Loader struct{}

// NewLoader creates a batch file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the file at path. An empty format is inferred from the file
// extension.
func (l *Loader) Load(path string, format domain.BatchFormat) (map[string]domain.DesiredState, error) {
	format, err := domain.DetectFormat(path, format)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var docs map[string]domain.DesiredState
	switch format {
	case domain.FormatYAML:
		docs, err = ParseYAML(data)
	default:
		docs, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// ParseJSON decodes a JSON or JSONC document.
func ParseJSON(data []byte) (map[string]domain.DesiredState, error) {
	return decode(jsonc.ToJSON(data))
}

// ParseYAML decodes a YAML document. The YAML is converted to JSON first so
// both formats share one decoder and the same value normalisation.
func ParseYAML(data []byte) (map[string]domain.DesiredState, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if raw == nil {
		return map[string]domain.DesiredState{}, nil
	}

	converted, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	return decode(converted)
}

// decode reads strict JSON. Unknown keys inside a group are rejected so a
// misspelt section is not silently ignored.
func decode(data []byte) (map[string]domain.DesiredState, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]domain.DesiredState{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var docs map[string]domain.DesiredState
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if docs == nil {
		docs = map[string]domain.DesiredState{}
	}
	return docs, nil
}
