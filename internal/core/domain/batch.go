package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// BatchFormat is the encoding of a batch file.
type BatchFormat string

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto BatchFormat = ""

	// FormatYAML is a YAML document.
	FormatYAML BatchFormat = "yaml"

	// FormatJSON is a JSON document; comments and trailing commas are allowed.
	FormatJSON BatchFormat = "json"
)

// DetectFormat resolves FormatAuto from the path's extension.
func DetectFormat(path string, format BatchFormat) (BatchFormat, error) {
	if format != FormatAuto {
		if format != FormatYAML && format != FormatJSON {
			return "", fmt.Errorf("%w: unknown batch format %q", ErrInvalidArgument, format)
		}
		return format, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: cannot infer batch format of %q", ErrInvalidArgument, path)
	}
}

// BatchOptions controls a batch run.
type BatchOptions struct {
	Format BatchFormat

	// FailFast stops at the first group that fails. Otherwise every group
	// is attempted and failures are reported together.
	FailFast bool
}

// GroupOutcome is the result of one group in a batch.
type GroupOutcome struct {
	Group   string
	Changed bool
	Err     error
}

// BatchReport lists the outcome of every attempted group, in run order.
type BatchReport struct {
	Outcomes []GroupOutcome
}

// Failed returns the outcomes that carry an error.
func (r *BatchReport) Failed() []GroupOutcome {
	var failed []GroupOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Changed returns the number of groups that were updated.
func (r *BatchReport) Changed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Changed {
			n++
		}
	}
	return n
}
