package driven

import "github.com/custodia-labs/ncedit/internal/core/domain"

// BatchLoader reads desired-state documents keyed by group name.
type BatchLoader interface {
	// Load reads and decodes the file at path.
	// Returns domain.ErrNotFound if the file does not exist and
	// domain.ErrParse if it cannot be decoded.
	Load(path string, format domain.BatchFormat) (map[string]domain.DesiredState, error)
}
