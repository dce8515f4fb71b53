package driving

import "github.com/custodia-labs/ncedit/internal/core/domain"

// ConfigService reads and writes the settings kept in the config file.
type ConfigService interface {
	// Keys returns every known configuration key in display order.
	Keys() []domain.ConfigKey

	// Get returns the stored value of a known key and whether it is set.
	// Unknown keys fail with domain.ErrInvalidArgument.
	Get(key string) (any, bool, error)

	// Set parses raw to the key's kind and persists it.
	// Unknown keys and unparsable values fail with domain.ErrInvalidArgument.
	Set(key, raw string) error

	// Path returns the config file location.
	Path() string
}
