package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/core/ports/driven"
	"github.com/custodia-labs/ncedit/internal/core/ports/driving"
)

// Ensure ConfigService implements the interface.
var _ driving.ConfigService = (*ConfigService)(nil)

// configKeys lists the keys LoadSettings reads.
var configKeys = []domain.ConfigKey{
	{Name: KeyHost, Kind: domain.KindString, Description: "classifier host name (default: this host's name)"},
	{Name: KeyPort, Kind: domain.KindInt, Description: "classifier port"},
	{Name: KeySSLDir, Kind: domain.KindString, Description: "puppet ssl directory"},
	{Name: KeyRootGroup, Kind: domain.KindString, Description: "parent id for created groups"},
	{Name: KeyEnvironment, Kind: domain.KindString, Description: "environment for created groups"},
	{Name: KeyWaitSeconds, Kind: domain.KindInt, Description: "seconds to wait for the classifier, 0 to skip"},
	{Name: KeyRequestsPerSecond, Kind: domain.KindFloat, Description: "request rate limit"},
	{Name: KeyFailFast, Kind: domain.KindBool, Description: "stop a batch at the first failed group"},
	{Name: KeyJournalEnabled, Kind: domain.KindBool, Description: "record updates in the local journal"},
}

// ConfigService edits the config file through a ConfigStore.
type ConfigService struct {
	store driven.ConfigStore
}

// NewConfigService creates a new config service.
func NewConfigService(store driven.ConfigStore) *ConfigService {
	return &ConfigService{store: store}
}

// Keys returns every known configuration key.
func (s *ConfigService) Keys() []domain.ConfigKey {
	return slices.Clone(configKeys)
}

// Get returns the stored value for key.
func (s *ConfigService) Get(key string) (any, bool, error) {
	if _, err := lookupKey(key); err != nil {
		return nil, false, err
	}
	if s.store == nil {
		return nil, false, domain.ErrNotImplemented
	}
	v, ok := s.store.Get(key)
	return v, ok, nil
}

// Set validates raw against the key's kind and persists it.
func (s *ConfigService) Set(key, raw string) error {
	k, err := lookupKey(key)
	if err != nil {
		return err
	}
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	value, err := parseConfigValue(k, raw)
	if err != nil {
		return err
	}
	if err := s.store.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Path returns the config file location, or "" without a store.
func (s *ConfigService) Path() string {
	if s.store == nil {
		return ""
	}
	return s.store.Path()
}

func lookupKey(name string) (domain.ConfigKey, error) {
	for _, k := range configKeys {
		if k.Name == name {
			return k, nil
		}
	}
	return domain.ConfigKey{}, fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidArgument, name)
}

func parseConfigValue(k domain.ConfigKey, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	invalid := func(reason string) error {
		return fmt.Errorf("%w: %s %s: %q", domain.ErrInvalidArgument, k.Name, reason, raw)
	}

	switch k.Kind {
	case domain.KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, invalid("must be a non-negative integer")
		}
		if k.Name == KeyPort && (n == 0 || n > 65535) {
			return nil, invalid("must be a port number")
		}
		return n, nil
	case domain.KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			return nil, invalid("must be a positive number")
		}
		return f, nil
	case domain.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalid("must be true or false")
		}
		return b, nil
	default:
		if raw == "" {
			return nil, invalid("must not be empty")
		}
		return raw, nil
	}
}
