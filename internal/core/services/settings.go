package services

import (
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/core/ports/driven"
)

// Configuration keys read by LoadSettings.
const (
	KeyHost              = "classifier.host"
	KeyPort              = "classifier.port"
	KeySSLDir            = "classifier.ssl_dir"
	KeyRootGroup         = "classifier.root_group"
	KeyEnvironment       = "classifier.environment"
	KeyWaitSeconds       = "classifier.wait_seconds"
	KeyRequestsPerSecond = "classifier.requests_per_second"
	KeyFailFast          = "batch.fail_fast"
	KeyJournalEnabled    = "journal.enabled"
)

// hostname is swapped in tests.
var hostname = os.Hostname

// LoadSettings builds settings from the config store, falling back to
// defaults for missing keys. A nil store yields the defaults. When no host
// is configured the lowercased local host name is used, matching the name
// on the host's puppet certificate.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	settings := domain.DefaultSettings()

	if store != nil {
		if v := store.GetString(KeyHost); v != "" {
			settings.Host = v
		}
		if v := store.GetInt(KeyPort); v > 0 {
			settings.Port = v
		}
		if v := store.GetString(KeySSLDir); v != "" {
			settings.SSLDir = v
		}
		if v := store.GetString(KeyRootGroup); v != "" {
			settings.RootGroup = v
		}
		if v := store.GetString(KeyEnvironment); v != "" {
			settings.Environment = v
		}
		if _, ok := store.Get(KeyWaitSeconds); ok {
			settings.Wait = time.Duration(store.GetInt(KeyWaitSeconds)) * time.Second
		}
		if v := store.GetFloat(KeyRequestsPerSecond); v > 0 {
			settings.RequestsPerSecond = v
		}
		settings.FailFast = store.GetBool(KeyFailFast)
		if _, ok := store.Get(KeyJournalEnabled); ok {
			settings.JournalEnabled = store.GetBool(KeyJournalEnabled)
		}
	}

	if settings.Host == "" {
		if h, err := hostname(); err == nil {
			settings.Host = strings.ToLower(strings.TrimSpace(h))
		}
	}
	return settings
}
