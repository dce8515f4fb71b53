package domain

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"time"
)

// Default classifier connection values.
const (
	DefaultPort              = 4433
	DefaultSSLDir            = "/etc/puppetlabs/puppet/ssl"
	DefaultWait              = 300 * time.Second
	DefaultRequestsPerSecond = 10.0
)

// Settings holds everything needed to reach the classifier.
type Settings struct {
	// Host is the classifier host name. It must match the host's
	// certificate, so "localhost" rarely works.
	Host string

	// Port is the classifier API port.
	Port int

	// SSLDir is the puppet ssl directory holding the CA, certificate and
	// private key used for client authentication.
	SSLDir string

	// RootGroup is the parent of created groups.
	RootGroup string

	// Environment is assigned to created groups.
	Environment string

	// Wait bounds the availability poll before the first request.
	// Zero skips the poll.
	Wait time.Duration

	// RequestsPerSecond throttles classifier requests.
	RequestsPerSecond float64

	// FailFast stops a batch at the first failed group.
	FailFast bool

	// JournalEnabled records every submitted update locally.
	JournalEnabled bool
}

// DefaultSettings returns settings with every default applied.
// Host is left empty; it is discovered at runtime.
func DefaultSettings() Settings {
	return Settings{
		Port:              DefaultPort,
		SSLDir:            DefaultSSLDir,
		RootGroup:         RootGroupID,
		Environment:       DefaultEnvironment,
		Wait:              DefaultWait,
		RequestsPerSecond: DefaultRequestsPerSecond,
		JournalEnabled:    true,
	}
}

// Address returns host:port for the availability poll.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// BaseURL returns the classifier API root.
func (s Settings) BaseURL() string {
	return "https://" + s.Address() + "/classifier-api"
}

// CACertPath returns the puppet CA certificate path.
func (s Settings) CACertPath() string {
	return filepath.Join(s.SSLDir, "ca", "ca_crt.pem")
}

// CertPath returns the client certificate path for Host.
func (s Settings) CertPath() string {
	return filepath.Join(s.SSLDir, "certs", s.Host+".pem")
}

// KeyPath returns the client private key path for Host.
func (s Settings) KeyPath() string {
	return filepath.Join(s.SSLDir, "private_keys", s.Host+".pem")
}

// Validate checks the settings can produce a working client.
func (s Settings) Validate() error {
	if s.Host == "" {
		return fmt.Errorf("%w: classifier host is required", ErrInvalidArgument)
	}
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("%w: classifier port %d out of range", ErrInvalidArgument, s.Port)
	}
	if s.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: requests per second must be positive", ErrInvalidArgument)
	}
	return nil
}
