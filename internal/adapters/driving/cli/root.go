// Package cli provides the ncedit command-line interface.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/core/ports/driving"
	"github.com/custodia-labs/ncedit/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services are the driving ports that talk to the classifier.
type Services struct {
	Groups   driving.GroupService
	Batch    driving.BatchService
	Settings domain.Settings
}

// LocalServices are the driving ports that only read and write local files.
type LocalServices struct {
	History driving.HistoryService
	Config  driving.ConfigService
}

// Connector builds the services once flags are parsed. apply overlays the
// global flags the user set onto the settings read from the config file.
type Connector func(ctx context.Context, configDir string, apply func(*domain.Settings)) (*Services, error)

// LocalConnector opens the config file and journal without contacting the
// classifier.
type LocalConnector func(configDir string) (*LocalServices, error)

// Service handles, set by the connectors or swapped in by tests.
var (
	groupService   driving.GroupService
	batchService   driving.BatchService
	historyService driving.HistoryService
	configService  driving.ConfigService
	settings       = domain.DefaultSettings()
	connect        Connector
	connectLocal   LocalConnector
)

// Global flags.
var (
	verbose   bool
	configDir string
	flagHost  string
	flagPort  int
	flagSSL   string
	flagWait  time.Duration
)

// scopeAnnotation selects what preRun wires for a command. Commands without
// it talk to the classifier.
const scopeAnnotation = "ncedit-scope"

// Scope values.
const (
	scopeNone  = "none"
	scopeLocal = "local"
)

var rootCmd = &cobra.Command{
	Use:   "ncedit",
	Short: "Idempotently edit node classifier groups",
	Long: `ncedit edits node classifier groups: classes, class parameters and
rule predicates. Every change is computed against the group as the
classifier currently stores it, so repeated runs are no-ops, and every
update is read back to verify it was saved.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.ncedit)")
	flags.StringVar(&flagHost, "host", "", "classifier host (default: this host's name)")
	flags.IntVar(&flagPort, "port", domain.DefaultPort, "classifier port")
	flags.StringVar(&flagSSL, "ssl-dir", domain.DefaultSSLDir, "puppet ssl directory holding the client certificate")
	flags.DurationVar(&flagWait, "wait", domain.DefaultWait, "how long to wait for the classifier to accept connections")
}

// Configure sets the build version and the service connectors.
func Configure(v string, c Connector, l LocalConnector) {
	if v != "" {
		version = v
	}
	connect = c
	connectLocal = l
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func preRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	switch cmd.Annotations[scopeAnnotation] {
	case scopeNone:
		return nil
	case scopeLocal:
		return openLocal()
	}

	if connect == nil || groupService != nil {
		return nil
	}
	services, err := connect(cmd.Context(), configDir, func(s *domain.Settings) {
		applyFlags(cmd.Flags(), s)
	})
	if err != nil {
		return fmt.Errorf("connecting to classifier: %w", err)
	}
	groupService = services.Groups
	batchService = services.Batch
	settings = services.Settings
	return nil
}

func openLocal() error {
	if connectLocal == nil || (historyService != nil && configService != nil) {
		return nil
	}
	local, err := connectLocal(configDir)
	if err != nil {
		return fmt.Errorf("opening local configuration: %w", err)
	}
	historyService = local.History
	configService = local.Config
	return nil
}

// applyFlags overrides settings with the global flags the user set.
func applyFlags(flags *pflag.FlagSet, s *domain.Settings) {
	if flags.Changed("host") {
		s.Host = flagHost
	}
	if flags.Changed("port") {
		s.Port = flagPort
	}
	if flags.Changed("ssl-dir") {
		s.SSLDir = flagSSL
	}
	if flags.Changed("wait") {
		s.Wait = flagWait
	}
}

// errNotConfigured is returned when a command runs without its service.
func errNotConfigured(name string) error {
	return fmt.Errorf("%s service not configured: %w", name, domain.ErrNotImplemented)
}
