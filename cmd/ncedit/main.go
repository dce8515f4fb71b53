// Command ncedit idempotently edits node classifier groups.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/ncedit/internal/adapters/driven/batch"
	"github.com/custodia-labs/ncedit/internal/adapters/driven/classifier/rest"
	"github.com/custodia-labs/ncedit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ncedit/internal/adapters/driven/probe"
	"github.com/custodia-labs/ncedit/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ncedit/internal/adapters/driving/cli"
	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/core/ports/driven"
	"github.com/custodia-labs/ncedit/internal/core/services"
	"github.com/custodia-labs/ncedit/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &application{}
	cli.Configure(version, app.connect, app.local)

	err := cli.Execute(ctx)
	app.close()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// application owns the resources opened by the connectors.
type application struct {
	config  *file.ConfigStore
	journal *sqlite.Store
}

// local wires the services that only use the config file and journal.
func (a *application) local(configDir string) (*cli.LocalServices, error) {
	config, err := a.openConfig(configDir)
	if err != nil {
		return nil, err
	}
	settings := services.LoadSettings(config)
	return &cli.LocalServices{
		History: services.NewHistoryService(a.openJournal(settings)),
		Config:  services.NewConfigService(config),
	}, nil
}

// connect reads the configuration, waits for the classifier and wires the
// services.
func (a *application) connect(
	ctx context.Context,
	configDir string,
	apply func(*domain.Settings),
) (*cli.Services, error) {
	config, err := a.openConfig(configDir)
	if err != nil {
		return nil, err
	}

	settings := services.LoadSettings(config)
	apply(&settings)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if settings.Wait > 0 {
		if err := probe.NewTCPProber(probe.DefaultInterval).Wait(ctx, settings.Address(), settings.Wait); err != nil {
			return nil, err
		}
	}

	client, err := rest.NewClient(rest.Config{
		BaseURL:           settings.BaseURL(),
		CACertPath:        settings.CACertPath(),
		CertPath:          settings.CertPath(),
		KeyPath:           settings.KeyPath(),
		RequestsPerSecond: settings.RequestsPerSecond,
	})
	if err != nil {
		return nil, err
	}

	groups := services.NewGroupService(client, services.GroupConfig{
		RootGroup:   settings.RootGroup,
		Environment: settings.Environment,
	})
	if journal := a.openJournal(settings); journal != nil {
		groups.SetJournal(journal)
	}

	return &cli.Services{
		Groups:   groups,
		Batch:    services.NewBatchService(batch.NewLoader(), groups),
		Settings: settings,
	}, nil
}

func (a *application) openConfig(configDir string) (*file.ConfigStore, error) {
	if a.config != nil {
		return a.config, nil
	}
	config, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Debug("Using config %s", config.Path())
	a.config = config
	return config, nil
}

// openJournal returns nil when the journal is disabled or cannot be opened.
func (a *application) openJournal(settings domain.Settings) driven.JournalStore {
	if !settings.JournalEnabled {
		return nil
	}
	if a.journal == nil {
		store, err := sqlite.NewStore(filepath.Join(filepath.Dir(a.config.Path()), "data"))
		if err != nil {
			logger.Warn("Journal disabled: %v", err)
			return nil
		}
		a.journal = store
	}
	return a.journal.JournalStore()
}

func (a *application) close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			logger.Warn("Closing journal: %v", err)
		}
	}
}
