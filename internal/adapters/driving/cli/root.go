// Package cli provides the bistro command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/rest"
	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bistro-cli/internal/core/services"
	"github.com/custodia-labs/bistro-cli/internal/logger"
)

// DemoBackend is the --backend value that selects the in-memory demo data.
const DemoBackend = "demo"

// skipServices marks commands that run without a backend.
const skipServices = "bistro/skip-services"

var version = "dev"

var (
	verbose     bool
	configDir   string
	backendFlag string
)

// Services holds everything the commands drive.
type Services struct {
	Floor    driving.FloorService
	Orders   driving.OrderService
	Menu     driving.MenuService
	Stock    driving.StockService
	Settings driving.SettingsService
	Backend  driven.RestaurantBackend

	// ConfigPath is the config file the TUI watches. Empty disables
	// reloading.
	ConfigPath string

	// Reload re-reads the config file after it changed.
	Reload func() error
}

// deps is set by SetServices or built from flags before a command runs.
var deps *Services

// SetServices injects services, bypassing construction from flags.
func SetServices(s *Services) {
	deps = s
}

var rootCmd = &cobra.Command{
	Use:   "bistro",
	Short: "Front-of-house client for a restaurant backend",
	Long: `Bistro is a terminal client for running a restaurant floor: seat
parties, follow orders through the kitchen, mark dishes sold out and keep
an eye on stock.

Run "bistro tui" for the interactive interface, or use the subcommands
for scripting. "--backend demo" works against built-in demo data.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.bistro)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "",
		`backend URL, overriding backend.url; "demo" for built-in data`)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if deps != nil || cmd.Annotations[skipServices] == "true" {
		return nil
	}

	s, err := buildServices(backendFlag, configDir, tuiDemo)
	if err != nil {
		return err
	}
	deps = s
	return nil
}

// buildServices wires the services over either the REST client or the
// demo backend.
func buildServices(backendArg, dir string, demo bool) (*Services, error) {
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsSvc := services.NewSettingsService(store)

	var backend driven.RestaurantBackend
	if demo || backendArg == DemoBackend {
		logger.Debug("using demo backend")
		backend = memory.NewDemoBackend()
	} else {
		settings, err := settingsSvc.Get()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
		if backendArg != "" {
			settings.Backend.URL = backendArg
		}
		client, err := rest.NewClient(*settings)
		if err != nil {
			return nil, fmt.Errorf("creating backend client: %w", err)
		}
		logger.Debug("using backend %s", client.BaseURL())
		backend = client
	}

	return &Services{
		Floor:      services.NewFloorService(backend),
		Orders:     services.NewOrderService(backend),
		Menu:       services.NewMenuService(backend),
		Stock:      services.NewStockService(backend),
		Settings:   settingsSvc,
		Backend:    backend,
		ConfigPath: store.Path(),
		Reload:     store.Load,
	}, nil
}

// logPath returns where the TUI writes its log.
func logPath() (string, error) {
	dir := configDir
	if dir == "" {
		d, err := file.DefaultConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, "bistro.log"), nil
}

var errNotConfigured = errors.New("services not configured")

func current() (*Services, error) {
	if deps == nil {
		return nil, errNotConfigured
	}
	return deps, nil
}
