package di

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	appconfig "instrshot.dev/cli/internal/application/config"
	"instrshot.dev/cli/internal/application/services"
	configdomain "instrshot.dev/cli/internal/core/domain/config"
	"instrshot.dev/cli/internal/core/identity"
	"instrshot.dev/cli/internal/core/plugin"
	"instrshot.dev/cli/internal/core/ports"
	"instrshot.dev/cli/internal/core/selection"
	"instrshot.dev/cli/internal/infrastructure/capture"
	configinfra "instrshot.dev/cli/internal/infrastructure/config"
	"instrshot.dev/cli/internal/infrastructure/discovery"
	"instrshot.dev/cli/internal/infrastructure/history"
	"instrshot.dev/cli/internal/infrastructure/logging"
	"instrshot.dev/cli/internal/infrastructure/storage"
	"instrshot.dev/cli/internal/infrastructure/transport"
	"instrshot.dev/cli/internal/interfaces/cli"
)

// Container holds all application dependencies
type Container struct {
	// Configuration
	Settings   configdomain.Settings
	Snapshot   configdomain.Snapshot
	ConfigPath string

	// Infrastructure
	Dialer  ports.Dialer
	Writer  *storage.FileWriter
	History ports.CaptureHistory
	Scanner *discovery.NmapScanner

	// Core
	Registry *plugin.Registry
	Resolver *identity.Resolver
	Selector *selection.Selector

	// Application services
	Screenshot *services.ScreenshotService
	Discovery  *services.DiscoveryService

	Logger *zap.Logger
}

// NewContainer resolves the configuration and wires every component
func NewContainer(ctx context.Context, opts cli.BuildOptions) (*Container, error) {
	fileLoader := configinfra.NewFileLoader(opts.ConfigPath)
	aggregator := appconfig.NewAggregator(
		configinfra.NewConfigValidator(transport.Names()...),
		configinfra.NewEnvLoader(),
		fileLoader,
	)

	settings, snap, err := aggregator.Resolve(ctx, opts.Overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(settings.LogLevel, settings.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c := &Container{
		Settings:   settings,
		Snapshot:   snap,
		ConfigPath: fileLoader.Path(),
		Logger:     logger,
	}
	if err := c.initializeComponents(); err != nil {
		logger.Sync()
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	logger.Debug("container initialized",
		zap.String("transport", settings.Transport),
		zap.Duration("timeout", settings.Timeout),
		zap.Int("plugins", c.Registry.Len()))
	return c, nil
}

// initializeComponents initializes all components with proper dependencies
func (c *Container) initializeComponents() error {
	// 1. Transport and plugins
	dialer, err := transport.NewDialer(c.Settings.Transport, transport.Options{
		RawPort:     c.Settings.RawPort,
		VXI11Device: c.Settings.VXI11Device,
	}, c.Logger)
	if err != nil {
		return err
	}
	c.Dialer = dialer

	c.Registry = plugin.NewRegistry()
	if err := registerAll(c.Registry, capture.Builtins(dialer)); err != nil {
		return err
	}

	// 2. Core domain services
	c.Resolver = identity.NewResolver(dialer, c.Logger)
	c.Selector = selection.NewSelector(c.Registry, c.Resolver, c.Logger)

	// 3. Storage
	c.Writer = storage.NewFileWriter(c.Settings.OutputDir, c.Logger)
	c.History = c.openHistory()
	c.Scanner = discovery.NewNmapScanner(c.Logger)

	// 4. Application services
	c.Screenshot = services.NewScreenshotService(c.Selector, c.Writer, c.History, c.Logger)
	c.Discovery = services.NewDiscoveryService(c.Resolver, c.Selector, c.Scanner, c.Logger)
	return nil
}

func registerAll(registry *plugin.Registry, plugins []plugin.Plugin) error {
	for _, p := range plugins {
		if err := registry.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// openHistory returns nil when the history is disabled or cannot be opened;
// a broken history database never blocks a capture.
func (c *Container) openHistory() ports.CaptureHistory {
	if c.Settings.HistoryDB == "" {
		return nil
	}
	path := storage.ExpandPath(c.Settings.HistoryDB)
	store, err := history.Open(path)
	if err != nil {
		c.Logger.Warn("capture history disabled", zap.String("path", path), zap.Error(err))
		return nil
	}
	return store
}

// GetCLIContainer returns the CLI container
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return &cli.CLIContainer{
		Registry:   c.Registry,
		Screenshot: c.Screenshot,
		Discovery:  c.Discovery,
		History:    c.History,
		Settings:   c.Settings,
		Snapshot:   c.Snapshot,
		ConfigPath: c.ConfigPath,
		Logger:     c.Logger,
		Shutdown:   c.Shutdown,
	}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error
	if c.History != nil {
		if err := c.History.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close capture history: %w", err))
		}
	}
	// Sync fails on a terminal stderr; nothing is buffered by the console core
	_ = c.Logger.Sync()
	return errors.Join(errs...)
}

// Build is the cli.BuildFunc of the application
func Build(ctx context.Context, opts cli.BuildOptions) (*cli.CLIContainer, error) {
	c, err := NewContainer(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c.GetCLIContainer(), nil
}
