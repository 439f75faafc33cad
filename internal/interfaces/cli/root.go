package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"instrshot.dev/cli/internal/application/services"
	configdomain "instrshot.dev/cli/internal/core/domain/config"
	"instrshot.dev/cli/internal/core/plugin"
	"instrshot.dev/cli/internal/core/ports"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Registry   *plugin.Registry
	Screenshot *services.ScreenshotService
	Discovery  *services.DiscoveryService
	// History is nil when the history database is disabled
	History    ports.CaptureHistory
	Settings   configdomain.Settings
	Snapshot   configdomain.Snapshot
	ConfigPath string
	Logger     *zap.Logger
	// Shutdown releases resources held by the container
	Shutdown func(ctx context.Context) error
}

// BuildOptions carries the flags that shape the container
type BuildOptions struct {
	ConfigPath string
	Overrides  map[string]interface{}
}

// BuildFunc creates the container once flags are parsed
type BuildFunc func(ctx context.Context, opts BuildOptions) (*CLIContainer, error)

// app holds the container for the duration of one command
type app struct {
	build     BuildFunc
	container *CLIContainer
}

func (a *app) init(cmd *cobra.Command) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	container, err := a.build(cmd.Context(), opts)
	if err != nil {
		return err
	}
	a.container = container
	return nil
}

func (a *app) close(ctx context.Context) {
	if a.container == nil || a.container.Shutdown == nil {
		return
	}
	if err := a.container.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	a.container = nil
}

// buildOptions turns explicitly set persistent flags into priority 1 overrides
func buildOptions(cmd *cobra.Command) (BuildOptions, error) {
	flags := cmd.Flags()
	opts := BuildOptions{Overrides: make(map[string]interface{})}
	opts.ConfigPath, _ = flags.GetString("config")

	if flags.Changed("timeout") {
		raw, _ := flags.GetString("timeout")
		timeout, err := configdomain.AsDuration(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid timeout %q: %w", raw, err)
		}
		opts.Overrides[configdomain.FieldTimeout] = timeout
	}
	stringFlags := map[string]string{
		"transport":  configdomain.FieldTransport,
		"output-dir": configdomain.FieldOutputDir,
		"log-level":  configdomain.FieldLogLevel,
	}
	for name, field := range stringFlags {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			opts.Overrides[field] = v
		}
	}
	if flags.Changed("debug") {
		v, _ := flags.GetBool("debug")
		opts.Overrides[configdomain.FieldDebug] = v
	}
	return opts, nil
}

// NewRootCommand creates the instrshot command. Without a subcommand it
// captures a screenshot from the instrument at the given address.
func NewRootCommand(build BuildFunc) (*cobra.Command, *app) {
	a := &app{build: build}
	flags := &screenshotFlags{}

	rootCmd := &cobra.Command{
		Use:   "instrshot [address]",
		Short: "Capture screenshots from LXI instruments",
		Long: `instrshot grabs the display of a networked oscilloscope, multimeter or other
LXI instrument and saves it as an image file.

The capture plugin is picked automatically by matching the instrument's *IDN?
response against every plugin's identity patterns, or named explicitly with
--plugin.`,
		Example: `  # Autodetect the instrument and save screenshot_<address>_<time>.<format>
  instrshot 192.168.1.20

  # Name the plugin and the output file
  instrshot -a 192.168.1.20 -p rigol-1000 -o scope.bmp

  # List the available plugins
  instrshot --list`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if flags.Address != "" && flags.Address != args[0] {
					return fmt.Errorf("address given both as argument (%s) and --address (%s)", args[0], flags.Address)
				}
				flags.Address = args[0]
			}
			return runScreenshot(cmd, a.container, flags)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.Flags().StringVarP(&flags.Address, "address", "a", "", "Instrument address (IP or hostname)")
	rootCmd.Flags().StringVarP(&flags.Plugin, "plugin", "p", "", "Screenshot plugin name (autodetected when empty)")
	rootCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output file (default screenshot_<address>_<time>.<format>)")
	rootCmd.Flags().BoolVarP(&flags.List, "list", "l", false, "List available screenshot plugins")
	rootCmd.Flags().BoolVar(&flags.Pick, "pick", false, "Choose the plugin interactively")

	rootCmd.PersistentFlags().StringP("timeout", "t", "", "Timeout per operation, in seconds or as a duration (default 10s)")
	rootCmd.PersistentFlags().String("transport", "", "Instrument transport: vxi11 or raw (default vxi11)")
	rootCmd.PersistentFlags().String("output-dir", "", "Directory for generated screenshot names")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default is $XDG_CONFIG_HOME/instrshot/config.yaml)")

	rootCmd.AddCommand(NewPluginsCommand(a))
	rootCmd.AddCommand(NewDetectCommand(a))
	rootCmd.AddCommand(NewDiscoverCommand(a))
	rootCmd.AddCommand(NewHistoryCommand(a))
	rootCmd.AddCommand(NewConfigCommand(a))

	return rootCmd, a
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Run executes the command line and returns the first error
func Run(ctx context.Context, build BuildFunc, args []string) error {
	rootCmd, a := NewRootCommand(build)
	rootCmd.SetArgs(args)
	defer a.close(context.WithoutCancel(ctx))
	return rootCmd.ExecuteContext(ctx)
}

// Execute runs the command line and exits with status 1 on error
func Execute(ctx context.Context, build BuildFunc) {
	if err := Run(ctx, build, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
