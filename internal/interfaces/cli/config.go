package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	configdomain "instrshot.dev/cli/internal/core/domain/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect the configuration resolved from command line flags, INSTRSHOT_*
environment variables, the config file and the built-in defaults, in that
order of precedence.`,
	}

	configCmd.AddCommand(NewConfigShowCommand(a))
	configCmd.AddCommand(NewConfigPathCommand(a))

	return configCmd
}

// NewConfigShowCommand creates the show subcommand
func NewConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration and where each value comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SETTING\tVALUE\tSOURCE")
			for _, field := range configdomain.Fields {
				source := "default"
				if e, ok := a.container.Snapshot[field]; ok {
					source = e.Source
					if e.SourcePath != "" {
						source += " (" + e.SourcePath + ")"
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", field, settingValue(a.container.Settings, field), source)
			}
			return w.Flush()
		},
	}
}

func settingValue(s configdomain.Settings, field string) string {
	var v interface{}
	switch field {
	case configdomain.FieldTimeout:
		v = s.Timeout.Round(time.Millisecond)
	case configdomain.FieldTransport:
		v = s.Transport
	case configdomain.FieldRawPort:
		v = s.RawPort
	case configdomain.FieldVXI11Device:
		v = s.VXI11Device
	case configdomain.FieldOutputDir:
		v = s.OutputDir
	case configdomain.FieldHistoryDB:
		v = s.HistoryDB
	case configdomain.FieldLogLevel:
		v = s.LogLevel
	case configdomain.FieldDebug:
		v = s.Debug
	case configdomain.FieldDiscoverPorts:
		v = strings.Join(s.DiscoverPorts, ",")
	}
	if str := fmt.Sprint(v); str != "" {
		return str
	}
	return "(not set)"
}

// NewConfigPathCommand creates the path subcommand
func NewConfigPathCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file path: %s\n", a.container.ConfigPath)
			return nil
		},
	}
}
