package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewPluginsCommand creates the plugins command
func NewPluginsCommand(a *app) *cobra.Command {
	var patterns bool

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List available screenshot plugins",
		Long: `List the registered screenshot plugins in registration order. Autodetect
breaks ties in favor of the plugin listed first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !patterns {
				return a.container.Registry.WriteTable(out)
			}

			for p := range a.container.Registry.All() {
				fmt.Fprintln(out, headerStyle.Render(p.Name()))
				fmt.Fprintf(out, "  %s\n", p.Description())
				fmt.Fprintf(out, "  format:   %s\n", p.Format())
				if list := p.Patterns(); len(list) > 0 {
					fmt.Fprintf(out, "  patterns: %s\n", strings.Join(list, "  "))
				} else {
					fmt.Fprintln(out, mutedStyle.Render("  patterns: none (select by name only)"))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&patterns, "patterns", false, "Show identity patterns and image format of every plugin")
	return cmd
}
