package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"instrshot.dev/cli/internal/application/services"
)

// NewDetectCommand creates the detect command
func NewDetectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <address>",
		Short: "Show the instrument identity and the plugins matching it",
		Long: `Query the instrument identity (*IDN?) and rank every plugin whose identity
patterns match it, without capturing a screenshot. The first plugin listed is
the one autodetect would use.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.container.Discovery.Detect(cmd.Context(), args[0], a.container.Settings.Timeout)
			if err != nil {
				return err
			}
			printDetection(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func printDetection(w io.Writer, d *services.Detection) {
	fmt.Fprintf(w, "Instrument ID: %s\n", d.Identity)
	if len(d.Candidates) == 0 {
		fmt.Fprintln(w, errorStyle.Render("No plugin matches this instrument"))
		return
	}

	fmt.Fprintln(w, headerStyle.Render("Matching plugins"))
	for i, c := range d.Candidates {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s (%d of %d patterns)\n", marker, c.Plugin.Name(), c.Score, len(c.Plugin.Patterns()))
	}
}
