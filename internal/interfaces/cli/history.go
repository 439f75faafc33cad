package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent capture attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.container.History == nil {
				return fmt.Errorf("capture history is disabled (history_db is empty)")
			}

			records, err := a.container.History.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("No captures recorded yet"))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tADDRESS\tPLUGIN\tMODE\tRESULT")
			for _, r := range records {
				result := okStyle.Render(r.Path)
				if !r.Succeeded() {
					result = errorStyle.Render(r.Error)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.CapturedAt.Local().Format("2006-01-02 15:04:05"), r.Address, orDash(r.Plugin), r.Mode, result)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}
