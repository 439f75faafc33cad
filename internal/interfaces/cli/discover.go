package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewDiscoverCommand creates the discover command
func NewDiscoverCommand(a *app) *cobra.Command {
	var scanPorts []string

	cmd := &cobra.Command{
		Use:   "discover <target>",
		Short: "Find instruments on the network",
		Long: `Scan a host, range or CIDR block with nmap for the VXI-11 portmapper, HiSLIP
and raw SCPI ports, then query every host found for its identity and the
plugin autodetect would choose. Requires the nmap binary.`,
		Example: `  instrshot discover 192.168.1.0/24
  instrshot discover 10.0.0.10-40 --ports 111,5025`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("ports") {
				scanPorts = a.container.Settings.DiscoverPorts
			}

			found, err := a.container.Discovery.Discover(cmd.Context(), args[0], scanPorts, a.container.Settings.Timeout)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("No instruments found"))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ADDRESS\tHOSTNAME\tPORTS\tPLUGIN\tIDENTITY")
			for _, d := range found {
				plugin, identity := d.Best(), d.Identity
				if d.Err != nil {
					identity = "(" + d.Err.Error() + ")"
				}
				if plugin == "" {
					plugin = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Address, orDash(d.Hostname), joinPorts(d.OpenPorts), plugin, identity)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&scanPorts, "ports", nil, "Ports to scan (default from discover_ports setting)")
	return cmd
}

func joinPorts(ports []uint16) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
