package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"instrshot.dev/cli/internal/application/services"
	"instrshot.dev/cli/internal/core/domain"
)

// screenshotFlags holds the flags of the root capture command
type screenshotFlags struct {
	Address string
	Plugin  string
	Output  string
	List    bool
	Pick    bool
}

func runScreenshot(cmd *cobra.Command, container *CLIContainer, flags *screenshotFlags) error {
	out := cmd.OutOrStdout()

	if flags.List {
		return container.Registry.WriteTable(out)
	}

	if flags.Address == "" {
		return domain.ErrMissingAddress
	}

	if flags.Pick && flags.Plugin == "" {
		name, err := pickPlugin(cmd, container.Registry)
		if err != nil {
			return err
		}
		flags.Plugin = name
	}

	result, err := container.Screenshot.Capture(cmd.Context(), services.CaptureRequest{
		Address:    flags.Address,
		PluginName: flags.Plugin,
		Output:     flags.Output,
		Timeout:    container.Settings.Timeout,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoPluginDetected) && result != nil && result.Identity != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Instrument ID: %s\n", result.Identity)
		}
		return err
	}

	if result.Mode == domain.SelectionAutodetect {
		fmt.Fprintf(out, "Loaded %s screenshot plugin\n", result.Plugin)
	}
	fmt.Fprintf(out, "Saved screenshot image to %s\n", result.Path)
	return nil
}
