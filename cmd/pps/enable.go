package pps

import (
	"context"

	"github.com/markusressel/altreg/internal/pps"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable the output of the power module",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable the output of the power module",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(false)
	},
}

func setEnabled(enabled bool) error {
	return withDriver(func(ctx context.Context, driver *pps.Driver) error {
		if err := driver.Enable(ctx, enabled); err != nil {
			return err
		}
		ui.Success("Power module output enabled: %v", enabled)
		return nil
	})
}

func init() {
	Command.AddCommand(enableCmd)
	Command.AddCommand(disableCmd)
}
