package pps

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/markusressel/altreg/internal/pps"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:       "set <voltage|current> <value>",
	Short:     "Set the voltage or current limit of the power module",
	Long:      `Sets a limit in volt or ampere. Opening the module disables its output, pass --enable to enable it afterwards.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"voltage", "current"},
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return err
		}
		if math.IsNaN(value) || value < 0 {
			return fmt.Errorf("invalid limit %s", args[1])
		}

		var set func(ctx context.Context, driver *pps.Driver) error
		switch args[0] {
		case "voltage":
			set = func(ctx context.Context, driver *pps.Driver) error {
				return driver.SetVoltage(ctx, value)
			}
		case "current":
			set = func(ctx context.Context, driver *pps.Driver) error {
				return driver.SetCurrent(ctx, value)
			}
		default:
			return fmt.Errorf("unknown limit %q, use one of: voltage | current", args[0])
		}

		return withDriver(func(ctx context.Context, driver *pps.Driver) error {
			if err := set(ctx, driver); err != nil {
				return err
			}
			ui.Success("Power module %s limit set to %.3f", args[0], value)
			if !enableAfterSet {
				return nil
			}
			if err := driver.Enable(ctx, true); err != nil {
				return err
			}
			ui.Success("Power module output enabled")
			return nil
		})
	},
}

var enableAfterSet bool

func init() {
	setCmd.Flags().BoolVarP(&enableAfterSet, "enable", "e", false, "Enable the output after setting the limit")
	Command.AddCommand(setCmd)
}
