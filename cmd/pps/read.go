package pps

import (
	"context"
	"fmt"
	"strings"

	"github.com/markusressel/altreg/internal/pps"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:       "read <value>",
	Short:     "Read a single register of the power module",
	Long:      `Reads one of: ` + strings.Join(readCommandNames(), ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: readCommandNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		command, err := pps.ParseReadCommand(args[0])
		if err != nil {
			return err
		}

		pterm.DisableOutput()
		return withDriver(func(ctx context.Context, driver *pps.Driver) error {
			raw, err := driver.ReadRaw(ctx, command)
			if err != nil {
				return err
			}
			result, err := command.Decode(raw)
			if err != nil {
				fmt.Printf("% x\n", raw)
				return nil
			}
			fmt.Printf("% x (%s)\n", raw, result)
			return nil
		})
	},
}

func readCommandNames() []string {
	names := make([]string, 0, len(pps.ReadCommands))
	for _, command := range pps.ReadCommands {
		names = append(names, command.String())
	}
	return names
}

func init() {
	Command.AddCommand(readCmd)
}
