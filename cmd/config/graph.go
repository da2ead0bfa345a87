package config

import (
	"fmt"
	"os"

	"github.com/markusressel/altreg/cmd/global"
	"github.com/markusressel/altreg/internal/regulator"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Prints and checks the regulator state transitions",
	Long:  `Lists every state transition of the regulator and checks that all operating states remain reachable`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows [][]string
		for _, edge := range regulator.Graph() {
			rows = append(rows, []string{
				edge.From.String(), edge.Event.String(), fmt.Sprintf("%v", edge.RpmNormal), edge.To.String(),
			})
		}

		tableString, err := ui.RenderTable([]string{"From", "Event", "Rpm normal", "To"}, rows, !global.NoColor)
		if err != nil {
			return err
		}
		ui.Printfln(tableString)

		if err := regulator.ValidateGraph(); err != nil {
			ui.Error("Transition graph is invalid: %v", err)
			os.Exit(1)
		}
		ui.Success("Transition graph looks good! :)")
		return nil
	},
}

func init() {
	Command.AddCommand(graphCmd)
}
