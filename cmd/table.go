package cmd

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/altreg/cmd/global"
	"github.com/markusressel/altreg/internal/configuration"
	"github.com/markusressel/altreg/internal/controller"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the rpm factor table to console",
	Long:  `Prints the rpm factor table derived from the regulator.rpmTable configuration`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configuration.ReadConfigFileIfPresent()
		configuration.LoadConfig()
		config := configuration.CurrentConfig.Regulator.RpmTable

		table, err := controller.NewRpmFactorTable(config.Min, config.Max, config.Step)
		if err != nil {
			return err
		}

		entries := table.Entries()
		rows := make([][]string, 0, len(entries))
		values := make([]float64, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, []string{
				fmt.Sprintf("%.0f", entry.Rpm),
				fmt.Sprintf("%.3f", entry.Factor),
			})
			values = append(values, entry.Factor)
		}

		tableString, err := ui.RenderTable([]string{"Rpm", "Factor"}, rows, !global.NoColor)
		if err != nil {
			return err
		}
		ui.Printfln(tableString)

		caption := fmt.Sprintf("Factor / Rpm (%.0f..%.0f)", config.Min, config.Max)
		graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
		ui.Printfln(graph)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
}
