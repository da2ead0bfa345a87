package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/markusressel/altreg/cmd/global"
	"github.com/markusressel/altreg/internal/hwmon"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/markusressel/altreg/internal/util"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect temperature sensors",
	Long:  `Detects all hwmon temperature inputs usable for thermal protection and prints them as a list`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		chips := hwmon.GetChips()
		if len(chips) <= 0 {
			ui.Warning("No hwmon temperature inputs found")
			return
		}

		for _, chip := range chips {
			ui.Printfln("> %s (platform: %s)", chip.Name, chip.Platform)

			var rows [][]string
			for _, input := range chip.TempInputs {
				valueText := "N/A"
				value, err := util.ReadIntFromFile(input.Input)
				if err == nil {
					valueText = fmt.Sprintf("%.1f", float64(value)/1000)
				}

				_, file := filepath.Split(input.Input)
				labelAndFile := fmt.Sprintf("%s (%s)", input.Label, file)
				rows = append(rows, []string{
					"", strconv.Itoa(input.Index), labelAndFile, valueText,
				})
			}

			tableString, err := ui.RenderTable([]string{"Sensors", "Index", "Label", "Value"}, rows, !global.NoColor)
			if err != nil {
				ui.Fatal("Error printing table: %v", err)
			}
			ui.Printfln(tableString)
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
