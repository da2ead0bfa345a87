package pps

import (
	"context"
	"fmt"
	"os"

	"github.com/markusressel/altreg/cmd/global"
	"github.com/markusressel/altreg/internal/configuration"
	"github.com/markusressel/altreg/internal/persistence"
	"github.com/markusressel/altreg/internal/pps"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print identity and readings of the power module",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(ctx context.Context, driver *pps.Driver) error {
			var rows [][]string
			for _, command := range []pps.ReadCommand{
				pps.ReadModuleId,
				pps.ReadRunningMode,
				pps.ReadReadbackVoltage,
				pps.ReadReadbackCurrent,
				pps.ReadTemperature,
				pps.ReadInputVoltage,
			} {
				var valueText string
				result, err := driver.Read(ctx, command)
				if err == nil {
					valueText = result.String()
				} else {
					valueText = fmt.Sprintf("N/A (%s)", pps.CodeOf(err))
				}
				rows = append(rows, []string{command.String(), command.Register().String(), valueText})
			}

			tableString, err := ui.RenderTable([]string{"Value", "Register", "Reading"}, rows, !global.NoColor)
			if err != nil {
				return err
			}
			ui.Printfln("Power module at 0x%02x", driver.Address())
			ui.Printfln(tableString)

			printModuleInfo(driver.Address())
			return nil
		})
	},
}

func printModuleInfo(address uint16) {
	dbPath := configuration.CurrentConfig.DbPath
	if _, err := os.Stat(dbPath); err != nil {
		return
	}
	pers := persistence.NewPersistence(dbPath)
	info, err := pers.LoadModuleInfo(address)
	if err != nil {
		ui.Debug("No stored module info: %v", err)
		return
	}
	ui.Printfln("Last seen by the daemon: module 0x%04x at %s", info.ModuleId, info.LastSeen.Format("2006-01-02 15:04:05"))
}

func init() {
	Command.AddCommand(infoCmd)
}
