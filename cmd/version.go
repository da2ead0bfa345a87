package cmd

import (
	"runtime"

	"github.com/markusressel/altreg/internal/ui"
	"github.com/spf13/cobra"
)

// overridden at build time with -ldflags "-X github.com/markusressel/altreg/cmd.version=..."
var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of altreg",
	Long:  `All software has versions. This is altreg's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln("%s (%s, %s/%s)", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
