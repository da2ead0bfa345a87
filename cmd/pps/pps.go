package pps

import (
	"context"
	"time"

	"github.com/markusressel/altreg/cmd/global"
	"github.com/markusressel/altreg/internal"
	"github.com/markusressel/altreg/internal/configuration"
	"github.com/markusressel/altreg/internal/pps"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/spf13/cobra"
)

const commandTimeout = 5 * time.Second

var busOverride string

var Command = &cobra.Command{
	Use:   "pps",
	Short: "Power module related commands",
	Long: `Diagnostic access to the power module.
Opening the module disables its output, so stop the daemon first.`,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&busOverride,
		"bus", "b",
		"",
		"Bus device (or \"sim\") overriding pps.bus from the config",
	)
}

// withDriver opens the configured power module and runs action on it.
func withDriver(action func(ctx context.Context, driver *pps.Driver) error) error {
	configPath := configuration.ReadConfigFileIfPresent()
	if configPath != "" {
		ui.Debug("Using configuration file at: %s", configPath)
	}
	configuration.LoadConfig()

	config := configuration.CurrentConfig.Pps
	if busOverride != "" {
		config.Bus = busOverride
	}
	if global.Simulate {
		config.Bus = configuration.SimulatedBus
	}

	transport, err := internal.CreateTransport(config)
	if err != nil {
		return err
	}
	defer func() {
		_ = transport.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	driver, err := pps.NewDriver(ctx, transport, uint16(config.Address))
	if err != nil {
		return err
	}
	return action(ctx, driver)
}
