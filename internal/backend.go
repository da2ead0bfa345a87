package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markusressel/altreg/internal/api"
	"github.com/markusressel/altreg/internal/configuration"
	"github.com/markusressel/altreg/internal/controller"
	"github.com/markusressel/altreg/internal/events"
	"github.com/markusressel/altreg/internal/ipc"
	"github.com/markusressel/altreg/internal/persistence"
	"github.com/markusressel/altreg/internal/pps"
	"github.com/markusressel/altreg/internal/regulator"
	"github.com/markusressel/altreg/internal/rpm"
	"github.com/markusressel/altreg/internal/statistics"
	"github.com/markusressel/altreg/internal/status"
	"github.com/markusressel/altreg/internal/store"
	"github.com/markusressel/altreg/internal/temperature"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

func RunDaemon() {
	config := configuration.CurrentConfig

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := store.New()
	bus := events.NewBus(config.EventBusSize)

	transport, err := CreateTransport(config.Pps)
	if err != nil {
		ui.Fatal("Unable to open power module bus: %v", err)
	}
	defer func() {
		_ = transport.Close()
	}()

	driver, err := pps.NewDriver(ctx, transport, uint16(config.Pps.Address))
	if err != nil {
		ui.Fatal("Unable to initialize power module at %s: %v", config.Pps.Address, err)
	}

	pers := persistence.NewPersistence(config.DbPath)
	if err := pers.Init(); err != nil {
		ui.Warning("Persistence unavailable, operator settings will not be stored: %v", err)
		pers = nil
	}

	table, err := controller.NewRpmFactorTable(config.Regulator.RpmTable.Min, config.Regulator.RpmTable.Max, config.Regulator.RpmTable.Step)
	if err != nil {
		ui.Fatal("Invalid rpm factor table: %v", err)
	}
	ctrl := controller.New(s, controller.Params{
		MaxFieldCurrent:  config.Regulator.MaxFieldCurrent,
		MaxFieldVoltage:  config.Regulator.MaxFieldVoltage,
		IdleFieldCurrent: config.Regulator.IdleFieldCurrent,
		RpmDerating:      config.Regulator.RpmDerating,
		Table:            table,
		TickRate:         config.Regulator.ControlTickRate,
	})
	deratingFactor := restoreDeratingFactor(pers, ctrl)
	recordModule(ctx, pers, driver)

	lowThreshold := config.Rpm.LowThreshold
	machine := regulator.NewMachine(ctrl, s.Mode, func() bool {
		return s.Telemetry.RpmIsNormal(lowThreshold)
	}, config.Regulator.TargetStep)

	rpmSource, canSource, err := createRpmSource(config.Rpm)
	if err != nil {
		ui.Fatal("Unable to initialize rpm source: %v", err)
	}
	rpmMonitor := rpm.NewMonitor(rpmSource, s.Telemetry, bus, rpm.MonitorParams{
		LowThreshold: config.Rpm.LowThreshold,
		Hysteresis:   config.Rpm.Hysteresis,
		PollingRate:  config.Rpm.PollingRate,
	})

	io := pps.NewIO(driver, s, config.Pps.PollingRate, config.Pps.Timeout)

	err = statistics.Register(prometheus.DefaultRegisterer,
		statistics.NewStoreCollector(s),
		statistics.NewRegulatorCollector(machine, ctrl, bus),
		statistics.NewPpsCollector(io),
		statistics.NewRpmCollector(rpmMonitor),
	)
	if err != nil {
		ui.Fatal("%v", err)
	}

	// the power module is known to be disabled now
	if err := bus.Send(ctx, events.Ready{}); err != nil {
		ui.Fatal("Unable to signal readiness: %v", err)
	}

	var g run.Group
	{
		enabled := config.Statistics.Enabled
		if enabled {
			// === Prometheus Exporter
			port := config.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

			g.Add(func() error {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: " + err.Error())
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		// === REST API
		if config.Api.Enabled {
			rest := api.CreateRestService(api.Dependencies{
				Store:       s,
				Machine:     machine,
				Controller:  ctrl,
				Sender:      bus,
				Persistence: pers,
			})
			addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)

			g.Add(func() error {
				ui.Info("Starting REST api on %s", addr)
				if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}, func(err error) {
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := rest.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping REST api: %v", err)
				}
			})
		}
	}
	{
		// === core B: rpm sensing, regulator state machine and controller
		addTask(&g, ctx, cancel, "Rpm monitor", rpmMonitor.Run)
		if canSource != nil {
			addTask(&g, ctx, cancel, "CAN rpm source", canSource.Run)
		}
		addTask(&g, ctx, cancel, "Regulator", func(ctx context.Context) error {
			return machine.Run(ctx, bus)
		})
		addTask(&g, ctx, cancel, "Controller", ctrl.Run)
	}
	{
		// === core A: power module I/O, thermal protection and status outputs
		addTask(&g, ctx, cancel, "PPS I/O", io.Run)

		if config.Temperature.Enabled {
			monitor, err := createTemperatureMonitor(config.Temperature, s, bus, ctrl, deratingFactor)
			if err != nil {
				ui.Fatal("Unable to initialize temperature monitor: %v", err)
			}
			addTask(&g, ctx, cancel, "Temperature monitor", monitor.Run)
		}

		if config.Status.Path != "" {
			writer := status.NewWriter(config.Status.Path, config.Status.Rate, s)
			addTask(&g, ctx, cancel, "Status writer", writer.Run)
		}

		if config.Redis.Enabled {
			client := ipc.NewClient(config.Redis.Addr)
			defer func() {
				_ = client.Close()
			}()
			publisher := ipc.NewPublisher(client, s, config.Redis.Key, config.Redis.PublishRate)
			addTask(&g, ctx, cancel, "Redis publisher", publisher.Run)
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	err = g.Run()
	cancel()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
	}
}

// addTask runs a task until ctx is cancelled. A task returning early stops the daemon.
func addTask(g *run.Group, ctx context.Context, cancel context.CancelFunc, name string, task func(context.Context) error) {
	g.Add(func() error {
		err := task(ctx)
		ui.Info("%s stopped.", name)
		return err
	}, func(err error) {
		if err != nil {
			ui.Warning("%s: %v", name, err)
		}
		cancel()
	})
}

// CreateTransport opens the bus the power module is connected to.
func CreateTransport(config configuration.PpsConfig) (pps.Transport, error) {
	if config.Bus == configuration.SimulatedBus {
		ui.Warning("Using simulated power module at %s", config.Address)
		return pps.NewSimTransport(uint16(config.Address)), nil
	}
	return pps.NewI2cTransport(config.Bus, config.BusTimeout)
}

func createRpmSource(config configuration.RpmConfig) (rpm.Source, *rpm.CanSource, error) {
	switch {
	case config.Can != nil:
		source, err := rpm.NewCanSource(config.Can.Device, config.Can.FrameId, config.Can.Offset, config.Can.Scale)
		if err != nil {
			return nil, nil, err
		}
		return source, source, nil
	case config.File != nil:
		source := rpm.NewPulseFileSource(config.File.Path, config.PollingRate, config.PolePairs, config.PulleyRatio)
		return source, nil, nil
	default:
		return nil, nil, errors.New("no rpm source configured")
	}
}

func createTemperatureMonitor(
	config configuration.TemperatureConfig,
	s *store.Store,
	sender events.Sender,
	derater temperature.Derater,
	normalFactor float64,
) (*temperature.Monitor, error) {
	var source temperature.Source
	var err error
	switch {
	case config.HwMon != nil:
		source, err = temperature.NewHwmonSource(config.HwMon.Platform, config.HwMon.Index)
	case config.File != nil:
		source, err = temperature.NewFileSource(config.File.Path)
	default:
		err = errors.New("no temperature source configured")
	}
	if err != nil {
		return nil, err
	}

	return temperature.NewMonitor(source, s.Telemetry, sender, derater, temperature.Params{
		Warning:            config.Warning,
		Overheated:         config.Overheated,
		Hysteresis:         config.Hysteresis,
		PollingRate:        config.PollingRate,
		DeratingEnabled:    config.Derating.Enabled,
		DeratingNormal:     normalFactor,
		DeratingWarning:    config.Derating.Warning,
		DeratingOverheated: config.Derating.Overheated,
	}), nil
}

// restoreDeratingFactor applies the stored operator derating factor and returns the active factor.
func restoreDeratingFactor(pers persistence.Persistence, ctrl *controller.Controller) float64 {
	if pers == nil {
		return ctrl.State().DeratingFactor
	}
	factor, err := pers.LoadDeratingFactor()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			ui.Warning("Unable to load derating factor: %v", err)
		}
		return ctrl.State().DeratingFactor
	}
	if err := ctrl.SetDeratingFactor(factor); err != nil {
		ui.Warning("Ignoring stored derating factor: %v", err)
		return ctrl.State().DeratingFactor
	}
	ui.Info("Restored derating factor %.2f", factor)
	return factor
}

// recordModule stores the identity of the connected power module.
func recordModule(ctx context.Context, pers persistence.Persistence, driver *pps.Driver) {
	id, err := driver.ModuleId(ctx)
	if err != nil {
		ui.Warning("Unable to read power module id: %v", err)
		return
	}
	ui.Info("Power module 0x%04x at 0x%02x", id, driver.Address())

	if pers == nil {
		return
	}
	previous, err := pers.LoadModuleInfo(driver.Address())
	if err == nil && previous.ModuleId != id {
		ui.Warning("Power module at 0x%02x changed from 0x%04x to 0x%04x", driver.Address(), previous.ModuleId, id)
	}
	err = pers.SaveModuleInfo(persistence.ModuleInfo{
		Address:  driver.Address(),
		ModuleId: id,
		LastSeen: time.Now(),
	})
	if err != nil {
		ui.Warning("Unable to store power module info: %v", err)
	}
}
