package pps

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/markusressel/altreg/internal/store"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/markusressel/altreg/internal/util"
)

const (
	DefaultPeriod     = 500 * time.Millisecond
	loopTimeWindowLen = 20
)

// IO is the task owning the power module: it applies fresh setpoints
// and mirrors the module readbacks into the telemetry store.
type IO struct {
	driver  *Driver
	store   *store.Store
	period  time.Duration
	timeout time.Duration

	loopTimes *rolling.PointPolicy
	cycles    atomic.Uint64
	timeouts  atomic.Uint64
	errors    map[Code]*atomic.Uint64
}

// NewIO creates the task. A timeout <= 0 defaults to three periods.
func NewIO(driver *Driver, s *store.Store, period time.Duration, timeout time.Duration) *IO {
	if period <= 0 {
		period = DefaultPeriod
	}
	if timeout <= 0 {
		timeout = 3 * period
	}

	errorCounters := map[Code]*atomic.Uint64{
		Unknown: {},
	}
	for _, code := range Codes {
		errorCounters[code] = &atomic.Uint64{}
	}

	return &IO{
		driver:    driver,
		store:     s,
		period:    period,
		timeout:   timeout,
		loopTimes: util.CreateRollingWindow(loopTimeWindowLen),
		errors:    errorCounters,
	}
}

func (io *IO) Run(ctx context.Context) error {
	ticker := time.NewTicker(io.period)
	defer ticker.Stop()

	// non-nil while a cycle is still running
	var inFlight chan struct{}

	for {
		select {
		case <-ctx.Done():
			io.shutdown(inFlight)
			return nil
		case <-ticker.C:
			if inFlight != nil {
				select {
				case <-inFlight:
					inFlight = nil
				default:
					ui.Debug("Previous power module cycle still running, skipping")
					continue
				}
			}

			done := make(chan struct{})
			go func() {
				defer close(done)
				io.timedCycle(ctx)
			}()

			timer := time.NewTimer(io.timeout)
			select {
			case <-done:
				timer.Stop()
			case <-timer.C:
				io.timeouts.Add(1)
				ui.Error("Power module cycle exceeded %v, resetting loop", io.timeout)
				inFlight = done
				ticker.Reset(io.period)
			case <-ctx.Done():
				timer.Stop()
				io.shutdown(done)
				return nil
			}
		}
	}
}

func (io *IO) timedCycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, io.timeout)
	defer cancel()

	start := time.Now()
	io.Cycle(cycleCtx)
	io.loopTimes.Append(time.Since(start).Seconds())
	io.cycles.Add(1)
}

// Cycle runs one write phase followed by one read phase.
// Failures are logged and counted, they never abort the cycle.
func (io *IO) Cycle(ctx context.Context) {
	d := io.driver
	sp := io.store.Setpoint

	if current := sp.TakeFieldCurrentLimit(); !math.IsNaN(current) {
		io.check("set field current", d.SetCurrent(ctx, current))
	}
	if voltage := sp.TakeFieldVoltageLimit(); !math.IsNaN(voltage) {
		io.check("set field voltage", d.SetVoltage(ctx, voltage))
	}
	switch sp.TakeEnable() {
	case store.SetModeOn:
		io.check("enable module", d.Enable(ctx, true))
	case store.SetModeOff:
		io.check("disable module", d.Enable(ctx, false))
	}

	t := io.store.Telemetry
	io.readInto(ctx, "field voltage", d.Voltage, t.FieldVoltage)
	io.readInto(ctx, "field current", d.Current, t.FieldCurrent)
	io.readInto(ctx, "module temperature", d.Temperature, t.PpsTemperature)
	io.readInto(ctx, "input voltage", d.InputVoltage, t.InputVoltage)

	mode, err := d.RunningMode(ctx)
	if io.check("read running mode", err) {
		t.PpsMode.Store(mode)
	}
}

func (io *IO) readInto(ctx context.Context, name string, read func(context.Context) (float64, error), cell *store.Cell) {
	value, err := read(ctx)
	if io.check("read "+name, err) {
		cell.Store(value)
	}
}

// check logs and counts err and reports whether the operation succeeded.
func (io *IO) check(op string, err error) bool {
	if err == nil {
		return true
	}
	code := CodeOf(err)
	counter, ok := io.errors[code]
	if !ok {
		counter = io.errors[Unknown]
	}
	counter.Add(1)
	ui.Warning("Power module: failed to %s: %v", op, err)
	return false
}

func (io *IO) shutdown(inFlight chan struct{}) {
	if inFlight != nil {
		select {
		case <-inFlight:
		case <-time.After(io.timeout):
			ui.Warning("Power module cycle did not finish before shutdown")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), io.timeout)
	defer cancel()
	if err := io.driver.Enable(ctx, false); err != nil {
		ui.Error("Failed to disable power module on shutdown: %v", err)
		return
	}
	ui.Info("Power module disabled")
}

// LoopTimeMax is the longest cycle duration in seconds over the recent cycles.
func (io *IO) LoopTimeMax() float64 {
	return util.GetWindowMax(io.loopTimes)
}

func (io *IO) Cycles() uint64 {
	return io.cycles.Load()
}

func (io *IO) Timeouts() uint64 {
	return io.timeouts.Load()
}

func (io *IO) ErrorCount(code Code) uint64 {
	counter, ok := io.errors[code]
	if !ok {
		return 0
	}
	return counter.Load()
}
