package rpm

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/markusressel/altreg/internal/events"
	"github.com/markusressel/altreg/internal/store"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/markusressel/altreg/internal/util"
)

const averageWindowLen = 10

type MonitorParams struct {
	LowThreshold float64
	Hysteresis   float64
	PollingRate  time.Duration
}

// Monitor samples the engine speed and turns threshold crossings into Rpm events.
type Monitor struct {
	source    Source
	telemetry *store.Telemetry
	sender    events.Sender
	params    MonitorParams

	// above is owned by the sampling goroutine
	above  bool
	window *rolling.PointPolicy
	// samples counts the values appended to window
	samples atomic.Int64
}

func NewMonitor(source Source, telemetry *store.Telemetry, sender events.Sender, params MonitorParams) *Monitor {
	return &Monitor{
		source:    source,
		telemetry: telemetry,
		sender:    sender,
		params:    params,
		above:     false,
		window:    util.CreateRollingWindow(averageWindowLen),
	}
}

func (m *Monitor) Run(ctx context.Context) error {
	ui.Info("Starting rpm monitor (threshold %.0f rpm, polling rate %v)", m.params.LowThreshold, m.params.PollingRate)

	tick := time.NewTicker(m.params.PollingRate)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			if err := m.Sample(ctx); err != nil {
				return nil
			}
		}
	}
}

// Sample takes one reading and emits an event on a threshold crossing.
// It only fails when ctx is done while waiting for room on the event bus.
func (m *Monitor) Sample(ctx context.Context) error {
	value, err := m.source.Read()
	if err != nil {
		ui.Warning("Error reading rpm: %v", err)
		return nil
	}

	m.telemetry.Rpm.Store(value)
	if !math.IsNaN(value) {
		m.window.Append(value)
		m.samples.Add(1)
	}

	above, crossed := util.DetectCrossing(value, m.params.LowThreshold, m.params.Hysteresis, m.above)
	m.above = above
	if !crossed {
		return nil
	}

	event := events.RpmLow
	if above {
		event = events.RpmNormal
	}
	ui.Debug("Engine speed %.0f rpm crossed threshold: %s", value, event)
	return m.sender.Send(ctx, event)
}

// Average is the mean over the most recent samples, NaN before the first one.
func (m *Monitor) Average() float64 {
	return util.GetPartialWindowAvg(m.window, m.samples.Load())
}
