package temperature

import (
	"context"
	"time"

	"github.com/markusressel/altreg/internal/events"
	"github.com/markusressel/altreg/internal/store"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/markusressel/altreg/internal/util"
)

// Derater receives the derating factor for the current thermal level.
type Derater interface {
	SetDeratingFactor(factor float64) error
}

type Params struct {
	Warning     float64
	Overheated  float64
	Hysteresis  float64
	PollingRate time.Duration

	// Derating factors per level, only applied if DeratingEnabled is set
	DeratingEnabled    bool
	DeratingNormal     float64
	DeratingWarning    float64
	DeratingOverheated float64
}

// Monitor samples a temperature and reports thermal level changes.
type Monitor struct {
	source    Source
	telemetry *store.Telemetry
	sender    events.Sender
	derater   Derater
	params    Params

	warningAbove    bool
	overheatedAbove bool
	level           events.Temperature
}

// NewMonitor creates a thermal monitor. derater may be nil.
func NewMonitor(source Source, telemetry *store.Telemetry, sender events.Sender, derater Derater, params Params) *Monitor {
	return &Monitor{
		source:    source,
		telemetry: telemetry,
		sender:    sender,
		derater:   derater,
		params:    params,
		level:     events.TemperatureNormal,
	}
}

func (m *Monitor) Run(ctx context.Context) error {
	ui.Info("Starting temperature monitor (warning %.1f°C, overheated %.1f°C)", m.params.Warning, m.params.Overheated)

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

// Sample takes one reading and reports a level change.
func (m *Monitor) Sample(ctx context.Context) error {
	value, err := m.source.Read()
	if err != nil {
		ui.Warning("Error reading temperature: %v", err)
		return nil
	}
	m.telemetry.Temperature.Store(value)

	m.warningAbove, _ = util.DetectCrossing(value, m.params.Warning, m.params.Hysteresis, m.warningAbove)
	m.overheatedAbove, _ = util.DetectCrossing(value, m.params.Overheated, m.params.Hysteresis, m.overheatedAbove)

	level := events.TemperatureNormal
	switch {
	case m.overheatedAbove:
		level = events.TemperatureOverheated
	case m.warningAbove:
		level = events.TemperatureWarning
	}
	if level == m.level {
		return nil
	}

	ui.Warning("Temperature %.1f°C, level changed to %s", value, level)
	m.level = level
	m.applyDerating(level)
	return m.sender.Send(ctx, level)
}

func (m *Monitor) Level() events.Temperature {
	return m.level
}

func (m *Monitor) applyDerating(level events.Temperature) {
	if !m.params.DeratingEnabled || m.derater == nil {
		return
	}

	factor := m.params.DeratingNormal
	switch level {
	case events.TemperatureWarning:
		factor = m.params.DeratingWarning
	case events.TemperatureOverheated:
		factor = m.params.DeratingOverheated
	}
	if err := m.derater.SetDeratingFactor(factor); err != nil {
		ui.Error("Failed to apply thermal derating: %v", err)
	}
}
