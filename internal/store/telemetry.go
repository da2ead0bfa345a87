package store

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/markusressel/altreg/internal/util"
)

const bleRateSmoothing = 0.1

// Telemetry holds the latest measurement of every observed quantity.
// Each field has exactly one writer.
type Telemetry struct {
	// Rpm is written by the rpm monitor
	Rpm *Cell
	// Temperature is written by the thermal monitor
	Temperature *Cell

	// battery values are written by the battery ingest endpoint
	BatCurrent *Cell
	BatVoltage *Cell
	BatSoc     *Cell
	BleRate    *Cell

	// power module readbacks are written by the PPS I/O task
	InputVoltage   *Cell
	FieldVoltage   *Cell
	FieldCurrent   *Cell
	PpsTemperature *Cell
	PpsMode        RunningModeCell

	// TargetFactor is written by the controller
	TargetFactor *Cell

	lastBleSample atomic.Int64
}

func NewTelemetry() *Telemetry {
	t := &Telemetry{
		Rpm:            NewCell(math.NaN()),
		Temperature:    NewCell(math.NaN()),
		BatCurrent:     NewCell(math.NaN()),
		BatVoltage:     NewCell(math.NaN()),
		BatSoc:         NewCell(math.NaN()),
		BleRate:        NewCell(0),
		InputVoltage:   NewCell(math.NaN()),
		FieldVoltage:   NewCell(math.NaN()),
		FieldCurrent:   NewCell(math.NaN()),
		PpsTemperature: NewCell(math.NaN()),
		TargetFactor:   NewCell(0),
	}
	t.PpsMode.Store(RunningModeUnknown)
	return t
}

// UpdateBleRate folds a battery telemetry arrival at now into the
// exponentially smoothed sample rate (Hz).
func (t *Telemetry) UpdateBleRate(now time.Time) {
	previous := t.lastBleSample.Swap(now.UnixNano())
	if previous == 0 {
		return
	}
	dt := time.Duration(now.UnixNano() - previous).Seconds()
	if dt <= 0 {
		return
	}
	rate := t.BleRate.Load()
	t.BleRate.Store(util.UpdateExponentialMovingAvg(rate, bleRateSmoothing, 1/dt))
}

// RpmIsNormal reports whether the last rpm sample is above threshold.
func (t *Telemetry) RpmIsNormal(threshold float64) bool {
	return t.Rpm.Load() > threshold
}
