package pps

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/markusressel/altreg/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIO(t *testing.T, period time.Duration, timeout time.Duration) (*IO, *SimTransport, *store.Store) {
	sim := NewSimTransport(DefaultAddress)
	driver, err := NewDriver(context.Background(), sim, DefaultAddress)
	require.NoError(t, err)
	s := store.New()
	return NewIO(driver, s, period, timeout), sim, s
}

func TestIO_CycleAppliesFreshSetpointsOnce(t *testing.T) {
	// GIVEN
	io, sim, s := newTestIO(t, 0, 0)
	s.Setpoint.FieldVoltageLimit.Store(20)
	s.Setpoint.FieldCurrentLimit.Store(1.5)
	s.Setpoint.Enable.Store(store.SetModeOn)

	// WHEN
	io.Cycle(context.Background())
	io.Cycle(context.Background())

	// THEN
	assert.Equal(t, [][]byte{
		ModuleEnable(false).Encode(),
		SetCurrent(1.5).Encode(),
		SetVoltage(20).Encode(),
		ModuleEnable(true).Encode(),
	}, sim.Writes())
	assert.True(t, sim.Enabled())
	assert.True(t, math.IsNaN(s.Setpoint.FieldCurrentLimit.Load()))
	assert.Equal(t, store.SetModeDontTouch, s.Setpoint.Enable.Load())
}

func TestIO_CycleReadsTelemetry(t *testing.T) {
	// GIVEN
	io, _, s := newTestIO(t, 0, 0)
	s.Setpoint.FieldVoltageLimit.Store(4)
	s.Setpoint.FieldCurrentLimit.Store(3)
	s.Setpoint.Enable.Store(store.SetModeOn)

	// WHEN
	io.Cycle(context.Background())

	// THEN
	t.Log(s.Snapshot(time.Now()).Line())
	assert.InDelta(t, 1.0, s.Telemetry.FieldCurrent.Load(), 1e-6)
	assert.InDelta(t, 4.0, s.Telemetry.FieldVoltage.Load(), 1e-6)
	assert.InDelta(t, 35.0, s.Telemetry.PpsTemperature.Load(), 1e-6)
	assert.InDelta(t, 14.2, s.Telemetry.InputVoltage.Load(), 1e-5)
	assert.Equal(t, store.RunningModeVoltage, s.Telemetry.PpsMode.Load())
}

func TestIO_CycleDontTouchWritesNothing(t *testing.T) {
	// GIVEN
	io, sim, _ := newTestIO(t, 0, 0)

	// WHEN
	io.Cycle(context.Background())

	// THEN
	assert.Len(t, sim.Writes(), 1)
}

func TestIO_CycleDisable(t *testing.T) {
	// GIVEN
	io, sim, s := newTestIO(t, 0, 0)
	s.Setpoint.Enable.Store(store.SetModeOn)
	io.Cycle(context.Background())
	require.True(t, sim.Enabled())

	// WHEN
	s.Setpoint.Enable.Store(store.SetModeOff)
	io.Cycle(context.Background())

	// THEN
	assert.False(t, sim.Enabled())
}

func TestIO_CycleReadFailureKeepsCells(t *testing.T) {
	// GIVEN
	io, sim, s := newTestIO(t, 0, 0)
	io.Cycle(context.Background())
	previous := s.Telemetry.PpsTemperature.Load()
	sim.SetTemperature(80)
	sim.SetFault(Nack)

	// WHEN
	io.Cycle(context.Background())

	// THEN
	assert.Equal(t, previous, s.Telemetry.PpsTemperature.Load())
	assert.Equal(t, uint64(5), io.ErrorCount(Nack))
	assert.Equal(t, uint64(0), io.ErrorCount(Timeout))
}

func TestIO_CycleDecodeFailureIsCounted(t *testing.T) {
	// GIVEN
	io, sim, s := newTestIO(t, 0, 0)
	sim.SetRawRunningMode(9)
	s.Setpoint.FieldCurrentLimit.Store(1)

	// WHEN
	io.Cycle(context.Background())

	// THEN
	assert.Equal(t, uint64(1), io.ErrorCount(Decode))
	assert.Equal(t, store.RunningModeUnknown, s.Telemetry.PpsMode.Load())
	assert.False(t, math.IsNaN(s.Telemetry.FieldCurrent.Load()))
}

func TestIO_RunRecoversFromTimeout(t *testing.T) {
	// GIVEN
	io, sim, _ := newTestIO(t, 10*time.Millisecond, 30*time.Millisecond)
	sim.SetDelay(100 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- io.Run(ctx)
	}()

	// WHEN
	time.Sleep(250 * time.Millisecond)
	sim.SetDelay(0)
	time.Sleep(100 * time.Millisecond)
	cancel()

	// THEN
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("io task did not stop")
	}
	assert.GreaterOrEqual(t, io.Timeouts(), uint64(1))
	assert.GreaterOrEqual(t, io.Cycles(), uint64(3))
	assert.False(t, sim.Enabled())
	assert.Greater(t, io.LoopTimeMax(), 0.0)
}

func TestIO_RunDisablesModuleOnShutdown(t *testing.T) {
	// GIVEN
	io, sim, s := newTestIO(t, 5*time.Millisecond, 0)
	s.Setpoint.Enable.Store(store.SetModeOn)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- io.Run(ctx)
	}()
	assert.Eventually(t, sim.Enabled, time.Second, 5*time.Millisecond)

	// WHEN
	cancel()

	// THEN
	assert.NoError(t, <-done)
	assert.False(t, sim.Enabled())
}
