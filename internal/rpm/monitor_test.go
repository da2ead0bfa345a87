package rpm

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/markusressel/altreg/internal/events"
	"github.com/markusressel/altreg/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSource struct {
	Values []float64
	Err    error
}

func (s *MockSource) Read() (float64, error) {
	if s.Err != nil {
		return math.NaN(), s.Err
	}
	if len(s.Values) == 0 {
		return math.NaN(), nil
	}
	value := s.Values[0]
	s.Values = s.Values[1:]
	return value, nil
}

var testParams = MonitorParams{
	LowThreshold: 500,
	Hysteresis:   0.05,
	PollingRate:  5 * time.Millisecond,
}

func drain(bus *events.Bus) []events.Event {
	var result []events.Event
	for bus.Len() > 0 {
		event, _ := bus.Receive(context.Background())
		result = append(result, event)
	}
	return result
}

func TestMonitor_EmitsOnCrossingsOnly(t *testing.T) {
	// GIVEN
	source := &MockSource{Values: []float64{0, 400, 520, 530, 600, 700, 480, 476, 470, 300, 490, 525}}
	telemetry := store.NewTelemetry()
	bus := events.NewBus(20)
	monitor := NewMonitor(source, telemetry, bus, testParams)

	// WHEN
	for i := 0; i < 12; i++ {
		require.NoError(t, monitor.Sample(context.Background()))
	}

	// THEN
	assert.Equal(t, []events.Event{events.RpmNormal, events.RpmLow, events.RpmNormal}, drain(bus))
	assert.Equal(t, 525.0, telemetry.Rpm.Load())
}

func TestMonitor_SeededBelow(t *testing.T) {
	// GIVEN
	source := &MockSource{Values: []float64{300}}
	bus := events.NewBus(5)
	monitor := NewMonitor(source, store.NewTelemetry(), bus, testParams)

	// WHEN
	require.NoError(t, monitor.Sample(context.Background()))

	// THEN
	assert.Empty(t, drain(bus))
}

func TestMonitor_ReadErrorKeepsState(t *testing.T) {
	// GIVEN
	source := &MockSource{Err: errors.New("boom")}
	telemetry := store.NewTelemetry()
	telemetry.Rpm.Store(1200)
	bus := events.NewBus(5)
	monitor := NewMonitor(source, telemetry, bus, testParams)

	// WHEN
	err := monitor.Sample(context.Background())

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 1200.0, telemetry.Rpm.Load())
	assert.Empty(t, drain(bus))
}

func TestMonitor_Average(t *testing.T) {
	// GIVEN
	source := &MockSource{Values: []float64{100, math.NaN(), 300}}
	monitor := NewMonitor(source, store.NewTelemetry(), events.NewBus(5), testParams)

	// WHEN
	for i := 0; i < 3; i++ {
		require.NoError(t, monitor.Sample(context.Background()))
	}

	// THEN
	assert.Equal(t, 200.0, monitor.Average())
}

func TestMonitor_AverageWithoutSamples(t *testing.T) {
	// GIVEN
	monitor := NewMonitor(&MockSource{}, store.NewTelemetry(), events.NewBus(5), testParams)

	// WHEN
	average := monitor.Average()

	// THEN
	assert.True(t, math.IsNaN(average))
}

func TestMonitor_Run(t *testing.T) {
	// GIVEN
	source := &MockSource{Values: []float64{1000}}
	telemetry := store.NewTelemetry()
	bus := events.NewBus(5)
	monitor := NewMonitor(source, telemetry, bus, testParams)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan error)
	go func() {
		done <- monitor.Run(ctx)
	}()

	// WHEN
	event, err := bus.Receive(ctx)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, events.RpmNormal, event)
	cancel()
	assert.NoError(t, <-done)
}
