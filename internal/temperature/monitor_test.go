package temperature

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/markusressel/altreg/internal/events"
	"github.com/markusressel/altreg/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSource struct {
	Values []float64
}

func (s *MockSource) Read() (float64, error) {
	value := s.Values[0]
	if len(s.Values) > 1 {
		s.Values = s.Values[1:]
	}
	return value, nil
}

type MockDerater struct {
	Factors []float64
}

func (d *MockDerater) SetDeratingFactor(factor float64) error {
	d.Factors = append(d.Factors, factor)
	return nil
}

var testParams = Params{
	Warning:            90,
	Overheated:         105,
	Hysteresis:         0.05,
	PollingRate:        5 * time.Millisecond,
	DeratingEnabled:    true,
	DeratingNormal:     1.0,
	DeratingWarning:    0.5,
	DeratingOverheated: 0.0,
}

func TestMonitor_Levels(t *testing.T) {
	// GIVEN
	source := &MockSource{Values: []float64{60, 94, 95, 111, 115, 99, 90, 85, 80}}
	telemetry := store.NewTelemetry()
	bus := events.NewBus(20)
	derater := &MockDerater{}
	monitor := NewMonitor(source, telemetry, bus, derater, testParams)

	// WHEN
	for i := 0; i < 9; i++ {
		require.NoError(t, monitor.Sample(context.Background()))
	}

	// THEN
	var received []events.Event
	for bus.Len() > 0 {
		event, _ := bus.Receive(context.Background())
		received = append(received, event)
	}
	assert.Equal(t, []events.Event{
		events.TemperatureWarning,
		events.TemperatureOverheated,
		events.TemperatureWarning,
		events.TemperatureNormal,
	}, received)
	assert.Equal(t, []float64{0.5, 0.0, 0.5, 1.0}, derater.Factors)
	assert.Equal(t, 80.0, telemetry.Temperature.Load())
	assert.Equal(t, events.TemperatureNormal, monitor.Level())
}

func TestMonitor_DeratingDisabled(t *testing.T) {
	// GIVEN
	params := testParams
	params.DeratingEnabled = false
	derater := &MockDerater{}
	monitor := NewMonitor(&MockSource{Values: []float64{120}}, store.NewTelemetry(), events.NewBus(5), derater, params)

	// WHEN
	require.NoError(t, monitor.Sample(context.Background()))

	// THEN
	assert.Equal(t, events.TemperatureOverheated, monitor.Level())
	assert.Empty(t, derater.Factors)
}

func TestFileSource_Read(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "temp1_input")
	require.NoError(t, os.WriteFile(path, []byte("87500\n"), 0644))
	source, err := NewFileSource(path)
	require.NoError(t, err)

	// WHEN
	value, err := source.Read()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 87.5, value)
}
