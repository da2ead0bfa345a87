package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/markusressel/altreg/internal/configuration"
	"github.com/markusressel/altreg/internal/controller"
	"github.com/markusressel/altreg/internal/events"
	"github.com/markusressel/altreg/internal/persistence"
	"github.com/markusressel/altreg/internal/pps"
	"github.com/markusressel/altreg/internal/rpm"
	"github.com/markusressel/altreg/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) *controller.Controller {
	table, err := controller.NewRpmFactorTable(500, 4500, 100)
	require.NoError(t, err)
	return controller.New(store.New(), controller.Params{
		MaxFieldCurrent:  3,
		MaxFieldVoltage:  20,
		IdleFieldCurrent: 1,
		Table:            table,
	})
}

func newTestPersistence(t *testing.T) persistence.Persistence {
	p := persistence.NewPersistence(filepath.Join(t.TempDir(), "altreg.db"))
	require.NoError(t, p.Init())
	return p
}

func TestCreateTransport_Simulated(t *testing.T) {
	// GIVEN
	config := configuration.PpsConfig{Bus: configuration.SimulatedBus, Address: 0x35}

	// WHEN
	transport, err := CreateTransport(config)

	// THEN
	require.NoError(t, err)
	_, ok := transport.(*pps.SimTransport)
	assert.True(t, ok)
}

func TestCreateRpmSource_File(t *testing.T) {
	// GIVEN
	config := configuration.RpmConfig{
		PolePairs:   6,
		PulleyRatio: 1,
		File:        &configuration.RpmFileConfig{Path: "/tmp/count"},
	}

	// WHEN
	source, canSource, err := createRpmSource(config)

	// THEN
	require.NoError(t, err)
	assert.Nil(t, canSource)
	_, ok := source.(*rpm.PulseFileSource)
	assert.True(t, ok)
}

func TestCreateRpmSource_Missing(t *testing.T) {
	// WHEN
	_, _, err := createRpmSource(configuration.RpmConfig{})

	// THEN
	assert.Error(t, err)
}

func TestCreateTemperatureMonitor_File(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "temp")
	require.NoError(t, os.WriteFile(path, []byte("42000\n"), 0644))
	s := store.New()
	config := configuration.TemperatureConfig{
		Enabled:     true,
		File:        &configuration.TemperatureFileConfig{Path: path},
		PollingRate: 1,
		Warning:     90,
		Overheated:  105,
		Hysteresis:  0.05,
	}

	// WHEN
	monitor, err := createTemperatureMonitor(config, s, events.NewBus(1), nil, 1.0)

	// THEN
	require.NoError(t, err)
	require.NoError(t, monitor.Sample(context.Background()))
	assert.Equal(t, 42.0, s.Telemetry.Temperature.Load())
	assert.Equal(t, events.TemperatureNormal, monitor.Level())
}

func TestRestoreDeratingFactor(t *testing.T) {
	// GIVEN
	ctrl := newTestController(t)
	p := newTestPersistence(t)
	require.NoError(t, p.SaveDeratingFactor(0.75))

	// WHEN
	factor := restoreDeratingFactor(p, ctrl)

	// THEN
	assert.Equal(t, 0.75, factor)
	assert.Equal(t, 0.75, ctrl.State().DeratingFactor)
}

func TestRestoreDeratingFactor_NothingStored(t *testing.T) {
	// GIVEN
	ctrl := newTestController(t)
	p := newTestPersistence(t)

	// WHEN
	factor := restoreDeratingFactor(p, ctrl)

	// THEN
	assert.Equal(t, 1.0, factor)
}

func TestRestoreDeratingFactor_WithoutPersistence(t *testing.T) {
	// GIVEN
	ctrl := newTestController(t)

	// WHEN
	factor := restoreDeratingFactor(nil, ctrl)

	// THEN
	assert.Equal(t, 1.0, factor)
}

func TestRecordModule(t *testing.T) {
	// GIVEN
	ctx := context.Background()
	p := newTestPersistence(t)
	driver, err := pps.NewDriver(ctx, pps.NewSimTransport(pps.DefaultAddress), pps.DefaultAddress)
	require.NoError(t, err)

	// WHEN
	recordModule(ctx, p, driver)

	// THEN
	info, err := p.LoadModuleInfo(pps.DefaultAddress)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1a2b), info.ModuleId)
	assert.Equal(t, uint16(pps.DefaultAddress), info.Address)
	assert.False(t, info.LastSeen.IsZero())
}
