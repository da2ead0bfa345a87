package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Configuration {
	return Configuration{
		DbPath:       "/tmp/altreg.db",
		EventBusSize: 10,
		Regulator: RegulatorConfig{
			MaxFieldCurrent:  3,
			MaxFieldVoltage:  20,
			IdleFieldCurrent: 1,
			TargetStep:       0.05,
			ControlTickRate:  100 * time.Millisecond,
			RpmTable:         RpmTableConfig{Min: 500, Max: 4500, Step: 100},
		},
		Rpm: RpmConfig{
			LowThreshold: 500,
			Hysteresis:   0.05,
			PollingRate:  100 * time.Millisecond,
			PolePairs:    6,
			PulleyRatio:  53.7 / 128.2,
			File:         &RpmFileConfig{Path: "/sys/class/counter/count0"},
		},
		Pps: PpsConfig{
			Bus:         SimulatedBus,
			Address:     0x35,
			PollingRate: 500 * time.Millisecond,
			Timeout:     1500 * time.Millisecond,
		},
		Temperature: TemperatureConfig{
			Enabled:     true,
			File:        &TemperatureFileConfig{Path: "/sys/class/thermal/thermal_zone0/temp"},
			PollingRate: time.Second,
			Warning:     90,
			Overheated:  105,
			Hysteresis:  0.05,
			Derating:    TemperatureDeratingConfig{Enabled: true, Warning: 0.5},
		},
	}
}

func TestValidateValidConfig(t *testing.T) {
	// GIVEN
	config := validConfig()

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.NoError(t, err)
}

func TestValidateEventBusSize(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.EventBusSize = 0

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "eventBusSize must be > 0, was 0")
}

func TestValidateRpmSourceIsMissing(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Rpm.File = nil

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "rpm: source configuration is missing, use one of: file | can")
}

func TestValidateMultipleRpmSources(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Rpm.Can = &RpmCanConfig{Device: "can0", FrameId: 0x100, Scale: 1}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "rpm: only one rpm source can be used")
}

func TestValidateCanOffset(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Rpm.File = nil
	config.Rpm.Can = &RpmCanConfig{Device: "can0", FrameId: 0x100, Offset: 7, Scale: 1}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "rpm: can.offset must be in [0, 6], was 7")
}

func TestValidateRpmHysteresis(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Rpm.Hysteresis = 1

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "rpm: hysteresis must be in [0, 1), was 1")
}

func TestValidateRpmTableOrder(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Regulator.RpmTable.Max = 500

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "regulator: rpmTable.min (500) must be lower than rpmTable.max (500)")
}

func TestValidateIdleCurrentAboveMax(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Regulator.IdleFieldCurrent = 4

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "regulator: idleFieldCurrent must be in [0, maxFieldCurrent], was 4")
}

func TestValidateControlTickRate(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Regulator.ControlTickRate = 0

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "regulator: controlTickRate must be > 0, was 0s")
}

func TestValidatePpsAddress(t *testing.T) {
	tests := []struct {
		name    string
		address BusAddress
		err     string
	}{
		{name: "default", address: 0x35},
		{name: "not 7-bit", address: 0x80, err: "pps: address 0x80 is not a 7-bit address"},
		{name: "general call", address: 0x00, err: "pps: address 0x00 is reserved"},
		{name: "10-bit prefix", address: 0x78, err: "pps: address 0x78 is reserved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			config := validConfig()
			config.Pps.Address = tt.address

			// WHEN
			err := validateConfig(&config)

			// THEN
			if tt.err == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.err)
			}
		})
	}
}

func TestValidateTemperatureThresholdOrder(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Temperature.Warning = 110

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "temperature: warning (110) must be lower than overheated (105)")
}

func TestValidateTemperatureDeratingFactor(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Temperature.Derating.Overheated = -0.1

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "temperature: derating.overheated must be in [0, 1], was -0.1")
}

func TestValidateMultipleTemperatureSources(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Temperature.Enabled = false
	config.Temperature.HwMon = &TemperatureHwMonConfig{Platform: "coretemp", Index: 1}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "temperature: only one temperature source can be used")
}

func TestValidateDisabledTemperatureNeedsNoSource(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Temperature = TemperatureConfig{}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.NoError(t, err)
}

func TestValidateApiPort(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Api = ApiConfig{Enabled: true, Host: "localhost", Port: 70000}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "api: invalid port 70000")
}

func TestValidateStatusRate(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Status = StatusConfig{Path: "/run/altreg/status"}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "status: rate must be > 0, was 0s")
}
