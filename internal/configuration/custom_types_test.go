package configuration

import (
	"testing"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, input map[string]interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: DecodeHook(),
		Result:     target,
	})
	require.NoError(t, err)
	return decoder.Decode(input)
}

func TestParseBusAddress(t *testing.T) {
	tests := []struct {
		input    string
		expected BusAddress
	}{
		{input: "0x35", expected: 0x35},
		{input: "53", expected: 0x35},
		{input: " 0x7 ", expected: 0x07},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			// WHEN
			result, err := ParseBusAddress(tt.input)

			// THEN
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseBusAddressInvalid(t *testing.T) {
	// WHEN
	_, err := ParseBusAddress("zz")

	// THEN
	assert.Error(t, err)
}

func TestBusAddressString(t *testing.T) {
	assert.Equal(t, "0x35", BusAddress(0x35).String())
	assert.Equal(t, "0x07", BusAddress(7).String())
}

func TestDecodeHook_PpsConfig(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"bus":         "/dev/i2c-1",
		"address":     "0x36",
		"pollingRate": "250ms",
		"timeout":     "1s",
	}

	// WHEN
	var config PpsConfig
	err := decode(t, input, &config)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "/dev/i2c-1", config.Bus)
	assert.Equal(t, BusAddress(0x36), config.Address)
	assert.Equal(t, 250*time.Millisecond, config.PollingRate)
	assert.Equal(t, time.Second, config.Timeout)
}

func TestDecodeHook_IntegerAddress(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"address": 53,
	}

	// WHEN
	var config PpsConfig
	err := decode(t, input, &config)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, BusAddress(0x35), config.Address)
}

func TestDecodeHook_InvalidAddress(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"address": "pps",
	}

	// WHEN
	var config PpsConfig
	err := decode(t, input, &config)

	// THEN
	assert.Error(t, err)
}
