package rpm

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPulsesToRpm(t *testing.T) {
	// GIVEN
	// 10 pulses in 100ms on a 6 pole pair alternator, 1:1 pulleys
	// -> 10 * 60 / 12 * 10 = 500 rpm
	result := PulsesToRpm(10, 100*time.Millisecond, 6, 1)

	// THEN
	assert.InDelta(t, 500.0, result, 1e-9)
	assert.InDelta(t, 500.0*53.7/128.2, PulsesToRpm(10, 100*time.Millisecond, 6, 53.7/128.2), 1e-9)
	assert.True(t, math.IsNaN(PulsesToRpm(10, 0, 6, 1)))
}

func TestPulseFileSource_Read(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "count")
	source := NewPulseFileSource(path, 100*time.Millisecond, 6, 1)
	write := func(value string) {
		require.NoError(t, os.WriteFile(path, []byte(value), 0644))
	}

	// WHEN
	write("100")
	first, err1 := source.Read()
	write("120")
	second, err2 := source.Read()
	write("5")
	wrapped, err3 := source.Read()

	// THEN
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.NoError(t, err3)
	assert.True(t, math.IsNaN(first))
	assert.InDelta(t, 1000.0, second, 1e-9)
	assert.Equal(t, 0.0, wrapped)
}

func TestPulseFileSource_MissingFile(t *testing.T) {
	// GIVEN
	source := NewPulseFileSource(filepath.Join(t.TempDir(), "missing"), 100*time.Millisecond, 6, 1)

	// WHEN
	value, err := source.Read()

	// THEN
	assert.Error(t, err)
	assert.True(t, math.IsNaN(value))
}
