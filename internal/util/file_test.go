package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadIntFromFile(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "pulses")
	err := os.WriteFile(filePath, []byte("1234\n"), 0644)
	assert.NoError(t, err)

	// WHEN
	value, err := ReadIntFromFile(filePath)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 1234, value)
}

func TestReadIntFromFile_Empty(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "pulses")
	err := os.WriteFile(filePath, []byte("  \n"), 0644)
	assert.NoError(t, err)

	// WHEN
	value, err := ReadIntFromFile(filePath)

	// THEN
	assert.Error(t, err)
	assert.Equal(t, -1, value)
}

func TestReadFloatFromFile(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "temp")
	err := os.WriteFile(filePath, []byte("87.5"), 0644)
	assert.NoError(t, err)

	// WHEN
	value, err := ReadFloatFromFile(filePath)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 87.5, value)
}

func TestWriteFileAtomic(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "status")

	// WHEN
	err := WriteFileAtomic(filePath, "first")
	assert.NoError(t, err)
	err = WriteFileAtomic(filePath, "second")
	assert.NoError(t, err)

	// THEN
	data, err := os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
