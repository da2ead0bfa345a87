package store

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// RunningMode is the output regulation mode reported by the power module.
type RunningMode uint8

const (
	RunningModeOff RunningMode = iota
	RunningModeVoltage
	RunningModeCurrent
	RunningModeUnknown
)

func (m RunningMode) String() string {
	switch m {
	case RunningModeOff:
		return "Off"
	case RunningModeVoltage:
		return "Voltage"
	case RunningModeCurrent:
		return "Current"
	case RunningModeUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("RunningMode(%d)", uint8(m))
	}
}

// SetMode is the enable command for the power module output.
type SetMode uint8

const (
	SetModeOff SetMode = iota
	SetModeOn
	// SetModeDontTouch leaves the output enable state as it is.
	SetModeDontTouch
)

func (m SetMode) String() string {
	switch m {
	case SetModeOff:
		return "Off"
	case SetModeOn:
		return "On"
	case SetModeDontTouch:
		return "DontTouch"
	default:
		return fmt.Sprintf("SetMode(%d)", uint8(m))
	}
}

type RunningModeCell struct {
	v atomic.Uint32
}

func (c *RunningModeCell) Load() RunningMode {
	return RunningMode(c.v.Load())
}

func (c *RunningModeCell) Store(m RunningMode) {
	c.v.Store(uint32(m))
}

type SetModeCell struct {
	v atomic.Uint32
}

func (c *SetModeCell) Load() SetMode {
	return SetMode(c.v.Load())
}

func (c *SetModeCell) Store(m SetMode) {
	c.v.Store(uint32(m))
}

func (c *SetModeCell) Swap(m SetMode) SetMode {
	return SetMode(c.v.Swap(uint32(m)))
}

// ModeCellCapacity is the maximum length of the text held by a ModeCell.
const ModeCellCapacity = 10

// ModeCell holds the current regulator state name.
// Single writer (the state machine), any number of readers.
type ModeCell struct {
	mu   sync.RWMutex
	text string
}

// Set replaces the content, truncated to ModeCellCapacity bytes.
func (c *ModeCell) Set(text string) {
	if len(text) > ModeCellCapacity {
		text = text[:ModeCellCapacity]
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
}

func (c *ModeCell) Get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.text
}
