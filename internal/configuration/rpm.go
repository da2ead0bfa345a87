package configuration

import "time"

type RpmConfig struct {
	// Engine speed below which the alternator is considered stopped
	LowThreshold float64       `json:"lowThreshold"`
	Hysteresis   float64       `json:"hysteresis"`
	PollingRate  time.Duration `json:"pollingRate"`

	PolePairs   int     `json:"polePairs"`
	PulleyRatio float64 `json:"pulleyRatio"`

	File *RpmFileConfig `json:"file,omitempty"`
	Can  *RpmCanConfig  `json:"can,omitempty"`
}

// RpmFileConfig reads a free running pulse counter from a file, e.g. a sysfs counter.
type RpmFileConfig struct {
	Path string `json:"path"`
}

// RpmCanConfig reads the engine speed from CAN frames sent by the engine ECU.
type RpmCanConfig struct {
	Device  string  `json:"device"`
	FrameId uint32  `json:"frameId"`
	Offset  int     `json:"offset"`
	Scale   float64 `json:"scale"`
}
