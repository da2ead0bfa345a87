package configuration

import "time"

type TemperatureConfig struct {
	Enabled bool `json:"enabled"`

	HwMon *TemperatureHwMonConfig `json:"hwmon,omitempty"`
	File  *TemperatureFileConfig  `json:"file,omitempty"`

	PollingRate time.Duration `json:"pollingRate"`
	Warning     float64       `json:"warning"`
	Overheated  float64       `json:"overheated"`
	Hysteresis  float64       `json:"hysteresis"`

	Derating TemperatureDeratingConfig `json:"derating"`
}

type TemperatureHwMonConfig struct {
	Platform string `json:"platform"`
	Index    int    `json:"index"`
}

type TemperatureFileConfig struct {
	Path string `json:"path"`
}

// TemperatureDeratingConfig holds the derating factor applied per thermal level.
type TemperatureDeratingConfig struct {
	Enabled    bool    `json:"enabled"`
	Warning    float64 `json:"warning"`
	Overheated float64 `json:"overheated"`
}
