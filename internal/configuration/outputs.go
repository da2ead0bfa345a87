package configuration

import "time"

// ApiConfig configures the REST api used by remote panels and battery monitors.
type ApiConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

// StatisticsConfig configures the standalone prometheus endpoint.
type StatisticsConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

type RedisConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
	// Hash the snapshot is written to, mode changes go to "<key>:mode"
	Key         string        `json:"key"`
	PublishRate time.Duration `json:"publishRate"`
}

// StatusConfig configures the status file, disabled if Path is empty.
type StatusConfig struct {
	Path string        `json:"path"`
	Rate time.Duration `json:"rate"`
}
