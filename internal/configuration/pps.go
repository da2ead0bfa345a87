package configuration

import "time"

// SimulatedBus selects the in-process power module simulation instead of an I2C device.
const SimulatedBus = "sim"

type PpsConfig struct {
	// I2C character device, or SimulatedBus
	Bus     string     `json:"bus"`
	Address BusAddress `json:"address"`

	PollingRate time.Duration `json:"pollingRate"`
	// Maximum duration of one I/O cycle before it is counted as timed out
	Timeout time.Duration `json:"timeout"`
	// Kernel timeout of a single bus transfer
	BusTimeout time.Duration `json:"busTimeout"`
}
