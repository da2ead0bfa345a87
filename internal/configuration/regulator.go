package configuration

import "time"

type RegulatorConfig struct {
	// Field current limit at full target and derating, in ampere
	MaxFieldCurrent float64 `json:"maxFieldCurrent"`
	// Field voltage limit while the field is excited, in volt
	MaxFieldVoltage float64 `json:"maxFieldVoltage"`
	// Field current used while idling, in ampere
	IdleFieldCurrent float64 `json:"idleFieldCurrent"`
	// Target factor change per short button press
	TargetStep float64 `json:"targetStep"`
	// Interval of the controller update
	ControlTickRate time.Duration `json:"controlTickRate"`
	// Scale the charging current with the rpm factor table
	RpmDerating bool `json:"rpmDerating"`

	RpmTable RpmTableConfig `json:"rpmTable"`
}

type RpmTableConfig struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}
