package store

import "math"

// Setpoint holds commands for the power module.
// Limits are written by the controller, the enable command by whoever
// owns the output state. The PPS I/O task consumes them with the Take* methods.
type Setpoint struct {
	FieldCurrentLimit *Cell
	FieldVoltageLimit *Cell
	Enable            SetModeCell
	Contactor         BoolCell
}

func NewSetpoint() *Setpoint {
	s := &Setpoint{
		FieldCurrentLimit: NewCell(math.NaN()),
		FieldVoltageLimit: NewCell(math.NaN()),
	}
	s.Enable.Store(SetModeDontTouch)
	return s
}

// TakeFieldCurrentLimit returns the pending current limit and clears it.
// NaN means nothing new was requested since the last call.
func (s *Setpoint) TakeFieldCurrentLimit() float64 {
	return s.FieldCurrentLimit.Swap(math.NaN())
}

// TakeFieldVoltageLimit returns the pending voltage limit and clears it.
func (s *Setpoint) TakeFieldVoltageLimit() float64 {
	return s.FieldVoltageLimit.Swap(math.NaN())
}

// TakeEnable returns the pending enable command and resets it to SetModeDontTouch.
func (s *Setpoint) TakeEnable() SetMode {
	return s.Enable.Swap(SetModeDontTouch)
}
