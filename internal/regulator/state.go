package regulator

import "fmt"

type State int

const (
	Startup State = iota
	Off
	Idle
	Charging
)

var States = []State{Startup, Off, Idle, Charging}

func (s State) String() string {
	switch s {
	case Startup:
		return "Startup"
	case Off:
		return "Off"
	case Idle:
		return "Idle"
	case Charging:
		return "Charging"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
