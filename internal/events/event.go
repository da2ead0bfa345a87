package events

import "fmt"

// Event is a domain event carried on the Bus.
// The set of implementations is closed: Ready, Rpm, Button and Temperature.
type Event interface {
	fmt.Stringer
	isEvent()
}

// Ready signals that the power module driver has been brought up.
type Ready struct{}

func (Ready) isEvent() {}

func (Ready) String() string {
	return "Ready"
}

// Rpm is an engine speed transition.
type Rpm int

const (
	RpmLow Rpm = iota
	RpmHighIdle
	RpmNormal
)

func (Rpm) isEvent() {}

func (r Rpm) String() string {
	switch r {
	case RpmLow:
		return "Rpm(Low)"
	case RpmHighIdle:
		return "Rpm(HighIdle)"
	case RpmNormal:
		return "Rpm(Normal)"
	default:
		return fmt.Sprintf("Rpm(%d)", int(r))
	}
}

type ButtonKind int

const (
	DecShort ButtonKind = iota
	DecLong
	OkShort
	OkLong
	IncShort
	IncLong
)

func (k ButtonKind) String() string {
	switch k {
	case DecShort:
		return "DecShort"
	case DecLong:
		return "DecLong"
	case OkShort:
		return "OkShort"
	case OkLong:
		return "OkLong"
	case IncShort:
		return "IncShort"
	case IncLong:
		return "IncLong"
	default:
		return fmt.Sprintf("ButtonKind(%d)", int(k))
	}
}

// ParseButtonKind resolves the name of a ButtonKind as returned by String.
func ParseButtonKind(name string) (ButtonKind, error) {
	for _, kind := range ButtonKinds {
		if kind.String() == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown button: %s", name)
}

var ButtonKinds = []ButtonKind{DecShort, DecLong, OkShort, OkLong, IncShort, IncLong}

// Button is a debounced button press. Count is the number of repeated
// short presses and is only meaningful for the short kinds.
type Button struct {
	Kind  ButtonKind
	Count int
}

func (Button) isEvent() {}

func (b Button) String() string {
	switch b.Kind {
	case DecShort, OkShort, IncShort:
		return fmt.Sprintf("Button(%s(%d))", b.Kind, b.Count)
	default:
		return fmt.Sprintf("Button(%s)", b.Kind)
	}
}

// Temperature is a thermal level change.
type Temperature int

const (
	TemperatureNormal Temperature = iota
	TemperatureWarning
	TemperatureOverheated
)

func (Temperature) isEvent() {}

func (t Temperature) String() string {
	switch t {
	case TemperatureNormal:
		return "Temperature(Normal)"
	case TemperatureWarning:
		return "Temperature(Warning)"
	case TemperatureOverheated:
		return "Temperature(Overheated)"
	default:
		return fmt.Sprintf("Temperature(%d)", int(t))
	}
}

// All returns one representative of every event variant.
// Short button presses are listed with a count of 1.
func All() []Event {
	result := []Event{
		Ready{},
		RpmLow, RpmHighIdle, RpmNormal,
		TemperatureNormal, TemperatureWarning, TemperatureOverheated,
	}
	for _, kind := range ButtonKinds {
		result = append(result, Button{Kind: kind, Count: 1})
	}
	return result
}
