package regulator

import (
	"math"

	"github.com/markusressel/altreg/internal/events"
)

// Effect is a controller command issued by a transition.
type Effect interface {
	isEffect()
}

type StartIdle struct{}

type StartCharging struct{}

type Stop struct{}

type AdjustTarget struct {
	Delta float64
}

func (StartIdle) isEffect()     {}
func (StartCharging) isEffect() {}
func (Stop) isEffect()          {}
func (AdjustTarget) isEffect()  {}

// Env is the part of the outside world a transition may depend on.
type Env struct {
	// RpmNormal is true if the engine currently runs above the low rpm threshold
	RpmNormal bool
	// TargetStep is the target factor change per short button press
	TargetStep float64
}

// Outcome is the result of feeding one event to a state.
// If Transition is false the event was absorbed or handled in place
// and Next equals the current state.
type Outcome struct {
	Next       State
	Transition bool
	Effects    []Effect
}

// Transition is total over all states and events.
func Transition(state State, event events.Event, env Env) Outcome {
	switch state {
	case Startup:
		if _, ok := event.(events.Ready); ok {
			return enter(Off)
		}
	case Off:
		if button, ok := event.(events.Button); ok && button.Kind == events.OkLong {
			if env.RpmNormal {
				// the module is still disabled in Off
				return Outcome{
					Next:       Charging,
					Transition: true,
					Effects:    []Effect{StartIdle{}, StartCharging{}},
				}
			}
			return enter(Idle)
		}
	case Idle:
		if rpm, ok := event.(events.Rpm); ok && rpm == events.RpmNormal {
			return enter(Charging)
		}
	case Charging:
		switch e := event.(type) {
		case events.Rpm:
			if e == events.RpmLow {
				return enter(Idle)
			}
		case events.Button:
			switch e.Kind {
			case events.IncShort:
				return stay(state, AdjustTarget{Delta: targetDelta(env.TargetStep, e.Count)})
			case events.DecShort:
				return stay(state, AdjustTarget{Delta: -targetDelta(env.TargetStep, e.Count)})
			case events.OkShort, events.OkLong:
				return enter(Off)
			case events.DecLong:
				return enter(Idle)
			}
		}
	}
	return stay(state)
}

// entryEffects are the effects run whenever a state is entered.
func entryEffects(state State) []Effect {
	switch state {
	case Off:
		return []Effect{Stop{}}
	case Idle:
		return []Effect{StartIdle{}}
	case Charging:
		return []Effect{StartCharging{}}
	default:
		return nil
	}
}

func enter(next State) Outcome {
	return Outcome{
		Next:       next,
		Transition: true,
		Effects:    entryEffects(next),
	}
}

func stay(state State, effects ...Effect) Outcome {
	return Outcome{
		Next:    state,
		Effects: effects,
	}
}

// targetDelta is step*count, at most a full range change.
// A press without a count is treated as a single press.
func targetDelta(step float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	return math.Min(step*float64(count), 1)
}
