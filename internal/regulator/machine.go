package regulator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/markusressel/altreg/internal/events"
	"github.com/markusressel/altreg/internal/store"
	"github.com/markusressel/altreg/internal/ui"
)

// Actions are the controller commands run by the machine.
type Actions interface {
	StartIdle()
	StartCharging()
	Stop()
	AdjustTargetFactor(delta float64)
}

// Stats counts the events processed by a Machine.
type Stats struct {
	Transitions uint64 `json:"transitions"`
	Absorbed    uint64 `json:"absorbed"`
	Handled     uint64 `json:"handled"`
}

// Machine is the regulator state machine. It is the only consumer of the event bus.
type Machine struct {
	actions   Actions
	mode      *store.ModeCell
	rpmNormal func() bool
	step      float64

	mu    sync.RWMutex
	state State

	transitions atomic.Uint64
	absorbed    atomic.Uint64
	handled     atomic.Uint64
}

// NewMachine creates a machine in the Startup state. rpmNormal is
// consulted when leaving Off to decide between Idle and Charging.
func NewMachine(actions Actions, mode *store.ModeCell, rpmNormal func() bool, targetStep float64) *Machine {
	m := &Machine{
		actions:   actions,
		mode:      mode,
		rpmNormal: rpmNormal,
		step:      targetStep,
		state:     Startup,
	}
	mode.Set(Startup.String())
	return m
}

func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Machine) Stats() Stats {
	return Stats{
		Transitions: m.transitions.Load(),
		Absorbed:    m.absorbed.Load(),
		Handled:     m.handled.Load(),
	}
}

// Handle feeds a single event to the machine and runs the resulting effects.
func (m *Machine) Handle(event events.Event) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	env := Env{
		RpmNormal:  m.rpmNormal(),
		TargetStep: m.step,
	}
	previous := m.state
	outcome := Transition(previous, event, env)

	for _, effect := range outcome.Effects {
		m.execute(effect)
	}

	switch {
	case outcome.Transition:
		m.state = outcome.Next
		m.mode.Set(outcome.Next.String())
		m.transitions.Add(1)
		ui.Info("Regulator: %s --%s--> %s", previous, event, outcome.Next)
	case len(outcome.Effects) > 0:
		m.handled.Add(1)
		ui.Debug("Regulator: %s handled %s", previous, event)
	default:
		m.absorbed.Add(1)
		ui.Debug("Regulator: %s absorbed %s", previous, event)
	}

	return outcome
}

func (m *Machine) execute(effect Effect) {
	switch e := effect.(type) {
	case StartIdle:
		m.actions.StartIdle()
	case StartCharging:
		m.actions.StartCharging()
	case Stop:
		m.actions.Stop()
	case AdjustTarget:
		m.actions.AdjustTargetFactor(e.Delta)
	}
}

// Run consumes events until ctx is done.
func (m *Machine) Run(ctx context.Context, receiver events.Receiver) error {
	for {
		event, err := receiver.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		m.Handle(event)
	}
}
