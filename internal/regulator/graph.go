package regulator

import (
	"errors"
	"fmt"

	"github.com/looplab/tarjan"
	"github.com/markusressel/altreg/internal/events"
)

// Edge is a possible transition between two states.
type Edge struct {
	From  State
	To    State
	Event events.Event
	// RpmNormal is the environment the edge was found under
	RpmNormal bool
}

// Graph enumerates every transition reachable by any event in any environment.
func Graph() []Edge {
	var result []Edge
	for _, state := range States {
		for _, event := range events.All() {
			for _, rpmNormal := range []bool{false, true} {
				outcome := Transition(state, event, Env{RpmNormal: rpmNormal})
				if !outcome.Transition {
					continue
				}
				result = append(result, Edge{
					From:      state,
					To:        outcome.Next,
					Event:     event,
					RpmNormal: rpmNormal,
				})
			}
		}
	}
	return result
}

// ValidateGraph checks that Off, Idle and Charging can all reach each other
// and that Startup is only ever left towards Off and never re-entered.
func ValidateGraph() error {
	edges := Graph()

	graph := map[interface{}][]interface{}{}
	for _, state := range States {
		graph[state] = []interface{}{}
	}
	for _, edge := range edges {
		if edge.To == Startup {
			return fmt.Errorf("%s re-enters %s on %s", edge.From, Startup, edge.Event)
		}
		if edge.From == Startup && edge.To != Off {
			return fmt.Errorf("%s leaves towards %s on %s", Startup, edge.To, edge.Event)
		}
		graph[edge.From] = append(graph[edge.From], edge.To)
	}

	if len(graph[Startup]) == 0 {
		return errors.New("startup state can never be left")
	}

	for _, component := range tarjan.Connections(graph) {
		if containsState(component, Off) {
			for _, state := range []State{Idle, Charging} {
				if !containsState(component, state) {
					return fmt.Errorf("%s and %s are not mutually reachable", Off, state)
				}
			}
			return nil
		}
	}
	return errors.New("off state is not part of the transition graph")
}

func containsState(component []interface{}, state State) bool {
	for _, item := range component {
		if item == state {
			return true
		}
	}
	return false
}
