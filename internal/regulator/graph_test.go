package regulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGraph(t *testing.T) {
	assert.NoError(t, ValidateGraph())
}

func TestGraph_Edges(t *testing.T) {
	// WHEN
	edges := Graph()

	// THEN
	reachable := map[State]map[State]bool{}
	for _, edge := range edges {
		if reachable[edge.From] == nil {
			reachable[edge.From] = map[State]bool{}
		}
		reachable[edge.From][edge.To] = true
	}
	assert.Equal(t, map[State]bool{Off: true}, reachable[Startup])
	assert.Equal(t, map[State]bool{Idle: true, Charging: true}, reachable[Off])
	assert.Equal(t, map[State]bool{Charging: true}, reachable[Idle])
	assert.Equal(t, map[State]bool{Idle: true, Off: true}, reachable[Charging])
}
