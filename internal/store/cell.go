package store

import (
	"math"
	"sync/atomic"
)

// Cell is a lock-free float64 value. The zero value holds 0.
type Cell struct {
	bits atomic.Uint64
}

func NewCell(value float64) *Cell {
	c := &Cell{}
	c.Store(value)
	return c
}

func (c *Cell) Load() float64 {
	return math.Float64frombits(c.bits.Load())
}

func (c *Cell) Store(value float64) {
	c.bits.Store(math.Float64bits(value))
}

// Swap stores value and returns the previous one.
func (c *Cell) Swap(value float64) float64 {
	return math.Float64frombits(c.bits.Swap(math.Float64bits(value)))
}
