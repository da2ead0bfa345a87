package store

import "sync/atomic"

type BoolCell struct {
	v atomic.Bool
}

func (c *BoolCell) Load() bool {
	return c.v.Load()
}

func (c *BoolCell) Store(value bool) {
	c.v.Store(value)
}
