package pps

import "context"

// Transport performs register transactions on the bus the module is attached to.
type Transport interface {
	// Tx writes w to the device at addr and then, if r is not empty,
	// reads len(r) bytes into r.
	Tx(ctx context.Context, addr uint16, w []byte, r []byte) error
	Close() error
}

func registerOf(w []byte) Register {
	if len(w) == 0 {
		return 0
	}
	return Register(w[0])
}
