//go:build !linux

package pps

import (
	"context"
	"errors"
	"time"
)

// I2cTransport is only available on Linux.
type I2cTransport struct{}

func NewI2cTransport(path string, busTimeout time.Duration) (*I2cTransport, error) {
	return nil, newError(Unsupported, "open", 0, errors.New("i2c-dev requires linux"))
}

func (t *I2cTransport) Tx(ctx context.Context, addr uint16, w []byte, r []byte) error {
	return newError(Unsupported, "tx", 0, nil)
}

func (t *I2cTransport) Close() error {
	return nil
}
