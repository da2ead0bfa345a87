package pps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

const (
	i2cSlave   = 0x0703
	i2cTimeout = 0x0702
)

// I2cTransport talks to devices on a Linux i2c-dev character device.
type I2cTransport struct {
	mu   sync.Mutex
	file *os.File
	fd   int
	addr int
}

// NewI2cTransport opens the bus device (e.g. /dev/i2c-0). busTimeout
// is handed to the kernel adapter, which works in units of 10ms.
func NewI2cTransport(path string, busTimeout time.Duration) (*I2cTransport, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %s: %w", path, err)
	}

	fd := int(file.Fd())
	if busTimeout > 0 {
		ticks := int(busTimeout / (10 * time.Millisecond))
		if ticks < 1 {
			ticks = 1
		}
		if err := unix.IoctlSetInt(fd, i2cTimeout, ticks); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to set i2c timeout: %w", err)
		}
	}

	return &I2cTransport{
		file: file,
		fd:   fd,
		addr: -1,
	}, nil
}

func (t *I2cTransport) Tx(ctx context.Context, addr uint16, w []byte, r []byte) error {
	if err := ctx.Err(); err != nil {
		return newError(Timeout, "tx", registerOf(w), err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.addr != int(addr) {
		if err := unix.IoctlSetInt(t.fd, i2cSlave, int(addr)); err != nil {
			return newError(Bus, "select", registerOf(w), err)
		}
		t.addr = int(addr)
	}

	if len(w) > 0 {
		if _, err := unix.Write(t.fd, w); err != nil {
			return mapErrno("write", registerOf(w), err)
		}
	}
	if len(r) > 0 {
		n, err := unix.Read(t.fd, r)
		if err != nil {
			return mapErrno("read", registerOf(w), err)
		}
		if n != len(r) {
			return newError(ResultInvalid, "read", registerOf(w), fmt.Errorf("short read: %d of %d bytes", n, len(r)))
		}
	}

	if ctx.Err() != nil {
		return newError(Timeout, "tx", registerOf(w), ctx.Err())
	}
	return nil
}

func (t *I2cTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}

func mapErrno(op string, register Register, err error) error {
	switch {
	case errors.Is(err, unix.ENXIO), errors.Is(err, unix.EREMOTEIO), errors.Is(err, unix.EIO):
		return newError(Nack, op, register, err)
	case errors.Is(err, unix.ETIMEDOUT):
		return newError(Timeout, op, register, err)
	default:
		return newError(Bus, op, register, err)
	}
}
