package rpm

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/brutella/can"
	"github.com/markusressel/altreg/internal/ui"
)

// DefaultCanStaleAfter is the time without a matching frame after which the value is dropped.
const DefaultCanStaleAfter = 2 * time.Second

// CanSource reads the engine speed broadcast by the engine ECU on a CAN bus.
// The speed is a big-endian uint16 at offset within the frame with id, multiplied by scale.
type CanSource struct {
	bus        *can.Bus
	id         uint32
	offset     int
	scale      float64
	staleAfter time.Duration

	mu        sync.RWMutex
	value     float64
	lastFrame time.Time
}

func NewCanSource(device string, id uint32, offset int, scale float64) (*CanSource, error) {
	bus, err := can.NewBusForInterfaceWithName(device)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize CAN bus %s: %w", device, err)
	}
	s := newCanSource(id, offset, scale)
	s.bus = bus
	bus.Subscribe(s)
	return s, nil
}

func newCanSource(id uint32, offset int, scale float64) *CanSource {
	return &CanSource{
		id:         id,
		offset:     offset,
		scale:      scale,
		staleAfter: DefaultCanStaleAfter,
		value:      math.NaN(),
	}
}

// Handle implements can.Handler
func (s *CanSource) Handle(frame can.Frame) {
	if frame.ID != s.id {
		return
	}
	if int(frame.Length) < s.offset+2 {
		ui.Debug("CAN frame 0x%x too short for rpm at offset %d", frame.ID, s.offset)
		return
	}

	raw := binary.BigEndian.Uint16(frame.Data[s.offset : s.offset+2])

	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = float64(raw) * s.scale
	s.lastFrame = time.Now()
}

func (s *CanSource) Read() (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastFrame.IsZero() {
		return math.NaN(), nil
	}
	if time.Since(s.lastFrame) > s.staleAfter {
		return math.NaN(), errors.New("no rpm frame received within " + s.staleAfter.String())
	}
	return s.value, nil
}

// Run receives frames until ctx is done.
func (s *CanSource) Run(ctx context.Context) error {
	if s.bus == nil {
		<-ctx.Done()
		return nil
	}

	result := make(chan error, 1)
	go func() {
		result <- s.bus.ConnectAndPublish()
	}()

	select {
	case <-ctx.Done():
		return s.bus.Disconnect()
	case err := <-result:
		return err
	}
}
