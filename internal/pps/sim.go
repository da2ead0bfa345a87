package pps

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/markusressel/altreg/internal/store"
)

// SimTransport emulates a single power module driving a resistive field winding.
type SimTransport struct {
	mu sync.Mutex

	address        uint16
	moduleId       uint16
	loadResistance float32

	enabled      bool
	setVoltage   float32
	setCurrent   float32
	temperature  float32
	inputVoltage float32
	runningMode  *byte

	fault  Code
	delay  time.Duration
	writes [][]byte
}

func NewSimTransport(address uint16) *SimTransport {
	return &SimTransport{
		address:        address,
		moduleId:       0x1a2b,
		loadResistance: 4.0,
		temperature:    35,
		inputVoltage:   14.2,
	}
}

// SetFault makes every following transaction fail with code. OK clears the fault.
func (s *SimTransport) SetFault(code Code) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == OK {
		code = ""
	}
	s.fault = code
}

// SetDelay makes every following transaction block for d, regardless of its context.
func (s *SimTransport) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// SetRawRunningMode overrides the byte reported by the running mode register.
func (s *SimTransport) SetRawRunningMode(value byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runningMode = &value
}

func (s *SimTransport) SetTemperature(value float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temperature = value
}

func (s *SimTransport) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *SimTransport) Limits() (voltage float32, current float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setVoltage, s.setCurrent
}

// Writes returns all write-only transactions received so far.
func (s *SimTransport) Writes() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([][]byte, len(s.writes))
	copy(result, s.writes)
	return result
}

func (s *SimTransport) Tx(ctx context.Context, addr uint16, w []byte, r []byte) error {
	if err := ctx.Err(); err != nil {
		return newError(Timeout, "tx", registerOf(w), err)
	}

	s.mu.Lock()
	delay := s.delay
	s.mu.Unlock()

	// a hung bus does not honor cancellation
	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(w) == 0 {
		return newError(Bus, "tx", 0, errors.New("empty transaction"))
	}
	register := Register(w[0])
	if s.fault != "" {
		return newError(s.fault, "tx", register, nil)
	}
	if addr != s.address {
		return newError(Nack, "tx", register, errors.New("no device at address"))
	}

	if len(w) > 1 {
		s.writes = append(s.writes, append([]byte(nil), w...))
		s.write(register, w[1:])
	}
	if len(r) > 0 {
		copy(r, s.read(register))
	}
	return nil
}

func (s *SimTransport) Close() error {
	return nil
}

func (s *SimTransport) write(register Register, payload []byte) {
	switch register {
	case RegisterEnable:
		s.enabled = payload[0] != 0
	case RegisterSetVoltage:
		if len(payload) == 4 {
			s.setVoltage = decodeFloat(payload)
		}
	case RegisterSetCurrent:
		if len(payload) == 4 {
			s.setCurrent = decodeFloat(payload)
		}
	}
}

func (s *SimTransport) read(register Register) []byte {
	current, voltage, mode := s.output()
	switch register {
	case RegisterModuleId:
		return []byte{byte(s.moduleId), byte(s.moduleId >> 8)}
	case RegisterRunningMode:
		if s.runningMode != nil {
			return []byte{*s.runningMode}
		}
		return []byte{byte(mode)}
	case RegisterDataFlag:
		return []byte{1}
	case RegisterReadbackVoltage:
		return floatBytes(voltage)
	case RegisterReadbackCurrent:
		return floatBytes(current)
	case RegisterTemperature:
		return floatBytes(s.temperature)
	case RegisterInputVoltage:
		return floatBytes(s.inputVoltage)
	case RegisterAddress:
		return []byte{byte(s.address)}
	default:
		return make([]byte, 4)
	}
}

// output derives the readbacks from the limits: the module regulates
// whichever limit is reached first on the load.
func (s *SimTransport) output() (current float32, voltage float32, mode store.RunningMode) {
	if !s.enabled {
		return 0, 0, store.RunningModeOff
	}
	current = float32(math.Min(float64(s.setCurrent), float64(s.setVoltage/s.loadResistance)))
	voltage = current * s.loadResistance
	if current < s.setCurrent {
		return current, voltage, store.RunningModeVoltage
	}
	return current, voltage, store.RunningModeCurrent
}

func floatBytes(value float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(value))
	return buf
}
