package pps

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/markusressel/altreg/internal/store"
)

// DefaultAddress is the factory bus address of the power module.
const DefaultAddress = 0x35

// Register is a register address of the power module.
type Register uint8

const (
	RegisterModuleId        Register = 0x00
	RegisterEnable          Register = 0x04
	RegisterRunningMode     Register = 0x05
	RegisterDataFlag        Register = 0x07
	RegisterReadbackVoltage Register = 0x08
	RegisterReadbackCurrent Register = 0x0c
	RegisterTemperature     Register = 0x10
	RegisterInputVoltage    Register = 0x14
	RegisterSetVoltage      Register = 0x18
	RegisterSetCurrent      Register = 0x1c
	RegisterAddress         Register = 0x50
	RegisterUidW0           Register = 0x52
	RegisterUidW1           Register = 0x56
	RegisterUidW2           Register = 0x5a
)

func (r Register) String() string {
	return fmt.Sprintf("0x%02x", uint8(r))
}

// ReadCommand is a register read with a fixed response length.
type ReadCommand int

const (
	ReadModuleId ReadCommand = iota
	ReadRunningMode
	ReadDataFlag
	ReadReadbackVoltage
	ReadReadbackCurrent
	ReadTemperature
	ReadInputVoltage
	ReadAddress
	ReadUidW0
	ReadUidW1
	ReadUidW2
)

var ReadCommands = []ReadCommand{
	ReadModuleId, ReadRunningMode, ReadDataFlag, ReadReadbackVoltage, ReadReadbackCurrent,
	ReadTemperature, ReadInputVoltage, ReadAddress, ReadUidW0, ReadUidW1, ReadUidW2,
}

var readCommandLayout = map[ReadCommand]struct {
	name     string
	register Register
	length   int
}{
	ReadModuleId:        {"module_id", RegisterModuleId, 2},
	ReadRunningMode:     {"running_mode", RegisterRunningMode, 1},
	ReadDataFlag:        {"data_flag", RegisterDataFlag, 1},
	ReadReadbackVoltage: {"voltage", RegisterReadbackVoltage, 4},
	ReadReadbackCurrent: {"current", RegisterReadbackCurrent, 4},
	ReadTemperature:     {"temperature", RegisterTemperature, 4},
	ReadInputVoltage:    {"input_voltage", RegisterInputVoltage, 4},
	ReadAddress:         {"address", RegisterAddress, 1},
	ReadUidW0:           {"uid_w0", RegisterUidW0, 4},
	ReadUidW1:           {"uid_w1", RegisterUidW1, 4},
	ReadUidW2:           {"uid_w2", RegisterUidW2, 4},
}

func (c ReadCommand) String() string {
	if layout, ok := readCommandLayout[c]; ok {
		return layout.name
	}
	return fmt.Sprintf("ReadCommand(%d)", int(c))
}

// ParseReadCommand resolves a ReadCommand by its name.
func ParseReadCommand(name string) (ReadCommand, error) {
	for _, command := range ReadCommands {
		if command.String() == name {
			return command, nil
		}
	}
	return 0, fmt.Errorf("unknown register: %s", name)
}

func (c ReadCommand) Register() Register {
	return readCommandLayout[c].register
}

// ResponseLength is the number of bytes the module answers with.
func (c ReadCommand) ResponseLength() int {
	return readCommandLayout[c].length
}

// Request returns the bytes to write before reading the response.
func (c ReadCommand) Request() []byte {
	return []byte{byte(c.Register())}
}

// Decode parses the response buf of this command.
func (c ReadCommand) Decode(buf []byte) (ReadResult, error) {
	layout, ok := readCommandLayout[c]
	if !ok {
		return nil, newError(Unsupported, "decode", 0, fmt.Errorf("unknown command %d", int(c)))
	}
	if len(buf) != layout.length {
		return nil, newError(ResultInvalid, "decode", layout.register,
			fmt.Errorf("expected %d bytes, got %d", layout.length, len(buf)))
	}

	switch c {
	case ReadModuleId:
		return ModuleId(uint16(buf[1])<<8 | uint16(buf[0])), nil
	case ReadRunningMode:
		mode := store.RunningMode(buf[0])
		if mode > store.RunningModeUnknown {
			return nil, newError(Decode, "decode", layout.register, fmt.Errorf("invalid running mode %d", buf[0]))
		}
		return RunningMode(mode), nil
	case ReadReadbackVoltage:
		return Voltage(decodeFloat(buf)), nil
	case ReadReadbackCurrent:
		return Current(decodeFloat(buf)), nil
	case ReadTemperature:
		return Temperature(decodeFloat(buf)), nil
	case ReadInputVoltage:
		return InputVoltage(decodeFloat(buf)), nil
	default:
		return nil, newError(Unsupported, "decode", layout.register, nil)
	}
}

// ReadResult is the typed value of a decoded register.
type ReadResult interface {
	fmt.Stringer
	isReadResult()
}

type ModuleId uint16

type RunningMode store.RunningMode

type Voltage float32

type Current float32

type Temperature float32

type InputVoltage float32

func (ModuleId) isReadResult()     {}
func (RunningMode) isReadResult()  {}
func (Voltage) isReadResult()      {}
func (Current) isReadResult()      {}
func (Temperature) isReadResult()  {}
func (InputVoltage) isReadResult() {}

func (v ModuleId) String() string     { return fmt.Sprintf("%d", uint16(v)) }
func (v RunningMode) String() string  { return store.RunningMode(v).String() }
func (v Voltage) String() string      { return fmt.Sprintf("%.3f V", float32(v)) }
func (v Current) String() string      { return fmt.Sprintf("%.3f A", float32(v)) }
func (v Temperature) String() string  { return fmt.Sprintf("%.1f °C", float32(v)) }
func (v InputVoltage) String() string { return fmt.Sprintf("%.3f V", float32(v)) }

// WriteCommand is a register write.
type WriteCommand interface {
	Register() Register
	// Encode returns the register address followed by the payload.
	Encode() []byte
}

type ModuleEnable bool

type SetVoltage float32

type SetCurrent float32

func (ModuleEnable) Register() Register { return RegisterEnable }
func (SetVoltage) Register() Register   { return RegisterSetVoltage }
func (SetCurrent) Register() Register   { return RegisterSetCurrent }

func (c ModuleEnable) Encode() []byte {
	if c {
		return []byte{byte(RegisterEnable), 1}
	}
	return []byte{byte(RegisterEnable), 0}
}

func (c SetVoltage) Encode() []byte {
	return encodeFloat(RegisterSetVoltage, float32(c))
}

func (c SetCurrent) Encode() []byte {
	return encodeFloat(RegisterSetCurrent, float32(c))
}

func encodeFloat(register Register, value float32) []byte {
	buf := make([]byte, 5)
	buf[0] = byte(register)
	binary.LittleEndian.PutUint32(buf[1:], math.Float32bits(value))
	return buf
}

func decodeFloat(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf))
}
