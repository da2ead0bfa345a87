package pps

import (
	"context"
	"fmt"

	"github.com/markusressel/altreg/internal/store"
)

// Driver reads and writes the registers of one power module.
type Driver struct {
	transport Transport
	addr      uint16
}

// NewDriver binds to the module at addr. The module output is disabled
// before the driver is handed out, so a restart never leaves it energized.
func NewDriver(ctx context.Context, transport Transport, addr uint16) (*Driver, error) {
	d := &Driver{
		transport: transport,
		addr:      addr,
	}
	if err := d.Write(ctx, ModuleEnable(false)); err != nil {
		if CodeOf(err) == Nack {
			return nil, newError(ModuleNotFound, "init", RegisterEnable,
				fmt.Errorf("no power module at address 0x%02x: %w", addr, err))
		}
		return nil, err
	}
	return d, nil
}

func (d *Driver) Address() uint16 {
	return d.addr
}

// ReadRaw performs the transaction of command and returns the undecoded response.
func (d *Driver) ReadRaw(ctx context.Context, command ReadCommand) ([]byte, error) {
	buf := make([]byte, command.ResponseLength())
	if err := d.transport.Tx(ctx, d.addr, command.Request(), buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *Driver) Read(ctx context.Context, command ReadCommand) (ReadResult, error) {
	buf, err := d.ReadRaw(ctx, command)
	if err != nil {
		return nil, err
	}
	return command.Decode(buf)
}

func (d *Driver) Write(ctx context.Context, command WriteCommand) error {
	return d.transport.Tx(ctx, d.addr, command.Encode(), nil)
}

func (d *Driver) ModuleId(ctx context.Context) (uint16, error) {
	result, err := d.Read(ctx, ReadModuleId)
	if err != nil {
		return 0, err
	}
	return uint16(result.(ModuleId)), nil
}

func (d *Driver) RunningMode(ctx context.Context) (store.RunningMode, error) {
	result, err := d.Read(ctx, ReadRunningMode)
	if err != nil {
		return store.RunningModeUnknown, err
	}
	return store.RunningMode(result.(RunningMode)), nil
}

func (d *Driver) Voltage(ctx context.Context) (float64, error) {
	return d.readFloat(ctx, ReadReadbackVoltage)
}

func (d *Driver) Current(ctx context.Context) (float64, error) {
	return d.readFloat(ctx, ReadReadbackCurrent)
}

func (d *Driver) Temperature(ctx context.Context) (float64, error) {
	return d.readFloat(ctx, ReadTemperature)
}

func (d *Driver) InputVoltage(ctx context.Context) (float64, error) {
	return d.readFloat(ctx, ReadInputVoltage)
}

func (d *Driver) readFloat(ctx context.Context, command ReadCommand) (float64, error) {
	result, err := d.Read(ctx, command)
	if err != nil {
		return 0, err
	}
	switch v := result.(type) {
	case Voltage:
		return float64(v), nil
	case Current:
		return float64(v), nil
	case Temperature:
		return float64(v), nil
	case InputVoltage:
		return float64(v), nil
	default:
		return 0, newError(Unsupported, "read", command.Register(), fmt.Errorf("%s is not an analog value", command))
	}
}

func (d *Driver) Enable(ctx context.Context, enabled bool) error {
	return d.Write(ctx, ModuleEnable(enabled))
}

func (d *Driver) SetVoltage(ctx context.Context, volts float64) error {
	return d.Write(ctx, SetVoltage(float32(volts)))
}

func (d *Driver) SetCurrent(ctx context.Context, amps float64) error {
	return d.Write(ctx, SetCurrent(float32(amps)))
}
