package store

import (
	"math"

	"github.com/markusressel/altreg/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// Field names a numeric cell of the store.
type Field string

const (
	FieldRpm               Field = "rpm"
	FieldTemperature       Field = "temperature"
	FieldBatCurrent        Field = "bat_current"
	FieldBatVoltage        Field = "bat_voltage"
	FieldBatSoc            Field = "bat_soc"
	FieldBleRate           Field = "ble_rate"
	FieldInputVoltage      Field = "input_voltage"
	FieldFieldVoltage      Field = "field_voltage"
	FieldFieldCurrent      Field = "field_current"
	FieldPpsTemperature    Field = "pps_temperature"
	FieldTargetFactor      Field = "target_factor"
	FieldFieldCurrentLimit Field = "field_current_limit"
	FieldFieldVoltageLimit Field = "field_voltage_limit"
)

// Store bundles the telemetry, the setpoints and the mode cell shared by all tasks.
type Store struct {
	Telemetry *Telemetry
	Setpoint  *Setpoint
	Mode      *ModeCell

	cells cmap.ConcurrentMap[string, *Cell]
}

func New() *Store {
	s := &Store{
		Telemetry: NewTelemetry(),
		Setpoint:  NewSetpoint(),
		Mode:      &ModeCell{},
		cells:     cmap.New[*Cell](),
	}

	t := s.Telemetry
	for field, cell := range map[Field]*Cell{
		FieldRpm:               t.Rpm,
		FieldTemperature:       t.Temperature,
		FieldBatCurrent:        t.BatCurrent,
		FieldBatVoltage:        t.BatVoltage,
		FieldBatSoc:            t.BatSoc,
		FieldBleRate:           t.BleRate,
		FieldInputVoltage:      t.InputVoltage,
		FieldFieldVoltage:      t.FieldVoltage,
		FieldFieldCurrent:      t.FieldCurrent,
		FieldPpsTemperature:    t.PpsTemperature,
		FieldTargetFactor:      t.TargetFactor,
		FieldFieldCurrentLimit: s.Setpoint.FieldCurrentLimit,
		FieldFieldVoltageLimit: s.Setpoint.FieldVoltageLimit,
	} {
		s.cells.Set(string(field), cell)
	}

	return s
}

// Read returns the current value of field, NaN for unknown fields.
func (s *Store) Read(field Field) float64 {
	cell, ok := s.cells.Get(string(field))
	if !ok {
		return math.NaN()
	}
	return cell.Load()
}

// Write stores value into field. Writes to unknown fields are ignored.
func (s *Store) Write(field Field, value float64) {
	cell, ok := s.cells.Get(string(field))
	if !ok {
		return
	}
	cell.Store(value)
}

// Has reports whether field names a numeric cell.
func (s *Store) Has(field Field) bool {
	return s.cells.Has(string(field))
}

// Fields returns all known field names in sorted order.
func (s *Store) Fields() []Field {
	values := s.cells.Items()
	var result []Field
	for _, key := range util.SortedKeys(values) {
		result = append(result, Field(key))
	}
	return result
}
