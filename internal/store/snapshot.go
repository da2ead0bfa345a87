package store

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Reading is a measured value that encodes to JSON null while it was never sampled.
type Reading float64

func (r Reading) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(r)) || math.IsInf(float64(r), 0) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r))
}

// Snapshot is a point-in-time copy of the store. Cells are read one by one,
// so values of different fields may stem from different update cycles.
type Snapshot struct {
	Time time.Time `json:"time"`
	Mode string    `json:"mode"`

	Rpm            Reading `json:"rpm"`
	TargetFactor   Reading `json:"targetFactor"`
	FieldCurrent   Reading `json:"fieldCurrent"`
	FieldVoltage   Reading `json:"fieldVoltage"`
	BatCurrent     Reading `json:"batCurrent"`
	BatSoc         Reading `json:"batSoc"`
	BatVoltage     Reading `json:"batVoltage"`
	InputVoltage   Reading `json:"inputVoltage"`
	Temperature    Reading `json:"temperature"`
	PpsTemperature Reading `json:"ppsTemperature"`
	PpsMode        string  `json:"ppsMode"`
	BleRate        Reading `json:"bleRate"`

	FieldCurrentLimit Reading `json:"fieldCurrentLimit"`
	FieldVoltageLimit Reading `json:"fieldVoltageLimit"`
	PpsEnabled        string  `json:"ppsEnabled"`
	Contactor         bool    `json:"contactor"`
}

var header = []string{
	"time",
	"mode",
	"rpm",
	"target",
	"field current",
	"field voltage",
	"bat current",
	"bat soc",
	"bat voltage",
	"input voltage",
	"temperature",
	"pps temperature",
	"pps mode",
	"ble rate",
	"field current limit",
	"field voltage limit",
	"pps enabled",
	"contactor",
}

// Header returns the column names matching Snapshot.Line.
func Header() string {
	return strings.Join(header, ";")
}

func (s *Store) Snapshot(now time.Time) Snapshot {
	t := s.Telemetry
	sp := s.Setpoint
	return Snapshot{
		Time:              now,
		Mode:              s.Mode.Get(),
		Rpm:               Reading(t.Rpm.Load()),
		TargetFactor:      Reading(t.TargetFactor.Load()),
		FieldCurrent:      Reading(t.FieldCurrent.Load()),
		FieldVoltage:      Reading(t.FieldVoltage.Load()),
		BatCurrent:        Reading(t.BatCurrent.Load()),
		BatSoc:            Reading(t.BatSoc.Load()),
		BatVoltage:        Reading(t.BatVoltage.Load()),
		InputVoltage:      Reading(t.InputVoltage.Load()),
		Temperature:       Reading(t.Temperature.Load()),
		PpsTemperature:    Reading(t.PpsTemperature.Load()),
		PpsMode:           t.PpsMode.Load().String(),
		BleRate:           Reading(t.BleRate.Load()),
		FieldCurrentLimit: Reading(sp.FieldCurrentLimit.Load()),
		FieldVoltageLimit: Reading(sp.FieldVoltageLimit.Load()),
		PpsEnabled:        sp.Enable.Load().String(),
		Contactor:         sp.Contactor.Load(),
	}
}

// Line renders the snapshot as one semicolon delimited record.
func (s Snapshot) Line() string {
	values := []string{
		fmt.Sprintf("%d", s.Time.UnixMilli()),
		s.Mode,
		fmt.Sprintf("%.0f", s.Rpm),
		fmt.Sprintf("%.2f", s.TargetFactor),
		fmt.Sprintf("%.2f", s.FieldCurrent),
		fmt.Sprintf("%.2f", s.FieldVoltage),
		fmt.Sprintf("%.2f", s.BatCurrent),
		fmt.Sprintf("%.1f", s.BatSoc),
		fmt.Sprintf("%.2f", s.BatVoltage),
		fmt.Sprintf("%.2f", s.InputVoltage),
		fmt.Sprintf("%.1f", s.Temperature),
		fmt.Sprintf("%.1f", s.PpsTemperature),
		s.PpsMode,
		fmt.Sprintf("%.2f", s.BleRate),
		fmt.Sprintf("%.2f", s.FieldCurrentLimit),
		fmt.Sprintf("%.2f", s.FieldVoltageLimit),
		s.PpsEnabled,
		fmt.Sprintf("%t", s.Contactor),
	}
	return strings.Join(values, ";")
}

// Values returns the snapshot as field name to printable value pairs, keyed by the Header columns.
func (s Snapshot) Values() map[string]string {
	fields := strings.Split(s.Line(), ";")
	result := make(map[string]string, len(header))
	for i, name := range header {
		result[name] = fields[i]
	}
	return result
}
