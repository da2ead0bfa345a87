package controller

import (
	"fmt"
	"math"

	"github.com/markusressel/altreg/internal/util"
)

// RpmFactorTable maps engine speed to a field current scale factor.
// Entry i belongs to rpm min+i*step and holds min/rpm, so the field
// current halves whenever the engine speed doubles.
type RpmFactorTable struct {
	min     float64
	max     float64
	step    float64
	factors []float64
}

type RpmFactorEntry struct {
	Rpm    float64
	Factor float64
}

func NewRpmFactorTable(min float64, max float64, step float64) (*RpmFactorTable, error) {
	if min <= 0 || math.IsNaN(min) {
		return nil, fmt.Errorf("rpm table: min must be positive, got %v", min)
	}
	if max <= min {
		return nil, fmt.Errorf("rpm table: max (%v) must be greater than min (%v)", max, min)
	}
	if step <= 0 {
		return nil, fmt.Errorf("rpm table: step must be positive, got %v", step)
	}

	count := int(math.Floor((max-min)/step)) + 1
	factors := make([]float64, count)
	for i := range factors {
		rpm := min + float64(i)*step
		factors[i] = min / rpm
	}

	return &RpmFactorTable{
		min:     min,
		max:     max,
		step:    step,
		factors: factors,
	}, nil
}

// Factor returns the interpolated factor for rpm. Values outside the
// table range are clamped to the first/last entry; NaN uses the first.
func (t *RpmFactorTable) Factor(rpm float64) float64 {
	if math.IsNaN(rpm) {
		return t.factors[0]
	}
	index := (rpm - t.min) / t.step
	return util.InterpolateTable(t.factors, index)
}

func (t *RpmFactorTable) Len() int {
	return len(t.factors)
}

func (t *RpmFactorTable) Entries() []RpmFactorEntry {
	result := make([]RpmFactorEntry, len(t.factors))
	for i, factor := range t.factors {
		result[i] = RpmFactorEntry{
			Rpm:    t.min + float64(i)*t.step,
			Factor: factor,
		}
	}
	return result
}
