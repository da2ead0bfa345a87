package rpm

import (
	"math"
	"time"

	"github.com/markusressel/altreg/internal/util"
)

// PulseFileSource derives the engine speed from a monotonically increasing
// alternator pulse counter exposed as a file (e.g. a sysfs counter).
type PulseFileSource struct {
	path        string
	period      time.Duration
	polePairs   int
	pulleyRatio float64

	last    int
	hasLast bool
}

// NewPulseFileSource creates a source that is read once per period.
// pulleyRatio is the alternator pulley diameter divided by the crank pulley diameter.
func NewPulseFileSource(path string, period time.Duration, polePairs int, pulleyRatio float64) *PulseFileSource {
	return &PulseFileSource{
		path:        path,
		period:      period,
		polePairs:   polePairs,
		pulleyRatio: pulleyRatio,
	}
}

func (s *PulseFileSource) Read() (float64, error) {
	count, err := util.ReadIntFromFile(s.path)
	if err != nil {
		return math.NaN(), err
	}

	previous, hadPrevious := s.last, s.hasLast
	s.last, s.hasLast = count, true
	if !hadPrevious {
		return math.NaN(), nil
	}
	if count < previous {
		// counter wrapped or was reset
		return 0, nil
	}

	return PulsesToRpm(count-previous, s.period, s.polePairs, s.pulleyRatio), nil
}

// PulsesToRpm converts the number of stator pulses counted during period
// into crankshaft revolutions per minute.
func PulsesToRpm(pulses int, period time.Duration, polePairs int, pulleyRatio float64) float64 {
	if period <= 0 || polePairs <= 0 {
		return math.NaN()
	}
	alternatorRpm := float64(pulses) * 60 / float64(2*polePairs) * (float64(time.Second) / float64(period))
	return alternatorRpm * pulleyRatio
}
