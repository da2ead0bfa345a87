package statistics

import (
	"github.com/markusressel/altreg/internal/pps"
	"github.com/prometheus/client_golang/prometheus"
)

const ppsSubsystem = "pps"

type PpsCollector struct {
	io *pps.IO

	errors      *prometheus.Desc
	timeouts    *prometheus.Desc
	cycles      *prometheus.Desc
	loopTimeMax *prometheus.Desc
}

func NewPpsCollector(io *pps.IO) *PpsCollector {
	return &PpsCollector{
		io: io,
		errors: prometheus.NewDesc(prometheus.BuildFQName(namespace, ppsSubsystem, "errors_total"),
			"Number of failed power module operations",
			[]string{"code"}, nil,
		),
		timeouts: prometheus.NewDesc(prometheus.BuildFQName(namespace, ppsSubsystem, "cycle_timeouts_total"),
			"Number of I/O cycles that exceeded their timeout",
			[]string{}, nil,
		),
		cycles: prometheus.NewDesc(prometheus.BuildFQName(namespace, ppsSubsystem, "cycles_total"),
			"Number of completed I/O cycles",
			[]string{}, nil,
		),
		loopTimeMax: prometheus.NewDesc(prometheus.BuildFQName(namespace, ppsSubsystem, "loop_time_max_seconds"),
			"Longest recent I/O cycle duration",
			[]string{}, nil,
		),
	}
}

func (collector *PpsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.errors
	ch <- collector.timeouts
	ch <- collector.cycles
	ch <- collector.loopTimeMax
}

// Collect implements required collect function for all prometheus collectors
func (collector *PpsCollector) Collect(ch chan<- prometheus.Metric) {
	for _, code := range pps.Codes {
		ch <- prometheus.MustNewConstMetric(collector.errors, prometheus.CounterValue, float64(collector.io.ErrorCount(code)), string(code))
	}
	ch <- prometheus.MustNewConstMetric(collector.timeouts, prometheus.CounterValue, float64(collector.io.Timeouts()))
	ch <- prometheus.MustNewConstMetric(collector.cycles, prometheus.CounterValue, float64(collector.io.Cycles()))
	ch <- prometheus.MustNewConstMetric(collector.loopTimeMax, prometheus.GaugeValue, collector.io.LoopTimeMax())
}
