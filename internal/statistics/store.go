package statistics

import (
	"github.com/markusressel/altreg/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

const storeSubsystem = "store"

type StoreCollector struct {
	store *store.Store

	value       *prometheus.Desc
	ppsMode     *prometheus.Desc
	ppsEnable   *prometheus.Desc
	contactor   *prometheus.Desc
	modeDisplay *prometheus.Desc
}

func NewStoreCollector(s *store.Store) *StoreCollector {
	return &StoreCollector{
		store: s,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, storeSubsystem, "value"),
			"Current value of a telemetry or setpoint field, NaN if never sampled",
			[]string{"field"}, nil,
		),
		ppsMode: prometheus.NewDesc(prometheus.BuildFQName(namespace, storeSubsystem, "pps_running_mode"),
			"Running mode reported by the power module (0 off, 1 voltage, 2 current, 3 unknown)",
			[]string{}, nil,
		),
		ppsEnable: prometheus.NewDesc(prometheus.BuildFQName(namespace, storeSubsystem, "pps_enable_command"),
			"Pending enable command for the power module (0 off, 1 on, 2 don't touch)",
			[]string{}, nil,
		),
		contactor: prometheus.NewDesc(prometheus.BuildFQName(namespace, storeSubsystem, "contactor"),
			"Commanded contactor state",
			[]string{}, nil,
		),
		modeDisplay: prometheus.NewDesc(prometheus.BuildFQName(namespace, storeSubsystem, "mode_info"),
			"Text currently held by the mode cell",
			[]string{"mode"}, nil,
		),
	}
}

func (collector *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
	ch <- collector.ppsMode
	ch <- collector.ppsEnable
	ch <- collector.contactor
	ch <- collector.modeDisplay
}

// Collect implements required collect function for all prometheus collectors
func (collector *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	s := collector.store
	for _, field := range s.Fields() {
		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, s.Read(field), string(field))
	}
	ch <- prometheus.MustNewConstMetric(collector.ppsMode, prometheus.GaugeValue, float64(s.Telemetry.PpsMode.Load()))
	ch <- prometheus.MustNewConstMetric(collector.ppsEnable, prometheus.GaugeValue, float64(s.Setpoint.Enable.Load()))
	ch <- prometheus.MustNewConstMetric(collector.contactor, prometheus.GaugeValue, boolToFloat(s.Setpoint.Contactor.Load()))
	ch <- prometheus.MustNewConstMetric(collector.modeDisplay, prometheus.GaugeValue, 1, s.Mode.Get())
}

func boolToFloat(value bool) float64 {
	if value {
		return 1
	}
	return 0
}
