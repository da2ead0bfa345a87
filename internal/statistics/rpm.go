package statistics

import (
	"github.com/markusressel/altreg/internal/rpm"
	"github.com/prometheus/client_golang/prometheus"
)

const rpmSubsystem = "rpm"

type RpmCollector struct {
	monitor *rpm.Monitor

	average *prometheus.Desc
}

func NewRpmCollector(monitor *rpm.Monitor) *RpmCollector {
	return &RpmCollector{
		monitor: monitor,
		average: prometheus.NewDesc(prometheus.BuildFQName(namespace, rpmSubsystem, "average"),
			"Average engine speed over the most recent samples",
			[]string{}, nil,
		),
	}
}

func (collector *RpmCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.average
}

// Collect implements required collect function for all prometheus collectors
func (collector *RpmCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.average, prometheus.GaugeValue, collector.monitor.Average())
}
