package statistics

import (
	"github.com/markusressel/altreg/internal/controller"
	"github.com/markusressel/altreg/internal/events"
	"github.com/markusressel/altreg/internal/regulator"
	"github.com/prometheus/client_golang/prometheus"
)

const regulatorSubsystem = "regulator"

type RegulatorCollector struct {
	machine    *regulator.Machine
	controller *controller.Controller
	bus        *events.Bus

	state          *prometheus.Desc
	transitions    *prometheus.Desc
	absorbed       *prometheus.Desc
	handled        *prometheus.Desc
	targetFactor   *prometheus.Desc
	deratingFactor *prometheus.Desc
	idleActive     *prometheus.Desc
	chargingActive *prometheus.Desc
	fieldCurrent   *prometheus.Desc
	queuedEvents   *prometheus.Desc
}

func NewRegulatorCollector(machine *regulator.Machine, controller *controller.Controller, bus *events.Bus) *RegulatorCollector {
	return &RegulatorCollector{
		machine:    machine,
		controller: controller,
		bus:        bus,
		state: prometheus.NewDesc(prometheus.BuildFQName(namespace, regulatorSubsystem, "state"),
			"1 for the current state of the regulator state machine, 0 otherwise",
			[]string{"state"}, nil,
		),
		transitions: prometheus.NewDesc(prometheus.BuildFQName(namespace, regulatorSubsystem, "transitions_total"),
			"Number of state transitions",
			[]string{}, nil,
		),
		absorbed: prometheus.NewDesc(prometheus.BuildFQName(namespace, regulatorSubsystem, "absorbed_events_total"),
			"Number of events without any effect in the state they were received in",
			[]string{}, nil,
		),
		handled: prometheus.NewDesc(prometheus.BuildFQName(namespace, regulatorSubsystem, "handled_events_total"),
			"Number of events handled without a state transition",
			[]string{}, nil,
		),
		targetFactor: prometheus.NewDesc(prometheus.BuildFQName(namespace, regulatorSubsystem, "target_factor"),
			"Fraction of the maximum field current requested by the operator",
			[]string{}, nil,
		),
		deratingFactor: prometheus.NewDesc(prometheus.BuildFQName(namespace, regulatorSubsystem, "derating_factor"),
			"External scale applied to the charging current",
			[]string{}, nil,
		),
		idleActive: prometheus.NewDesc(prometheus.BuildFQName(namespace, regulatorSubsystem, "idle_active"),
			"Whether the idle field current is applied",
			[]string{}, nil,
		),
		chargingActive: prometheus.NewDesc(prometheus.BuildFQName(namespace, regulatorSubsystem, "charging_active"),
			"Whether the charging field current is applied",
			[]string{}, nil,
		),
		fieldCurrent: prometheus.NewDesc(prometheus.BuildFQName(namespace, regulatorSubsystem, "field_current_limit"),
			"Field current limit computed by the last controller tick",
			[]string{}, nil,
		),
		queuedEvents: prometheus.NewDesc(prometheus.BuildFQName(namespace, regulatorSubsystem, "queued_events"),
			"Number of events waiting on the event bus",
			[]string{}, nil,
		),
	}
}

func (collector *RegulatorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.state
	ch <- collector.transitions
	ch <- collector.absorbed
	ch <- collector.handled
	ch <- collector.targetFactor
	ch <- collector.deratingFactor
	ch <- collector.idleActive
	ch <- collector.chargingActive
	ch <- collector.fieldCurrent
	ch <- collector.queuedEvents
}

// Collect implements required collect function for all prometheus collectors
func (collector *RegulatorCollector) Collect(ch chan<- prometheus.Metric) {
	current := collector.machine.State()
	for _, state := range regulator.States {
		value := 0.0
		if state == current {
			value = 1
		}
		ch <- prometheus.MustNewConstMetric(collector.state, prometheus.GaugeValue, value, state.String())
	}

	stats := collector.machine.Stats()
	ch <- prometheus.MustNewConstMetric(collector.transitions, prometheus.CounterValue, float64(stats.Transitions))
	ch <- prometheus.MustNewConstMetric(collector.absorbed, prometheus.CounterValue, float64(stats.Absorbed))
	ch <- prometheus.MustNewConstMetric(collector.handled, prometheus.CounterValue, float64(stats.Handled))

	state := collector.controller.State()
	ch <- prometheus.MustNewConstMetric(collector.targetFactor, prometheus.GaugeValue, state.TargetFactor)
	ch <- prometheus.MustNewConstMetric(collector.deratingFactor, prometheus.GaugeValue, state.DeratingFactor)
	ch <- prometheus.MustNewConstMetric(collector.idleActive, prometheus.GaugeValue, boolToFloat(state.IdleActive))
	ch <- prometheus.MustNewConstMetric(collector.chargingActive, prometheus.GaugeValue, boolToFloat(state.ChargingActive))
	ch <- prometheus.MustNewConstMetric(collector.fieldCurrent, prometheus.GaugeValue, state.FieldCurrent)
	ch <- prometheus.MustNewConstMetric(collector.queuedEvents, prometheus.GaugeValue, float64(collector.bus.Len()))
}
