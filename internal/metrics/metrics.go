// Package metrics counts zone activity with Prometheus collectors.
//
// An Observer is installed on a temporal.Registry with
// temporal.WithObserver. Counters live in a private registry so several
// observers can coexist in one process (tests, nested CLI runs).
//
// Exported series:
//
//	twozhakes_zones_created_total{zone}
//	twozhakes_parses_total{zone}
//	twozhakes_parse_failures_total{zone}
//	twozhakes_operator_stages_total{zone}
//	twozhakes_extractions_total{zone}
//	twozhakes_scenarios_total{outcome}
//
// The CLI has no long-running server, so metrics are written once with
// WriteToTextfile in the node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/twozhakes/internal/temporal"
)

const namespace = "twozhakes"

// Scenario outcomes.
const (
	OutcomePass = "pass"
	OutcomeFail = "fail"
)

// Observer implements temporal.Observer with Prometheus counters.
type Observer struct {
	registry *prometheus.Registry

	zonesCreated   *prometheus.CounterVec
	parses         *prometheus.CounterVec
	parseFailures  *prometheus.CounterVec
	operatorStages *prometheus.CounterVec
	extractions    *prometheus.CounterVec
	scenarios      *prometheus.CounterVec
}

var _ temporal.Observer = (*Observer)(nil)

// New creates an Observer with its own registry.
func New() *Observer {
	zoneCounter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"zone"})
	}

	o := &Observer{
		registry:       prometheus.NewRegistry(),
		zonesCreated:   zoneCounter("zones_created_total", "Zone contexts created"),
		parses:         zoneCounter("parses_total", "Inputs parsed in a zone"),
		parseFailures:  zoneCounter("parse_failures_total", "Inputs that failed to parse in a zone"),
		operatorStages: zoneCounter("operator_stages_total", "Operator stages applied in a zone"),
		extractions:    zoneCounter("extractions_total", "Getter evaluations in a zone"),
		scenarios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_total",
			Help:      "Harness scenarios run, by outcome",
		}, []string{"outcome"}),
	}

	o.registry.MustRegister(
		o.zonesCreated,
		o.parses,
		o.parseFailures,
		o.operatorStages,
		o.extractions,
		o.scenarios,
	)
	return o
}

// ZoneCreated records a new zone context.
func (o *Observer) ZoneCreated(zone string) {
	o.zonesCreated.WithLabelValues(zone).Inc()
}

// Parsed records a parse attempt and, when err is non-nil, a failure.
func (o *Observer) Parsed(zone string, err error) {
	o.parses.WithLabelValues(zone).Inc()
	if err != nil {
		o.parseFailures.WithLabelValues(zone).Inc()
	}
}

// Operated records the number of operator stages applied by one Operate call.
func (o *Observer) Operated(zone string, stages int) {
	if stages <= 0 {
		return
	}
	o.operatorStages.WithLabelValues(zone).Add(float64(stages))
}

func (o *Observer) Extracted(zone string) {
	o.extractions.WithLabelValues(zone).Inc()
}

// ScenarioFinished records one harness scenario.
func (o *Observer) ScenarioFinished(passed bool) {
	outcome := OutcomeFail
	if passed {
		outcome = OutcomePass
	}
	o.scenarios.WithLabelValues(outcome).Inc()
}

// Gatherer exposes the observer's registry.
func (o *Observer) Gatherer() prometheus.Gatherer {
	return o.registry
}

// WriteToTextfile writes all series to path atomically.
func (o *Observer) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, o.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
