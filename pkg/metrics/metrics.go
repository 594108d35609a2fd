// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics provides an xunit listener recording runs as
// prometheus metrics.  The metrics are registered with a given
// registerer, i.e. several listeners may record into separate
// registries.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
	"github.com/slukits/xunit"
)

const Namespace = "xunit"

var outcomes = []xunit.Outcome{
	xunit.Passed, xunit.Failed, xunit.Error, xunit.Skipped}

// Listener records the results of runs.
type Listener struct {
	xunit.NopListener

	procedures     *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	caseErrors     *prometheus.CounterVec
	runs           prometheus.Counter
	lastResults    *prometheus.GaugeVec
	lastDuration   prometheus.Gauge
	lastTimestamp  prometheus.Gauge
	lastSuccessful prometheus.Gauge
}

// New registers the listener's metrics with given registerer.  It
// panics if they are already registered.
func New(reg prometheus.Registerer) *Listener {
	f := promauto.With(reg)
	return &Listener{
		procedures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "procedures_total",
			Help:      "Count of executed and skipped procedures by outcome",
		}, []string{
			"case",
			"outcome",
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "procedure_duration_seconds",
			Help:      "Duration of procedures including their setup and tear-down",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{
			"case",
		}),
		caseErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "case_hook_errors_total",
			Help:      "Count of failing Init and Finalize hooks",
		}, []string{
			"case",
		}),
		runs: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Count of finished runs",
		}),
		lastResults: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_results",
			Help:      "Procedures of the last run by outcome",
		}, []string{
			"outcome",
		}),
		lastDuration: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last run",
		}),
		lastTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		lastSuccessful: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_success",
			Help:      "1 if nothing failed or errored in the last run, 0 otherwise",
		}),
	}
}

func (l *Listener) ProcedureFinished(r xunit.Result) {
	l.procedures.WithLabelValues(r.Case, r.Outcome.String()).Inc()
	if r.Outcome != xunit.Skipped {
		l.duration.WithLabelValues(r.Case).Observe(r.Duration.Seconds())
	}
}

func (l *Listener) CaseFinished(cr xunit.CaseReport) {
	if cr.Err != nil {
		l.caseErrors.WithLabelValues(cr.Case).Inc()
	}
}

func (l *Listener) RunFinished(rp *xunit.Report) {
	l.runs.Inc()
	counts := map[xunit.Outcome]int{
		xunit.Passed:  rp.Counts.Passed,
		xunit.Failed:  rp.Counts.Failed,
		xunit.Error:   rp.Counts.Errored,
		xunit.Skipped: rp.Counts.Skipped,
	}
	for _, o := range outcomes {
		l.lastResults.WithLabelValues(o.String()).Set(float64(counts[o]))
	}
	l.lastDuration.Set(rp.Duration().Seconds())
	l.lastTimestamp.Set(float64(rp.End.Unix()))
	if rp.Counts.OK() {
		l.lastSuccessful.Set(1)
	} else {
		l.lastSuccessful.Set(0)
	}
}

// WriteText writes the metrics of given gatherer in the prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	mff, err := g.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range mff {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile writes the metrics of given gatherer to given file, e.g.
// for a node exporter's textfile collector.
func WriteFile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}
