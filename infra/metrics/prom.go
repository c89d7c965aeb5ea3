package metrics

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/kilianp07/bessim/core/metrics"
)

// PromSink records simulation and optimizer events in Prometheus metrics.
type PromSink struct {
	days      *prometheus.CounterVec
	trials    *prometheus.CounterVec
	dailyCost *prometheus.HistogramVec
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	days := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_days_total",
		Help: "Total number of simulated days",
	}, []string{"policy"})
	trials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_trials_total",
		Help: "Total number of optimizer trial evaluations",
	}, []string{"search", "best"})
	dailyCost := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simulation_daily_cost",
		Help:    "Daily grid cost of simulated days",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"policy"})

	if err := reg.Register(days); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			days = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(trials); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			trials = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(dailyCost); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			dailyCost = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{days: days, trials: trials, dailyCost: dailyCost}, nil
}

// RecordDay increments the day counter and observes the daily cost.
func (s *PromSink) RecordDay(rec coremetrics.DayRecord) error {
	s.days.WithLabelValues(rec.Policy).Inc()
	s.dailyCost.WithLabelValues(rec.Policy).Observe(rec.DailyCost)
	return nil
}

// RecordTrial increments the trial counter.
func (s *PromSink) RecordTrial(rec coremetrics.TrialRecord) error {
	s.trials.WithLabelValues(rec.Search, strconv.FormatBool(rec.Best)).Inc()
	return nil
}

// StartPromServer exposes /metrics on the given port and blocks.
func StartPromServer(port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%s", port), mux)
}
