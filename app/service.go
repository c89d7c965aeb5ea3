package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/bessim/config"
	"github.com/kilianp07/bessim/core/dispatch"
	"github.com/kilianp07/bessim/core/finance"
	coremetrics "github.com/kilianp07/bessim/core/metrics"
	"github.com/kilianp07/bessim/core/model"
	"github.com/kilianp07/bessim/core/optimize"
	"github.com/kilianp07/bessim/core/sim"
	"github.com/kilianp07/bessim/infra/logger"
	"github.com/kilianp07/bessim/infra/metrics"
)

// Service wires the configured battery, tariff and policy into simulator and
// optimizer runs.
type Service struct {
	cfg    *config.Config
	log    logger.Logger
	sink   coremetrics.Sink
	engine dispatch.Engine
}

// New creates a Service from the configuration. When Prometheus is enabled
// the metrics endpoint is served in the background.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sink, err := metrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	if cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(cfg.Metrics.PrometheusPort); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	tariff := cfg.Tariff.Tariff()
	engine := dispatch.Engine{
		Spec:   cfg.Battery.Spec(),
		Policy: cfg.Simulation.BuildPolicy(tariff),
		Tariff: tariff,
	}
	return &Service{cfg: cfg, log: logg, sink: sink, engine: engine}, nil
}

// Simulate runs the configured number of days under the configured policy
// and records each day to the metrics sink.
func (s *Service) Simulate() ([]model.DailyResult, error) {
	if s.cfg.Simulation.Days < 1 {
		return nil, model.InvalidInputError{Field: "days", Reason: "must be at least 1"}
	}
	day, err := s.cfg.Profile.Day()
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	session, err := sim.NewSession(s.engine, s.cfg.Simulation.InitialSoCPercent, s.log)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	results := make([]model.DailyResult, 0, s.cfg.Simulation.Days)
	for d := 0; d < s.cfg.Simulation.Days; d++ {
		result, err := session.SimulateDay(day.LoadKW, day.ProductionKW)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
		rec := coremetrics.DayRecord{
			RunID:           runID,
			Policy:          s.engine.Policy.Name(),
			Day:             d,
			DailyCost:       result.DailyCost,
			SelfConsumption: result.SelfConsumptionRate,
			SelfSufficiency: result.SelfSufficiencyRate,
			CycleEquivalent: result.CycleEquivalent,
			PeakImportKW:    result.PeakImportKW(),
			Degradation:     result.DegradationFactor,
			Time:            time.Now(),
		}
		if err := s.sink.RecordDay(rec); err != nil {
			s.log.Warnf("record day: %v", err)
		}
	}
	return results, nil
}

// OptimizeTOU tunes the time-of-use thresholds on the configured profile.
func (s *Service) OptimizeTOU() (optimize.Result, error) {
	day, err := s.cfg.Profile.Day()
	if err != nil {
		return optimize.Result{}, fmt.Errorf("load profile: %w", err)
	}
	search := optimize.TOUThresholdSearch{
		Spec:              s.engine.Spec,
		Tariff:            s.engine.Tariff,
		InitialSoCPercent: s.cfg.Simulation.InitialSoCPercent,
		Sink:              s.sink,
		Log:               s.log,
	}
	return search.Optimize(day.LoadKW, day.ProductionKW)
}

// OptimizePeak tunes the peak-shaving import threshold.
func (s *Service) OptimizePeak() (optimize.Result, error) {
	day, err := s.cfg.Profile.Day()
	if err != nil {
		return optimize.Result{}, fmt.Errorf("load profile: %w", err)
	}
	search := optimize.PeakShavingSearch{
		Spec:              s.engine.Spec,
		Tariff:            s.engine.Tariff,
		DemandChargeRate:  s.cfg.Optimizer.DemandChargeRate,
		InitialSoCPercent: s.cfg.Simulation.InitialSoCPercent,
		Sink:              s.sink,
		Log:               s.log,
	}
	return search.Optimize(day.LoadKW, day.ProductionKW)
}

// OptimizeSize searches the battery capacity over an annual profile.
func (s *Service) OptimizeSize() (optimize.Result, error) {
	year, err := s.cfg.Profile.Year()
	if err != nil {
		return optimize.Result{}, fmt.Errorf("load annual profile: %w", err)
	}
	search := optimize.SizeSearch{
		Template:          s.engine.Spec,
		Tariff:            s.engine.Tariff,
		Assumptions:       s.cfg.Finance,
		InitialSoCPercent: s.cfg.Simulation.InitialSoCPercent,
		Sink:              s.sink,
		Log:               s.log,
	}
	return search.Optimize(year.LoadKW, year.ProductionKW)
}

// Economics simulates one representative day and projects the multi-year
// cash flows of the configured battery.
func (s *Service) Economics() (finance.Report, error) {
	day, err := s.cfg.Profile.Day()
	if err != nil {
		return finance.Report{}, fmt.Errorf("load profile: %w", err)
	}

	state := model.NewBatteryState(s.engine.Spec, s.cfg.Simulation.InitialSoCPercent)
	result, _, err := sim.Run(s.engine, state, day.LoadKW, day.ProductionKW)
	if err != nil {
		return finance.Report{}, err
	}

	dailySavings := sim.BaselineCost(s.engine.Tariff, day.LoadKW, day.ProductionKW) - result.DailyCost
	annualCycles := result.CycleEquivalent * 365
	return finance.Project(s.engine.Spec, dailySavings, annualCycles, s.cfg.Finance), nil
}
