package profile

import (
	"math"
	"math/rand"
)

// SynthConfig shapes the synthetic profiles used for demos and for
// estimating optimizer bounds when no measured data is available.
type SynthConfig struct {
	// PeakProductionKW is the midday PV peak.
	PeakProductionKW float64 `json:"peak_production_kw"`
	// BaseLoadKW is the constant household floor.
	BaseLoadKW float64 `json:"base_load_kw"`
	// EveningPeakKW is added on top of the base load during evening hours.
	EveningPeakKW float64 `json:"evening_peak_kw"`
	// Jitter randomizes hourly values by up to this fraction. Zero keeps
	// the profile deterministic.
	Jitter float64 `json:"jitter"`
	Seed   int64   `json:"seed"`
}

// SetDefaults applies a typical residential shape.
func (c *SynthConfig) SetDefaults() {
	if c.PeakProductionKW == 0 {
		c.PeakProductionKW = 5
	}
	if c.BaseLoadKW == 0 {
		c.BaseLoadKW = 0.8
	}
	if c.EveningPeakKW == 0 {
		c.EveningPeakKW = 2.5
	}
}

// Synthesize generates one day: PV as a bell centred on solar noon, load as
// a base with a morning bump and an evening peak.
func Synthesize(cfg SynthConfig) Day {
	cfg.SetDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))

	d := Day{
		LoadKW:       make([]float64, HoursPerDay),
		ProductionKW: make([]float64, HoursPerDay),
	}
	for h := 0; h < HoursPerDay; h++ {
		// PV bell between 6h and 18h, peak at 12h.
		prod := 0.0
		if h >= 6 && h <= 18 {
			prod = cfg.PeakProductionKW * math.Pow(math.Sin(math.Pi*float64(h-6)/12), 2)
		}

		load := cfg.BaseLoadKW
		switch {
		case h >= 7 && h < 9:
			load += cfg.EveningPeakKW * 0.4
		case h >= 18 && h < 22:
			load += cfg.EveningPeakKW
		}

		if cfg.Jitter > 0 {
			prod *= 1 + cfg.Jitter*(2*rng.Float64()-1)
			load *= 1 + cfg.Jitter*(2*rng.Float64()-1)
		}
		d.ProductionKW[h] = prod
		d.LoadKW[h] = load
	}
	return d
}

// SynthesizeYear concatenates 365 synthetic days, scaling production with a
// seasonal factor so sizing searches see realistic annual variation.
func SynthesizeYear(cfg SynthConfig) Day {
	cfg.SetDefaults()
	year := Day{
		LoadKW:       make([]float64, 0, 365*HoursPerDay),
		ProductionKW: make([]float64, 0, 365*HoursPerDay),
	}
	for day := 0; day < 365; day++ {
		dayCfg := cfg
		// Peak in midsummer, trough in midwinter.
		season := 0.65 + 0.35*math.Cos(2*math.Pi*float64(day-172)/365)
		dayCfg.PeakProductionKW = cfg.PeakProductionKW * season
		dayCfg.Seed = cfg.Seed + int64(day)
		d := Synthesize(dayCfg)
		year.LoadKW = append(year.LoadKW, d.LoadKW...)
		year.ProductionKW = append(year.ProductionKW, d.ProductionKW...)
	}
	return year
}
