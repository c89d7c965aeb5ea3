// Package finance projects multi-year cash flows for a storage investment
// from a representative daily simulation result.
package finance

import (
	"math"

	"github.com/kilianp07/bessim/core/model"
)

// Assumptions parameterizes the cash-flow projection.
type Assumptions struct {
	YearsToProject int     `json:"years_to_project"`
	DiscountRate   float64 `json:"discount_rate"`
	// PriceInflation compounds electricity savings year over year.
	PriceInflation float64 `json:"price_inflation"`
}

// SetDefaults applies sane defaults.
func (a *Assumptions) SetDefaults() {
	if a.YearsToProject == 0 {
		a.YearsToProject = 20
	}
	if a.DiscountRate == 0 {
		a.DiscountRate = 0.05
	}
	if a.PriceInflation == 0 {
		a.PriceInflation = 0.02
	}
}

// Annual operation and maintenance, as a fraction of total battery cost.
const omRate = 0.01

// Replacement batteries get cheaper over time; per year of elapsed life.
const priceDecayPerYear = 0.05

// Report is the outcome of a projection. Payback fields use +Inf as the
// sentinel for "never within sensible bounds": economics loops compare
// candidates without special-casing errors.
type Report struct {
	InitialInvestment float64
	AnnualSavings     float64
	CashFlows         []float64 // year 1..N net cash flow, investment excluded
	ReplacementYears  []int

	NPV               float64
	IRR               float64
	SimplePayback     float64
	DiscountedPayback float64
}

// Map flattens the report for the reporting layer.
func (r Report) Map() map[string]float64 {
	return map[string]float64{
		"initial_investment": r.InitialInvestment,
		"annual_savings":     r.AnnualSavings,
		"npv":                r.NPV,
		"irr":                r.IRR,
		"simple_payback":     r.SimplePayback,
		"discounted_payback": r.DiscountedPayback,
	}
}

// Project extrapolates the economics of a battery from one representative
// day. dailySavings is the cost difference against the no-battery baseline;
// annualCycles is the expected equivalent full cycles per year, used to
// schedule replacements. A replacement falling in the final projection year
// is skipped: there is no remaining horizon for it to pay back in.
func Project(spec model.BatterySpec, dailySavings, annualCycles float64, a Assumptions) Report {
	a.SetDefaults()
	total := spec.TotalCost()
	annualSavings := dailySavings * 365
	om := total * omRate

	replacementEvery := replacementInterval(spec, annualCycles)

	rep := Report{
		InitialInvestment: total,
		AnnualSavings:     annualSavings,
		CashFlows:         make([]float64, a.YearsToProject),
	}

	for year := 1; year <= a.YearsToProject; year++ {
		savings := annualSavings * math.Pow(1+a.PriceInflation, float64(year-1))
		cash := savings - om
		if replacementEvery > 0 && year%replacementEvery == 0 && year < a.YearsToProject {
			cash -= replacementCost(total, year)
			rep.ReplacementYears = append(rep.ReplacementYears, year)
		}
		rep.CashFlows[year-1] = cash
	}

	rep.NPV = NPV(a.DiscountRate, -total, rep.CashFlows)
	rep.IRR = IRR(-total, rep.CashFlows)
	rep.SimplePayback = simplePayback(total, annualSavings, rep.ReplacementYears)
	rep.DiscountedPayback = discountedPayback(a.DiscountRate, total, rep.CashFlows)
	return rep
}

// replacementInterval returns the whole number of years between battery
// replacements, bounded by both cycle and calendar life.
func replacementInterval(spec model.BatterySpec, annualCycles float64) int {
	years := spec.CalendarLifeYears
	if annualCycles > 0 {
		if byCycles := spec.CycleLife / annualCycles; byCycles < years {
			years = byCycles
		}
	}
	if years <= 0 || math.IsInf(years, 0) {
		return 0
	}
	return int(math.Max(1, math.Floor(years)))
}

// replacementCost discounts the battery price by the elapsed years,
// reflecting falling storage prices.
func replacementCost(totalCost float64, elapsedYears int) float64 {
	return totalCost * math.Pow(1-priceDecayPerYear, float64(elapsedYears))
}

func simplePayback(investment, annualSavings float64, replacementYears []int) float64 {
	if annualSavings <= 0 {
		return math.Inf(1)
	}
	payback := investment / annualSavings
	// Replacements due before nominal payback push it further out.
	for _, year := range replacementYears {
		if float64(year) < payback {
			payback += replacementCost(investment, year) / annualSavings
		}
	}
	return payback
}

func discountedPayback(rate, investment float64, cashFlows []float64) float64 {
	cumulative := -investment
	for i, cf := range cashFlows {
		cumulative += cf / math.Pow(1+rate, float64(i+1))
		if cumulative >= 0 {
			return float64(i + 1)
		}
	}
	return math.Inf(1) // beyond projection horizon
}
