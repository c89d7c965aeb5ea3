package finance

import "math"

const (
	irrStart      = 0.10
	irrTolerance  = 0.001
	irrMaxIter    = 100
	irrLowerBound = -0.9
	irrUpperBound = 0.9
)

// NPV discounts the cash-flow series at the given rate. investment is the
// year-zero outflow (negative); cashFlows hold years 1..N.
func NPV(rate, investment float64, cashFlows []float64) float64 {
	npv := investment
	for i, cf := range cashFlows {
		npv += cf / math.Pow(1+rate, float64(i+1))
	}
	return npv
}

// npvDerivative is the analytic derivative of NPV with respect to the rate.
func npvDerivative(rate float64, cashFlows []float64) float64 {
	d := 0.0
	for i, cf := range cashFlows {
		t := float64(i + 1)
		d -= t * cf / math.Pow(1+rate, t+1)
	}
	return d
}

// IRR solves NPV(irr) = 0 via Newton-Raphson. It always returns its best
// estimate after the iteration budget; non-convergence is an accepted
// approximation, not an error.
func IRR(investment float64, cashFlows []float64) float64 {
	irr := irrStart
	for i := 0; i < irrMaxIter; i++ {
		npv := NPV(irr, investment, cashFlows)
		if math.Abs(npv) < irrTolerance {
			break
		}
		deriv := npvDerivative(irr, cashFlows)
		if deriv == 0 {
			break
		}
		irr -= npv / deriv
		if irr < irrLowerBound {
			irr = irrLowerBound
		}
		if irr > irrUpperBound {
			irr = irrUpperBound
		}
	}
	return irr
}
