package model

import "sort"

// DefaultRate applies to any hour not covered by a time-of-use schedule,
// in currency units per kWh.
const DefaultRate = 0.15

// TimeOfUseRate prices the half-open hour interval [StartHour, EndHour).
type TimeOfUseRate struct {
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"`
	Rate      float64 `json:"rate"`
}

// Contains reports whether the interval covers the given hour.
func (r TimeOfUseRate) Contains(hour int) bool {
	return hour >= r.StartHour && hour < r.EndHour
}

// RateSchedule is an ordered set of non-overlapping time-of-use intervals.
// Hours left uncovered fall back to DefaultRate.
type RateSchedule []TimeOfUseRate

// Validate checks interval bounds and rejects overlapping entries.
func (s RateSchedule) Validate() error {
	sorted := make(RateSchedule, len(s))
	copy(sorted, s)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartHour < sorted[j].StartHour })
	for i, r := range sorted {
		if r.StartHour < 0 || r.EndHour > 24 || r.StartHour >= r.EndHour {
			return InvalidInputError{Field: "rate_interval", Reason: "hours must satisfy 0 <= start < end <= 24"}
		}
		if r.Rate < 0 {
			return InvalidInputError{Field: "rate", Reason: "must be non-negative"}
		}
		if i > 0 && r.StartHour < sorted[i-1].EndHour {
			return InvalidInputError{Field: "rate_interval", Reason: "intervals overlap"}
		}
	}
	return nil
}

// RateAt returns the price for the given hour of day.
func (s RateSchedule) RateAt(hour int) float64 {
	for _, r := range s {
		if r.Contains(hour) {
			return r.Rate
		}
	}
	return DefaultRate
}

// AverageRate returns the duration-weighted mean price over the 24 hours,
// counting uncovered hours at DefaultRate.
func (s RateSchedule) AverageRate() float64 {
	sum := 0.0
	for h := 0; h < 24; h++ {
		sum += s.RateAt(h)
	}
	return sum / 24
}

// MinRate returns the lowest hourly price over the day.
func (s RateSchedule) MinRate() float64 {
	min := s.RateAt(0)
	for h := 1; h < 24; h++ {
		if r := s.RateAt(h); r < min {
			min = r
		}
	}
	return min
}

// MaxRate returns the highest hourly price over the day.
func (s RateSchedule) MaxRate() float64 {
	max := s.RateAt(0)
	for h := 1; h < 24; h++ {
		if r := s.RateAt(h); r > max {
			max = r
		}
	}
	return max
}
