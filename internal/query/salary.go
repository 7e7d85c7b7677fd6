package query

import (
	"strings"

	"jobmate/board-service/internal/job"
)

// NoSalary is the annual value of a job without a salary. It sorts below
// every real value, including zero.
const NoSalary = -1.0

// Static conversion to USD. These are not live rates.
var currencyRates = map[job.Currency]float64{
	job.CurrencyUSD: 1,
	job.CurrencyEUR: 1.1,
	job.CurrencyGBP: 1.27,
}

var unitsPerYear = map[job.SalaryUnit]float64{
	job.UnitHour:    2080,
	job.UnitDay:     260,
	job.UnitWeek:    52,
	job.UnitMonth:   12,
	job.UnitYear:    1,
	job.UnitProject: 1,
}

// AnnualSalary converts s to an annual USD figure for sorting and bucketing.
// The upper bound wins when both are set.
func AnnualSalary(s *job.Salary) float64 {
	if s == nil {
		return NoSalary
	}
	var amount float64
	switch {
	case s.Max != nil:
		amount = *s.Max
	case s.Min != nil:
		amount = *s.Min
	}
	rate, ok := currencyRates[s.Currency]
	if !ok {
		rate = 1
	}
	units, ok := unitsPerYear[s.Unit]
	if !ok {
		units = 1
	}
	return amount * rate * units
}

// SalaryRange is a labelled annual salary bucket.
type SalaryRange string

const (
	RangeUnder50K  SalaryRange = "< $50K"
	Range50To100K  SalaryRange = "$50K - $100K"
	Range100To200K SalaryRange = "$100K - $200K"
	RangeOver200K  SalaryRange = "> $200K"
)

// SalaryRanges lists the buckets in ascending order.
var SalaryRanges = []SalaryRange{RangeUnder50K, Range50To100K, Range100To200K, RangeOver200K}

// ParseSalaryRange accepts a bucket label with or without inner spaces
// ("<$50K", "$50K-$100K").
func ParseSalaryRange(s string) (SalaryRange, bool) {
	key := compact(s)
	for _, r := range SalaryRanges {
		if compact(string(r)) == key {
			return r, true
		}
	}
	return "", false
}

// Contains reports whether an annual value falls in r. The 100K boundary
// belongs to the lower bucket.
func (r SalaryRange) Contains(annual float64) bool {
	switch r {
	case RangeUnder50K:
		return annual < 50000
	case Range50To100K:
		return annual >= 50000 && annual <= 100000
	case Range100To200K:
		return annual > 100000 && annual <= 200000
	case RangeOver200K:
		return annual > 200000
	}
	return false
}

func inAnyRange(s *job.Salary, ranges []SalaryRange) bool {
	if s == nil {
		return false
	}
	annual := AnnualSalary(s)
	for _, r := range ranges {
		if r.Contains(annual) {
			return true
		}
	}
	return false
}

func compact(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
