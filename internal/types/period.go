package types

import (
	"errors"
	"fmt"
	"time"
)

// Period is the calendar unit used when generating forecast projections.
type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

var ErrInvalidPeriod = errors.New("the period must be one of monthly, quarterly, yearly")

// ParsePeriod parses a period string. An empty string defaults to monthly.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodMonthly, nil
	case PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return Period(s), nil
	}

	return "", ErrInvalidPeriod
}

// Advance moves t forward by n periods.
func (p Period) Advance(t time.Time, n int) time.Time {
	switch p {
	case PeriodQuarterly:
		return t.AddDate(0, 3*n, 0)
	case PeriodYearly:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, n, 0)
	}
}

// Label formats the period a time instant falls into.
// Monthly periods are formatted as YYYY-MM, quarterly ones
// as YYYY-Qn and yearly ones as YYYY.
func (p Period) Label(t time.Time) string {
	switch p {
	case PeriodQuarterly:
		quarter := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", t.Year(), quarter)
	case PeriodYearly:
		return fmt.Sprintf("%04d", t.Year())
	default:
		return fmt.Sprintf("%04d-%02d", t.Year(), t.Month())
	}
}
