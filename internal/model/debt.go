package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtObservation is a single daily record from the Debt to the Penny dataset.
// TotalDebt is a fixed-point amount; the source reports fractional cents.
type DebtObservation struct {
	Date      time.Time
	TotalDebt decimal.Decimal
}

// DebtSeries is an ordered sequence of observations, ascending by date,
// with no duplicate dates. The source publishes on banking days only, so
// the series is a sparse subset of calendar days.
type DebtSeries []DebtObservation

// Latest returns the most recent observation.
// The second return value is false for an empty series.
func (s DebtSeries) Latest() (DebtObservation, bool) {
	if len(s) == 0 {
		return DebtObservation{}, false
	}
	return s[len(s)-1], true
}

// Span returns the first and last dates covered by the series.
func (s DebtSeries) Span() (start, end time.Time) {
	if len(s) == 0 {
		return
	}
	return s[0].Date, s[len(s)-1].Date
}

// Dates returns all observation dates in series order.
func (s DebtSeries) Dates() []time.Time {
	out := make([]time.Time, len(s))
	for i, o := range s {
		out[i] = o.Date
	}
	return out
}

// Values returns all debt amounts in series order.
func (s DebtSeries) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s))
	for i, o := range s {
		out[i] = o.TotalDebt
	}
	return out
}

// DebtChange holds the day-over-day movement between the two most recent
// observations. "Previous" is the observation immediately before the latest
// one in the series, not necessarily the prior calendar day.
type DebtChange struct {
	Current      decimal.Decimal
	Previous     decimal.Decimal
	Delta        decimal.Decimal
	CurrentDate  time.Time
	PreviousDate time.Time
}
