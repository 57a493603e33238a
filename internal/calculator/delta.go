package calculator

import (
	"github.com/shopspring/decimal"

	"DebtSentinel/internal/model"
	"DebtSentinel/internal/provider"
)

// LatestChange computes the day-over-day movement from the two most recent
// observations. "Previous" is simply whatever the source last reported
// before the latest observation; no interpolation across weekend or holiday
// gaps is performed.
func LatestChange(series model.DebtSeries) (*model.DebtChange, error) {
	if len(series) < 2 {
		return nil, &provider.InsufficientDataError{Have: len(series), Need: 2}
	}
	current := series[len(series)-1]
	previous := series[len(series)-2]
	return &model.DebtChange{
		Current:      current.TotalDebt,
		Previous:     previous.TotalDebt,
		Delta:        current.TotalDebt.Sub(previous.TotalDebt),
		CurrentDate:  current.Date,
		PreviousDate: previous.Date,
	}, nil
}

// WindowChange computes the movement between the first and last observations
// of the series, i.e. the total change over the retrieved window.
func WindowChange(series model.DebtSeries) (*model.DebtChange, error) {
	if len(series) < 2 {
		return nil, &provider.InsufficientDataError{Have: len(series), Need: 2}
	}
	first := series[0]
	last := series[len(series)-1]
	return &model.DebtChange{
		Current:      last.TotalDebt,
		Previous:     first.TotalDebt,
		Delta:        last.TotalDebt.Sub(first.TotalDebt),
		CurrentDate:  last.Date,
		PreviousDate: first.Date,
	}, nil
}

// AverageDailyChange returns the mean of the successive observation-to-
// observation deltas over the series.
func AverageDailyChange(series model.DebtSeries) (decimal.Decimal, error) {
	if len(series) < 2 {
		return decimal.Zero, &provider.InsufficientDataError{Have: len(series), Need: 2}
	}
	total := series[len(series)-1].TotalDebt.Sub(series[0].TotalDebt)
	steps := decimal.NewFromInt(int64(len(series) - 1))
	return total.Div(steps).Round(2), nil
}
