package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"DebtSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series model.DebtSeries
	Err    error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, startDate, endDate time.Time) (model.DebtSeries, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series, nil
	}
	return GenerateMockSeries(startDate, endDate), nil
}

// GenerateMockSeries produces one observation per weekday in [start, end],
// growing by a fixed daily amount from a realistic base.
func GenerateMockSeries(start, end time.Time) model.DebtSeries {
	base := decimal.RequireFromString("36000000000000.00")
	step := decimal.RequireFromString("5000000000.00")

	var series model.DebtSeries
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		series = append(series, model.DebtObservation{
			Date:      d,
			TotalDebt: base.Add(step.Mul(decimal.NewFromInt(int64(i)))),
		})
		i++
	}
	return series
}
