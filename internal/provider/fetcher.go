package provider

import (
	"context"
	"time"

	"DebtSentinel/internal/model"
)

// Fetcher defines the interface for retrieving debt observations.
type Fetcher interface {
	// FetchSeries returns all observations with record dates in
	// [startDate, endDate], ascending by date, duplicate-free.
	FetchSeries(ctx context.Context, startDate, endDate time.Time) (model.DebtSeries, error)
	Name() string
}
