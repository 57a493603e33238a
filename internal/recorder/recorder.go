package recorder

import (
	"time"

	"DebtSentinel/internal/model"
)

// FetchEvent records the outcome of one refresh attempt against the data
// source.
type FetchEvent struct {
	At           time.Time
	WindowDays   int
	Observations int
	Duration     time.Duration
	Outcome      string // "OK", "NETWORK_ERROR", "PARSE_ERROR"
	Detail       string
}

// Recorder persists observation history for later analysis.
type Recorder interface {
	// RecordSeries upserts the observations of a freshly fetched series.
	RecordSeries(series model.DebtSeries) error
	RecordFetch(evt *FetchEvent) error
	Close() error
}
