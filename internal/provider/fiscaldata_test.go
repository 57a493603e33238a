package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestFetchSeries_FollowsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "record_date,tot_pub_debt_out_amt", r.URL.Query().Get("fields"))
		assert.Equal(t, "record_date", r.URL.Query().Get("sort"))

		page := r.URL.Query().Get("page[number]")
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "1":
			fmt.Fprint(w, `{"data":[
				{"record_date":"2026-08-25","tot_pub_debt_out_amt":"37000000000001.11"},
				{"record_date":"2026-08-26","tot_pub_debt_out_amt":"37000000000002.22"}],
				"meta":{"total-count":3,"total-pages":2}}`)
		default:
			fmt.Fprint(w, `{"data":[
				{"record_date":"2026-08-27","tot_pub_debt_out_amt":"37000000000003.33"}],
				"meta":{"total-count":3,"total-pages":2}}`)
		}
	}))
	defer srv.Close()

	f := NewFiscalDataFetcher(srv.URL, "", 5*time.Second)
	series, err := f.FetchSeries(context.Background(), day(t, "2026-08-01"), day(t, "2026-08-28"))
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, day(t, "2026-08-25"), series[0].Date)
	assert.Equal(t, day(t, "2026-08-27"), series[2].Date)
	assert.Equal(t, "37000000000003.33", series[2].TotalDebt.String())
}

func TestFetchSeries_SortsAndDeduplicates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"record_date":"2026-08-27","tot_pub_debt_out_amt":"300.00"},
			{"record_date":"2026-08-25","tot_pub_debt_out_amt":"100.00"},
			{"record_date":"2026-08-25","tot_pub_debt_out_amt":"100.00"},
			{"record_date":"2026-08-26","tot_pub_debt_out_amt":"200.00"}],
			"meta":{"total-count":4,"total-pages":1}}`)
	}))
	defer srv.Close()

	f := NewFiscalDataFetcher(srv.URL, "", 5*time.Second)
	series, err := f.FetchSeries(context.Background(), day(t, "2026-08-01"), day(t, "2026-08-28"))
	require.NoError(t, err)
	require.Len(t, series, 3)
	for i := 1; i < len(series); i++ {
		assert.True(t, series[i-1].Date.Before(series[i].Date))
	}
}

func TestFetchSeries_NonNumericAmountIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"record_date":"2026-08-25","tot_pub_debt_out_amt":"N/A"}],
			"meta":{"total-count":1,"total-pages":1}}`)
	}))
	defer srv.Close()

	f := NewFiscalDataFetcher(srv.URL, "", 5*time.Second)
	_, err := f.FetchSeries(context.Background(), day(t, "2026-08-01"), day(t, "2026-08-28"))
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "tot_pub_debt_out_amt", parseErr.Field)
	assert.Equal(t, "N/A", parseErr.Value)
}

func TestFetchSeries_MissingDataArrayIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"maintenance"}`)
	}))
	defer srv.Close()

	f := NewFiscalDataFetcher(srv.URL, "", 5*time.Second)
	_, err := f.FetchSeries(context.Background(), day(t, "2026-08-01"), day(t, "2026-08-28"))
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestFetchSeries_HTTPStatusIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFiscalDataFetcher(srv.URL, "", 5*time.Second)
	_, err := f.FetchSeries(context.Background(), day(t, "2026-08-01"), day(t, "2026-08-28"))
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusTooManyRequests, netErr.Status)
}

func TestFetchSeries_TimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewFiscalDataFetcher(srv.URL, "", 50*time.Millisecond)
	_, err := f.FetchSeries(context.Background(), day(t, "2026-08-01"), day(t, "2026-08-28"))
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Zero(t, netErr.Status)
}

func TestFetchSeries_EmptyWindowIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[],"meta":{"total-count":0,"total-pages":0}}`)
	}))
	defer srv.Close()

	f := NewFiscalDataFetcher(srv.URL, "", 5*time.Second)
	_, err := f.FetchSeries(context.Background(), day(t, "2026-08-01"), day(t, "2026-08-28"))
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}
