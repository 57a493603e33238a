package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"DebtSentinel/internal/model"
)

// DefaultBaseURL is the Treasury Fiscal Data API root.
const DefaultBaseURL = "https://api.fiscaldata.treasury.gov/services/api/fiscal_service"

const (
	debtEndpoint = "/v2/accounting/od/debt_to_penny"
	dateLayout   = "2006-01-02"
	maxPageSize  = 10000
)

// FiscalDataFetcher implements Fetcher against the Treasury Fiscal Data API
// (Debt to the Penny dataset).
type FiscalDataFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFiscalDataFetcher creates a fetcher with a bounded request timeout and
// optional proxy support.
func NewFiscalDataFetcher(baseURL, proxyURL string, timeout time.Duration) *FiscalDataFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FiscalDataFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *FiscalDataFetcher) Name() string { return "fiscaldata" }

// fiscalPage is the response structure of the fiscal data API. Amounts come
// back as strings, which keeps fractional cents exact.
type fiscalPage struct {
	Data []struct {
		RecordDate string `json:"record_date"`
		TotalDebt  string `json:"tot_pub_debt_out_amt"`
	} `json:"data"`
	Meta struct {
		TotalCount int `json:"total-count"`
		TotalPages int `json:"total-pages"`
	} `json:"meta"`
}

// FetchSeries retrieves all observations in [startDate, endDate], following
// pagination until exhausted.
func (f *FiscalDataFetcher) FetchSeries(ctx context.Context, startDate, endDate time.Time) (model.DebtSeries, error) {
	series := model.DebtSeries{}
	for page := 1; ; page++ {
		p, err := f.fetchPage(ctx, startDate, endDate, page)
		if err != nil {
			return nil, err
		}
		for _, rec := range p.Data {
			date, err := time.Parse(dateLayout, rec.RecordDate)
			if err != nil {
				return nil, &ParseError{Field: "record_date", Value: rec.RecordDate, Err: err}
			}
			amount, err := decimal.NewFromString(rec.TotalDebt)
			if err != nil {
				return nil, &ParseError{Field: "tot_pub_debt_out_amt", Value: rec.TotalDebt, Err: err}
			}
			series = append(series, model.DebtObservation{Date: date, TotalDebt: amount})
		}
		if page >= p.Meta.TotalPages || len(p.Data) == 0 {
			break
		}
	}
	if len(series) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("no observations between %s and %s",
			startDate.Format(dateLayout), endDate.Format(dateLayout))}
	}

	// The API is asked to sort ascending; enforce ordering and uniqueness anyway.
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	series = dedupe(series)

	logrus.WithFields(logrus.Fields{
		"source":       f.Name(),
		"observations": len(series),
		"start":        startDate.Format(dateLayout),
		"end":          endDate.Format(dateLayout),
	}).Debug("fetched debt series")
	return series, nil
}

func (f *FiscalDataFetcher) fetchPage(ctx context.Context, startDate, endDate time.Time, page int) (*fiscalPage, error) {
	q := url.Values{}
	q.Set("fields", "record_date,tot_pub_debt_out_amt")
	q.Set("filter", fmt.Sprintf("record_date:gte:%s,record_date:lte:%s",
		startDate.Format(dateLayout), endDate.Format(dateLayout)))
	q.Set("sort", "record_date")
	q.Set("page[size]", fmt.Sprintf("%d", maxPageSize))
	q.Set("page[number]", fmt.Sprintf("%d", page))
	endpoint := f.BaseURL + debtEndpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &NetworkError{URL: endpoint, Err: err}
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: endpoint, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{URL: endpoint, Status: resp.StatusCode,
			Err: fmt.Errorf("body: %s", truncate(string(body), 200))}
	}

	var p fiscalPage
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &ParseError{Err: err}
	}
	if p.Data == nil {
		return nil, &ParseError{Field: "data", Err: fmt.Errorf("missing data array")}
	}
	return &p, nil
}

func dedupe(series model.DebtSeries) model.DebtSeries {
	out := series[:0]
	for i, o := range series {
		if i > 0 && o.Date.Equal(series[i-1].Date) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
