package render

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"DebtSentinel/internal/model"
)

// Currency formats an amount as a thousands-separated dollar string with
// two decimal places, e.g. "$36,001,494,655,914.52". Formatting goes through
// big.Int so amounts beyond float64 precision stay exact.
func Currency(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return "$" + fixed
	}
	s := "$" + humanize.BigComma(n) + "." + fracPart
	if d.IsNegative() {
		s = "-" + s
	}
	return s
}

// SignedCurrency formats a delta with an explicit sign.
func SignedCurrency(d decimal.Decimal) string {
	if d.Sign() >= 0 {
		return "+" + Currency(d)
	}
	return "-" + Currency(d.Abs())
}

// deltaMarker flags the direction of a debt movement. The semantics are
// inverse to a typical price metric: an increase is unfavorable.
func deltaMarker(delta decimal.Decimal) string {
	switch delta.Sign() {
	case 1:
		return "🔴"
	case -1:
		return "🟢"
	default:
		return "⚪"
	}
}

// FormatReport formats the current debt figure and its day-over-day delta
// into a Telegram HTML message.
func FormatReport(series model.DebtSeries, change *model.DebtChange) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🇺🇸 <b>US National Debt</b> | %s\n\n", time.Now().Format("2006-01-02")))

	latest, ok := series.Latest()
	if !ok {
		b.WriteString("No data available.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Total Public Debt: <b>%s</b>\n", Currency(latest.TotalDebt)))
	b.WriteString(fmt.Sprintf("As of: %s\n", latest.Date.Format("January 2, 2006")))

	if change != nil {
		b.WriteString(fmt.Sprintf("\n%s Day-over-day: %s\n", deltaMarker(change.Delta), SignedCurrency(change.Delta)))
		b.WriteString(fmt.Sprintf("   (vs %s, %s)\n", change.PreviousDate.Format("Jan 2"), Currency(change.Previous)))
	} else {
		b.WriteString("\nDay-over-day change unavailable (single observation).\n")
	}

	start, end := series.Span()
	b.WriteString(fmt.Sprintf("\n📈 Window: %s → %s (%d observations)\n",
		start.Format("2006-01-02"), end.Format("2006-01-02"), len(series)))

	return b.String()
}

// FormatWindowSummary appends trend figures for the retrieved window.
func FormatWindowSummary(windowChange *model.DebtChange, avgDaily decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("📊 <b>1-Year Trend</b>\n\n")
	b.WriteString(fmt.Sprintf("%s Window change: %s\n", deltaMarker(windowChange.Delta), SignedCurrency(windowChange.Delta)))
	b.WriteString(fmt.Sprintf("Average per observation: %s\n", SignedCurrency(avgDaily)))
	return b.String()
}

// FormatTable renders the most recent rows of the series as a monospace
// table, newest first.
func FormatTable(series model.DebtSeries, limit int) string {
	if limit <= 0 || limit > len(series) {
		limit = len(series)
	}
	var b strings.Builder
	b.WriteString("<pre>")
	b.WriteString(fmt.Sprintf("%-12s %26s\n", "Date", "Total Debt"))
	for i := len(series) - 1; i >= len(series)-limit; i-- {
		o := series[i]
		b.WriteString(fmt.Sprintf("%-12s %26s\n", o.Date.Format("2006-01-02"), Currency(o.TotalDebt)))
	}
	b.WriteString("</pre>")
	return b.String()
}
