package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"DebtSentinel/internal/calculator"
	"DebtSentinel/internal/model"
	"DebtSentinel/internal/notifier"
	"DebtSentinel/internal/provider"
	"DebtSentinel/internal/recorder"
	"DebtSentinel/internal/render"
)

// Scheduler drives the daily refresh-and-report cycle and serves Telegram
// commands.
type Scheduler struct {
	Cron       *cron.Cron
	Provider   *provider.Provider
	Notifier   *notifier.TelegramNotifier
	Recorder   recorder.Recorder
	WindowDays int
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler. The notifier may be nil when the
// Telegram surface is not configured.
func NewScheduler(ctx context.Context, p *provider.Provider, tn *notifier.TelegramNotifier, rec recorder.Recorder, windowDays int) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Provider:   p,
		Notifier:   tn,
		Recorder:   rec,
		WindowDays: windowDays,
		Ctx:        ctx,
	}
}

// RegisterAll registers the daily refresh task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logrus.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	logrus.Info("scheduler stopped")
}

// RunDailyNow executes the daily task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	logrus.Info("running daily debt refresh")

	start := time.Now()
	series, err := s.Provider.GetSeries(s.Ctx, s.WindowDays)
	elapsed := time.Since(start)

	if err != nil {
		logrus.WithError(err).Error("daily refresh failed")
		s.recordFetch(0, elapsed, outcomeFor(err), err.Error())
		s.trySend(fmt.Sprintf("❌ Debt data refresh failed: %v", err))
		return
	}
	s.recordFetch(len(series), elapsed, "OK", "")

	if err := s.Recorder.RecordSeries(series); err != nil {
		logrus.WithError(err).Error("record series")
	}

	report := render.FormatReport(series, changeOrNil(series))
	if wc, err := calculator.WindowChange(series); err == nil {
		if avg, err := calculator.AverageDailyChange(series); err == nil {
			report += "\n" + render.FormatWindowSummary(wc, avg)
		}
	}
	s.trySend(report)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/debt", "/start":
		series, err := s.Provider.GetSeries(s.Ctx, s.WindowDays)
		if err != nil {
			return fmt.Sprintf("❌ Failed to fetch debt data: %v", err)
		}
		return render.FormatReport(series, changeOrNil(series))
	case "/table":
		series, err := s.Provider.GetSeries(s.Ctx, s.WindowDays)
		if err != nil {
			return fmt.Sprintf("❌ Failed to fetch debt data: %v", err)
		}
		return render.FormatTable(series, 15)
	case "/trend":
		series, err := s.Provider.GetSeries(s.Ctx, s.WindowDays)
		if err != nil {
			return fmt.Sprintf("❌ Failed to fetch debt data: %v", err)
		}
		wc, err := calculator.WindowChange(series)
		if err != nil {
			return fmt.Sprintf("Trend unavailable: %v", err)
		}
		avg, err := calculator.AverageDailyChange(series)
		if err != nil {
			return fmt.Sprintf("Trend unavailable: %v", err)
		}
		return render.FormatWindowSummary(wc, avg)
	case "/refresh":
		s.Provider.Invalidate(s.WindowDays)
		go s.dailyTask()
		return "♻️ Cache invalidated, refreshing..."
	default:
		return "Available commands:\n• /debt - current figure and delta\n• /table - recent observations\n• /trend - 1-year trend\n• /refresh - force a refresh"
	}
}

// changeOrNil degrades to a metric-only display when the series holds a
// single observation.
func changeOrNil(series model.DebtSeries) *model.DebtChange {
	change, err := calculator.LatestChange(series)
	if err != nil {
		logrus.WithError(err).Warn("day-over-day delta unavailable")
		return nil
	}
	return change
}

func (s *Scheduler) recordFetch(observations int, d time.Duration, outcome, detail string) {
	if err := s.Recorder.RecordFetch(&recorder.FetchEvent{
		At:           time.Now(),
		WindowDays:   s.WindowDays,
		Observations: observations,
		Duration:     d,
		Outcome:      outcome,
		Detail:       detail,
	}); err != nil {
		logrus.WithError(err).Error("record fetch event")
	}
}

func outcomeFor(err error) string {
	var netErr *provider.NetworkError
	var parseErr *provider.ParseError
	switch {
	case errors.As(err, &netErr):
		return "NETWORK_ERROR"
	case errors.As(err, &parseErr):
		return "PARSE_ERROR"
	default:
		return "ERROR"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		logrus.WithError(err).Error("send notification")
	}
}
