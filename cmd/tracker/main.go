package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"DebtSentinel/internal/config"
	"DebtSentinel/internal/logger"
	"DebtSentinel/internal/notifier"
	"DebtSentinel/internal/provider"
	"DebtSentinel/internal/recorder"
	"DebtSentinel/internal/scheduler"
	"DebtSentinel/internal/server"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("config validation")
	}

	logger.Setup(cfg.Log.Level, cfg.Log.File)
	logrus.Info("DebtSentinel starting...")

	// Init fetcher and provider
	fetcher := provider.NewFiscalDataFetcher(cfg.DataSource.BaseURL, cfg.Proxy,
		time.Duration(cfg.DataSource.TimeoutSeconds)*time.Second)
	logrus.WithField("source", fetcher.Name()).Info("data source ready")

	prov := provider.NewProvider(fetcher, time.Duration(cfg.Cache.TTLHours)*time.Hour)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logrus.WithError(err).Warn("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier (optional surface)
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, prov, tn, rec, cfg.DataSource.WindowDays)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		logrus.WithError(err).Fatal("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logrus.Info("telegram polling started")
	}

	// Start the dashboard server
	srv := server.NewServer(prov, cfg.Server.ListenAddr, cfg.DataSource.WindowDays)
	go func() {
		if err := srv.Run(); err != nil {
			logrus.WithError(err).Fatal("http server")
		}
	}()

	// Optional: warm the cache and send the first report on start
	if os.Getenv("RUN_ON_START") == "true" {
		logrus.Info("RUN_ON_START enabled, executing daily task now")
		go sched.RunDailyNow()
	}

	logrus.Info("DebtSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logrus.Info("shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("http server shutdown")
	}
	logrus.Info("DebtSentinel stopped")
}
