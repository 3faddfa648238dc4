package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockBoard/internal/config"
	"StockBoard/internal/fetch"
	"StockBoard/internal/institutional"
	"StockBoard/internal/marketdata"
	"StockBoard/internal/recorder"
	"StockBoard/internal/scheduler"
	"StockBoard/internal/server"
	"StockBoard/internal/service"
	"StockBoard/internal/technical"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockBoard starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	log.Printf("[INFO] watching %d securities across %d sectors",
		len(cfg.Watchlist), len(cfg.SectorBenchmarks))

	// Shared HTTP client with retries
	client := fetch.NewClient(cfg.FetchTimeout(), cfg.Fetch.MaxAttempts, cfg.RetryDelay())

	// Pipeline stages
	market := marketdata.NewService(client)
	flow := institutional.NewAggregator(client,
		fetch.NewPacer(time.Duration(cfg.Pacing.InstitutionalMS)*time.Millisecond))
	quotes := technical.NewFetcher(client,
		fetch.NewPacer(time.Duration(cfg.Pacing.TechnicalMS)*time.Millisecond),
		fetch.NewPacer(time.Duration(cfg.Pacing.SparklineMS)*time.Millisecond))

	svc := service.New(market, flow, quotes,
		cfg.Watchlist, cfg.Benchmarks(), cfg.Institutional.Days)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, svc, rec)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: warm the snapshot immediately on start
	if cfg.Schedule.RunOnStart {
		log.Println("[INFO] run_on_start enabled, refreshing snapshot now")
		go sched.RunNow()
	}

	// Start HTTP server
	srv := server.New(cfg.Server.Addr, svc)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	log.Println("[INFO] StockBoard is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		log.Printf("[ERROR] http server: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] shutdown http server: %v", err)
	}
	cancel()
	log.Println("[INFO] StockBoard stopped")
}
