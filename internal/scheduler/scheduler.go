// Package scheduler runs the aggregation pipeline on a cron schedule so the
// server always has a warm snapshot to serve.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"StockBoard/internal/recorder"
	"StockBoard/internal/service"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the periodic refresh task.
type Scheduler struct {
	Cron     *cron.Cron
	Service  *service.Service
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc *service.Service, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Service:  svc,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// Register adds the refresh task at the given cron spec.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the refresh task immediately (for RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running scheduled refresh")
	started := time.Now()
	resp := s.Service.Complete(s.Ctx)
	coverage := s.Service.LastCoverage()

	if err := s.Recorder.RecordRun(&recorder.RunRecord{
		Mode:        "complete",
		Stocks:      len(resp.Stocks),
		SuccessDays: coverage.SuccessDays,
		Bullish:     resp.Summary.Bullish,
		Neutral:     resp.Summary.Neutral,
		Bearish:     resp.Summary.Bearish,
		Duration:    time.Since(started),
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}
