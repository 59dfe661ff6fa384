package scheduler

import (
	"context"
	"log"
	"time"

	"equilibrio-api/services/marketdata"

	"github.com/go-co-op/gocron"
)

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron   *gocron.Scheduler
	market *marketdata.Service
}

// NewScheduler creates a new scheduler instance
func NewScheduler(market *marketdata.Service) *Scheduler {
	return &Scheduler{
		cron:   gocron.NewScheduler(time.UTC),
		market: market,
	}
}

// Start starts all scheduled jobs
func (s *Scheduler) Start() {
	log.Println("Starting scheduler...")

	// Refresh the market snapshot every 5 minutes so interactive requests
	// mostly hit a warm snapshot.
	s.cron.Every(5).Minutes().Do(func() {
		s.refreshSnapshot()
	})

	// Force a full refresh daily at 00:05 UTC to pick up universe changes.
	s.cron.Every(1).Day().At("00:05").Do(func() {
		s.refreshSnapshot()
	})

	s.cron.StartAsync()
	log.Println("Scheduler started successfully")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) refreshSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.market.Refresh(ctx); err != nil {
		log.Printf("Scheduled snapshot refresh failed: %v", err)
		return
	}
	log.Println("Scheduled snapshot refresh complete")
}
