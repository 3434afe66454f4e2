package bookings

import (
	"context"
	"log"
	"time"
)

// Reaper polls the release due queue and expires unpaid bookings whose hold
// window has passed.
type Reaper struct {
	service   Service
	scheduler ReleaseScheduler
	config    *ReaperConfig
	done      chan struct{}
}

// ReaperConfig contains configuration for the release worker
type ReaperConfig struct {
	PollInterval  time.Duration
	SweepInterval time.Duration
	BatchSize     int64
}

// DefaultReaperConfig returns default reaper configuration
func DefaultReaperConfig() *ReaperConfig {
	return &ReaperConfig{
		PollInterval:  15 * time.Second, // Check the due queue every 15 seconds
		SweepInterval: 5 * time.Minute,  // Backstop scan for holds that never got queued
		BatchSize:     100,              // Process 100 due bookings at a time
	}
}

// NewReaper creates a new release worker
func NewReaper(service Service, scheduler ReleaseScheduler, config *ReaperConfig) *Reaper {
	if config == nil {
		config = DefaultReaperConfig()
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultReaperConfig().SweepInterval
	}

	return &Reaper{
		service:   service,
		scheduler: scheduler,
		config:    config,
		done:      make(chan struct{}),
	}
}

// Start starts the release worker
func (r *Reaper) Start(ctx context.Context) {
	log.Println("Starting booking release worker...")
	go r.run(ctx)
}

// Stop stops the release worker
func (r *Reaper) Stop() {
	log.Println("Stopping booking release worker...")
	close(r.done)
}

func (r *Reaper) run(ctx context.Context) {
	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	sweep := time.NewTicker(r.config.SweepInterval)
	defer sweep.Stop()

	log.Printf("Started booking release worker with %v interval", r.config.PollInterval)

	for {
		select {
		case <-ticker.C:
			r.processDue(ctx)
		case <-sweep.C:
			r.sweepOverdue(ctx)
		case <-r.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// processDue claims all due bookings and runs the release check on each.
func (r *Reaper) processDue(ctx context.Context) {
	due, err := r.scheduler.ClaimDue(ctx, time.Now(), r.config.BatchSize)
	if err != nil {
		log.Printf("Error reading booking release queue: %v", err)
		return
	}

	released := 0
	for _, bookingID := range due {
		if err := r.service.ExpireBooking(ctx, bookingID); err != nil {
			log.Printf("Error expiring booking %s: %v", bookingID, err)
			continue
		}
		released++
	}

	if released > 0 {
		log.Printf("Processed %d due bookings", released)
	}
}

// sweepOverdue catches bookings that never made it into the due queue,
// typically because scheduling failed at creation time.
func (r *Reaper) sweepOverdue(ctx context.Context) {
	released, err := r.service.ReleaseOverdue(ctx, int(r.config.BatchSize))
	if err != nil {
		log.Printf("Error sweeping overdue bookings: %v", err)
		return
	}
	if released > 0 {
		log.Printf("Swept %d overdue bookings", released)
	}
}
