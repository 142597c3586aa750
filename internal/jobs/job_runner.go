package jobs

import (
	"context"
	"time"

	"carrental-backend/internal/config"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/service"
)

const defaultJobTimeout = 2 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	bookings service.BookingService
	config   *config.Config
	timeout  time.Duration
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(bookings service.BookingService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		bookings: bookings,
		config:   cfg,
		timeout:  defaultJobTimeout,
	}
}

// Config returns the configuration the jobs were built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and a deadline
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	log := logger.With("job", jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	start := time.Now()
	log.Info("Starting job")
	if err := jobFunc(ctx); err != nil {
		log.Error("Job failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	log.Info("Job completed", "duration_ms", time.Since(start).Milliseconds())
}

// ExpirePendingBookings cancels bookings whose checkout was abandoned so
// their dates stop blocking the car
func (jr *JobRunner) ExpirePendingBookings() {
	jr.runWithRecovery("ExpirePendingBookings", func(ctx context.Context) error {
		n, err := jr.bookings.ExpireStalePending(ctx)
		logger.Info("Expired stale pending bookings", "count", n)
		return err
	})
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ExpirePendingBookings()
}
