package scheduler

import (
	"testing"

	"carrental-backend/internal/config"
	"carrental-backend/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	t.Run("Registers expire job", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{ExpirePendingBookings: "0 */5 * * * *"}}
		s, err := NewScheduler(jobs.NewJobRunner(nil, cfg))
		require.NoError(t, err)
		assert.Len(t, s.Entries(), 1)

		s.Start()
		s.Stop()
	})

	t.Run("Invalid expression", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{ExpirePendingBookings: "every five minutes"}}
		_, err := NewScheduler(jobs.NewJobRunner(nil, cfg))
		assert.Error(t, err)
	})
}
