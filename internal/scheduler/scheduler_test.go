package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameplaza-backend/internal/jobs"
)

func TestNewScheduler(t *testing.T) {
	runner := jobs.NewJobRunner(&jobs.Services{}, jobs.Settings{
		MarkNoShowsSpec:     "0 */5 * * * *",
		PendingPaymentsSpec: "0 */10 * * * *",
		Location:            time.FixedZone("KST", 9*60*60),
	})

	s, err := NewScheduler(runner)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())

	s.Start()
	s.Stop()
}

func TestNewScheduler_BadSpec(t *testing.T) {
	runner := jobs.NewJobRunner(&jobs.Services{}, jobs.Settings{
		MarkNoShowsSpec:     "every five minutes",
		PendingPaymentsSpec: "0 */10 * * * *",
	})

	_, err := NewScheduler(runner)
	assert.Error(t, err)
}
