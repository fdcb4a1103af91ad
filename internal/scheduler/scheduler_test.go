package scheduler

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/match-predictor/internal/ml"
)

func testScheduler(t *testing.T) *Scheduler {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	registry := ml.NewRegistry("rf_test", []string{t.TempDir()}, logger)
	return NewScheduler(nil, registry, nil, logger)
}

func TestStartWithoutJobsFails(t *testing.T) {
	s := testScheduler(t)
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestScheduleRefreshRequiresFetcher(t *testing.T) {
	s := testScheduler(t)
	assert.Error(t, s.ScheduleRefresh("0 6 * * *"))
}

func TestScheduleRetrainBadCron(t *testing.T) {
	s := testScheduler(t)
	assert.Error(t, s.ScheduleRetrain("not a cron expression"))
}

func TestStartAndStop(t *testing.T) {
	s := testScheduler(t)
	require.NoError(t, s.ScheduleRetrain("@daily"))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.False(t, s.NextRun().IsZero())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop())
}

func TestCannotScheduleWhileRunning(t *testing.T) {
	s := testScheduler(t)
	require.NoError(t, s.ScheduleRetrain("@daily"))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.ScheduleRetrain("@hourly"))
}
