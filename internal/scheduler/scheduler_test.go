package scheduler

import (
	"context"
	"energymon/internal/models"
	"energymon/internal/services"
	"energymon/internal/structures"
	"energymon/internal/testutil"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *structures.Config {
	return &structures.Config{
		Alert: structures.AlertConfig{
			Interval:          time.Minute,
			DiscoveryInterval: time.Minute,
		},
	}
}

// blockingAlerts holds Evaluate until release is closed.
type blockingAlerts struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
	err     error
}

func (b *blockingAlerts) Evaluate(ctx context.Context) (models.AlertSummary, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	if b.started != nil {
		b.started <- struct{}{}
	}
	if b.release != nil {
		select {
		case <-b.release:
		case <-ctx.Done():
		}
	}
	return models.AlertSummary{}, b.err
}

func (b *blockingAlerts) LastSummary() (models.AlertSummary, bool) { return models.AlertSummary{}, false }

func (b *blockingAlerts) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

type countingRegistry struct {
	mu    sync.Mutex
	polls int
	err   error
}

func (c *countingRegistry) Load(_ context.Context) (models.Registry, error) {
	return models.NewRegistry(), nil
}

func (c *countingRegistry) Poll(_ context.Context) (services.PollResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polls++
	return services.PollResult{}, c.err
}

func (c *countingRegistry) RemoveInactive(_ context.Context, _ time.Duration) (int, error) {
	return 0, nil
}

func TestScheduler_EvaluateAlertsSkipsOverlappingRun(t *testing.T) {
	alerts := &blockingAlerts{started: make(chan struct{}, 1), release: make(chan struct{})}
	logger := &testutil.MockLogger{}
	s := NewScheduler(testConfig(), logger, alerts, &countingRegistry{}).(*Scheduler)

	done := make(chan struct{})
	go func() {
		s.EvaluateAlerts()
		close(done)
	}()
	<-alerts.started

	s.EvaluateAlerts()
	assert.Equal(t, 1, alerts.Calls())
	assert.True(t, logger.Contains("warn", "tick skipped"))

	close(alerts.release)
	<-done

	alerts.started = nil
	s.EvaluateAlerts()
	assert.Equal(t, 2, alerts.Calls())
}

func TestScheduler_EvaluateAlertsLogsError(t *testing.T) {
	logger := &testutil.MockLogger{}
	alerts := &blockingAlerts{err: errors.New("registry unavailable")}
	s := NewScheduler(testConfig(), logger, alerts, &countingRegistry{}).(*Scheduler)

	s.EvaluateAlerts()
	assert.True(t, logger.Contains("error", "registry unavailable"))
}

func TestScheduler_PollTargets(t *testing.T) {
	logger := &testutil.MockLogger{}
	registry := &countingRegistry{err: errors.New("timeout")}
	s := NewScheduler(testConfig(), logger, &blockingAlerts{}, registry).(*Scheduler)

	s.PollTargets()
	s.PollTargets()
	assert.Equal(t, 2, registry.polls)
	assert.True(t, logger.Contains("error", "Poll failed"))
}

func TestScheduler_PollTargetsSkipsPollInProgress(t *testing.T) {
	logger := &testutil.MockLogger{}
	registry := &countingRegistry{err: services.ErrPollInProgress}
	s := NewScheduler(testConfig(), logger, &blockingAlerts{}, registry).(*Scheduler)

	s.PollTargets()
	assert.True(t, logger.Contains("debug", "tick skipped"))
	assert.False(t, logger.Contains("error", "Poll failed"))
}

func TestScheduler_InitStop(t *testing.T) {
	logger := &testutil.MockLogger{}
	s := NewScheduler(testConfig(), logger, &blockingAlerts{}, &countingRegistry{})

	s.Init()
	s.Stop()
	require.True(t, logger.Contains("info", "Scheduler started"))
}

func TestScheduler_StopWithoutInit(t *testing.T) {
	s := NewScheduler(testConfig(), &testutil.MockLogger{}, &blockingAlerts{}, &countingRegistry{})
	assert.NotPanics(t, s.Stop)
}
