package scheduler

import (
	"context"
	"energymon/internal/providers"
	"energymon/internal/scheduler/interfaces"
	"energymon/internal/services"
	"energymon/internal/structures"
	"errors"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

// Scheduler runs alert evaluation and target discovery on fixed intervals.
// A job still running when its next tick fires is not started again.
type Scheduler struct {
	config     *structures.Config
	logger     providers.Logger
	alerts     services.AlertServiceInterface
	registry   services.RegistryServiceInterface
	cron       *gron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	evaluating atomic.Bool
}

func (s *Scheduler) Init() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Alert.DiscoveryInterval), s.PollTargets)
	s.cron.AddFunc(gron.Every(s.config.Alert.Interval), s.EvaluateAlerts)

	s.logger.Infof(providers.TypeApp, "Scheduler started: alerts every %s, discovery every %s", s.config.Alert.Interval, s.config.Alert.DiscoveryInterval)
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
}

// EvaluateAlerts runs one alert cycle unless one is already in flight.
func (s *Scheduler) EvaluateAlerts() {
	if !s.evaluating.CompareAndSwap(false, true) {
		s.logger.Warnf(providers.TypeAlert, "Previous evaluation still running, tick skipped")
		return
	}
	defer s.evaluating.Store(false)

	ctx, cancel := context.WithTimeout(s.context(), s.config.Alert.Interval)
	defer cancel()
	if _, err := s.alerts.Evaluate(ctx); err != nil {
		s.logger.Errorf(providers.TypeAlert, "Evaluation failed: %s", err)
	}
}

// PollTargets runs one discovery poll. The registry service refuses to
// start a poll while another one, scheduled or HTTP-triggered, is in flight.
func (s *Scheduler) PollTargets() {
	timeout := s.config.Alert.DiscoveryInterval + time.Duration(s.config.Alert.PollTimeout)*time.Second
	ctx, cancel := context.WithTimeout(s.context(), timeout)
	defer cancel()
	_, err := s.registry.Poll(ctx)
	switch {
	case errors.Is(err, services.ErrPollInProgress):
		s.logger.Debugf(providers.TypeTelegram, "Previous poll still running, tick skipped")
	case err != nil:
		s.logger.Errorf(providers.TypeTelegram, "Poll failed: %s", err)
	}
}

func (s *Scheduler) context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func NewScheduler(config *structures.Config, logger providers.Logger, alerts services.AlertServiceInterface, registry services.RegistryServiceInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		alerts:   alerts,
		registry: registry,
	}
}
