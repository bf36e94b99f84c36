package controllers

import (
	"context"
	"energymon/internal/models"
	"energymon/internal/services"
	"time"
)

type mockAlerts struct {
	summary    models.AlertSummary
	err        error
	evaluated  int
	hasSummary bool
}

func (m *mockAlerts) Evaluate(_ context.Context) (models.AlertSummary, error) {
	m.evaluated++
	if m.err != nil {
		return models.AlertSummary{}, m.err
	}
	m.hasSummary = true
	return m.summary, nil
}

func (m *mockAlerts) LastSummary() (models.AlertSummary, bool) {
	return m.summary, m.hasSummary
}

type mockRegistry struct {
	reg     models.Registry
	poll    services.PollResult
	loadErr error
	pollErr error
}

func (m *mockRegistry) Load(_ context.Context) (models.Registry, error) {
	return m.reg, m.loadErr
}

func (m *mockRegistry) Poll(_ context.Context) (services.PollResult, error) {
	return m.poll, m.pollErr
}

func (m *mockRegistry) RemoveInactive(_ context.Context, _ time.Duration) (int, error) {
	return 0, nil
}
