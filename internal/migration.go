package internal

import (
	"context"
	"energymon/internal/migration"
	"energymon/internal/models"
	"energymon/internal/providers"
	"energymon/internal/structures"
)

// Migration is the run-once job behind cmd/migrate.
type Migration struct {
	orchestrator *migration.Orchestrator
	conf         *structures.Config
	logger       providers.Logger
}

func NewMigration(orchestrator *migration.Orchestrator, conf *structures.Config, logger providers.Logger) *Migration {
	return &Migration{orchestrator: orchestrator, conf: conf, logger: logger}
}

// Run migrates, pushes metrics if configured, and returns the report.
// The process exit status is report.ExitCode().
func (m *Migration) Run(ctx context.Context) models.Report {
	report := m.orchestrator.Run(ctx)
	if err := providers.PushMetrics(m.conf, "energymon_migrate"); err != nil {
		m.logger.Warnf(providers.TypeApp, "Pushing metrics failed: %s", err)
	}
	return report
}
