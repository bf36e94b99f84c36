package migration

import (
	"context"
	"energymon/internal/models"
	"energymon/internal/providers"
	"energymon/internal/structures"
	"fmt"
	"time"
)

// Orchestrator runs the one-time migration: backup, users, devices, daily
// readings, notification registry, then validation. Steps are independent;
// re-running after a partial failure overwrites what was already written.
type Orchestrator struct {
	conf      *structures.Config
	migrator  *CollectionMigrator
	validator *Validator
	backup    *Backup
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewOrchestrator(conf *structures.Config, migrator *CollectionMigrator, validator *Validator, backup *Backup, logger providers.Logger, metrics providers.MetricsProviderInterface) *Orchestrator {
	return &Orchestrator{
		conf:      conf,
		migrator:  migrator,
		validator: validator,
		backup:    backup,
		logger:    logger,
		metrics:   metrics,
	}
}

func (o *Orchestrator) step(name string, fn func() error) error {
	start := time.Now()
	o.logger.Infof(providers.TypeMigration, "Step %s started", name)
	err := fn()
	o.metrics.ObserveStepDuration(name, time.Since(start))
	if err != nil {
		o.logger.Errorf(providers.TypeMigration, "Step %s failed: %s", name, err)
		return fmt.Errorf("%s: %w", name, err)
	}
	o.logger.Infof(providers.TypeMigration, "Step %s finished in %s", name, time.Since(start).Round(time.Millisecond))
	return nil
}

// Run executes every step in order. A failing source read or validation
// read is critical and stops the run; per-record, per-commit and registry
// failures are counted and the run continues.
func (o *Orchestrator) Run(ctx context.Context) (report models.Report) {
	start := time.Now()
	defer func() {
		report.Duration = time.Since(start)
		o.summarize(report)
	}()

	o.logger.Infof(providers.TypeMigration, "Starting migration")

	if o.conf.Migration.SkipBackup || o.conf.Migration.BackupFile == "" {
		o.logger.Warnf(providers.TypeMigration, "Source backup skipped")
	} else {
		err := o.step("backup", func() error {
			return o.backup.Save(ctx, o.conf.Migration.BackupFile)
		})
		if err == nil {
			report.Backup = o.conf.Migration.BackupFile
		}
	}

	if report.Critical = o.step("users", func() (err error) {
		report.Users, err = o.migrator.MigrateUsers(ctx)
		return err
	}); report.Critical != nil {
		return report
	}

	if report.Critical = o.step("devices", func() (err error) {
		report.Devices, err = o.migrator.MigrateDevices(ctx)
		return err
	}); report.Critical != nil {
		return report
	}

	if report.Critical = o.step("readings", func() (err error) {
		report.Readings, err = o.migrator.MigrateReadings(ctx)
		return err
	}); report.Critical != nil {
		return report
	}

	_ = o.step("registry", func() error {
		report.Registry = o.migrator.MigrateRegistry(ctx)
		return report.Registry.Err
	})

	report.Critical = o.step("validation", func() (err error) {
		report.Validation, err = o.validator.Validate(ctx)
		return err
	})
	return report
}

func (o *Orchestrator) summarize(r models.Report) {
	o.logger.Infof(providers.TypeMigration, "Users: %d migrated, %d errors", r.Users.Migrated, r.Users.Errors)
	o.logger.Infof(providers.TypeMigration, "Devices: %d migrated, %d errors", r.Devices.Migrated, r.Devices.Errors)
	o.logger.Infof(providers.TypeMigration, "Readings: %d across %d devices, %d errors", r.Readings.TotalReadings, r.Readings.TotalDevices, r.Readings.Errors)
	if r.Registry.Err != nil {
		o.logger.Errorf(providers.TypeMigration, "Registry: failed: %s", r.Registry.Err)
	} else {
		o.logger.Infof(providers.TypeMigration, "Registry: %d chats", r.Registry.ChatCount)
	}

	switch {
	case r.Critical != nil:
		o.logger.Errorf(providers.TypeMigration, "Migration FAILED after %s: %s", r.Duration.Round(time.Millisecond), r.Critical)
	case r.ExitCode() != 0:
		o.logger.Errorf(providers.TypeMigration, "Migration finished in %s but validation FAILED", r.Duration.Round(time.Millisecond))
	default:
		o.logger.Infof(providers.TypeMigration, "Migration finished in %s, validation passed", r.Duration.Round(time.Millisecond))
	}
}
