package migration

import (
	"context"
	"energymon/internal/models"
	"energymon/internal/providers"
	"energymon/internal/store"
	"energymon/internal/structures"
	"fmt"
)

// Validator compares source and destination counts after a migration.
// It never repairs anything; the result is for the operator.
type Validator struct {
	conf    *structures.Config
	src     store.SourceStore
	dst     store.DestinationStore
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewValidator(conf *structures.Config, src store.SourceStore, dst store.DestinationStore, logger providers.Logger, metrics providers.MetricsProviderInterface) *Validator {
	return &Validator{conf: conf, src: src, dst: dst, logger: logger, metrics: metrics}
}

func (v *Validator) sourceCount(ctx context.Context, path string) (int, map[string]interface{}, error) {
	raw, err := v.src.ReadAll(ctx, path)
	if err != nil {
		return 0, nil, fmt.Errorf("read source %s: %w", path, err)
	}
	node := models.AsMap(raw)
	return len(node), node, nil
}

// Validate checks user and device counts for exact equality. The reading
// sample for one device is reported but does not affect Valid.
func (v *Validator) Validate(ctx context.Context) (*models.ValidationResult, error) {
	srcUsers, _, err := v.sourceCount(ctx, v.conf.Source.UsersPath)
	if err != nil {
		return nil, err
	}
	dstUsers, err := v.dst.ReadCount(ctx, v.conf.Destination.UsersCollection)
	if err != nil {
		return nil, fmt.Errorf("count destination users: %w", err)
	}

	srcDevices, devices, err := v.sourceCount(ctx, v.conf.Source.DevicesPath)
	if err != nil {
		return nil, err
	}
	dstDevices, err := v.dst.ReadCount(ctx, v.conf.Destination.DevicesCollection)
	if err != nil {
		return nil, fmt.Errorf("count destination devices: %w", err)
	}

	res := &models.ValidationResult{
		Users:   models.NewCountCheck(srcUsers, dstUsers),
		Devices: models.NewCountCheck(srcDevices, dstDevices),
	}
	res.Valid = res.Users.Match && res.Devices.Match

	if keys := sortedKeys(devices); len(keys) > 0 {
		sample, err := v.sampleReadings(ctx, keys[0])
		if err != nil {
			v.logger.Warnf(providers.TypeValidation, "Reading sample for %s unavailable: %s", keys[0], err)
		} else {
			res.Sample = sample
		}
	}

	v.report(res)
	return res, nil
}

func (v *Validator) sampleReadings(ctx context.Context, deviceID string) (*models.SampleCheck, error) {
	srcCount, _, err := v.sourceCount(ctx, store.Join(v.conf.Source.ReadingsPath, deviceID))
	if err != nil {
		return nil, err
	}
	parent := store.Join(v.conf.Destination.DevicesCollection, deviceID)
	dstCount, err := v.dst.ReadSubcollectionCount(ctx, parent, v.conf.Destination.ReadingsCollection)
	if err != nil {
		return nil, fmt.Errorf("count destination readings: %w", err)
	}
	return &models.SampleCheck{DeviceID: deviceID, CountCheck: models.NewCountCheck(srcCount, dstCount)}, nil
}

func (v *Validator) report(res *models.ValidationResult) {
	v.metrics.SetValidation("users", res.Users.Match)
	v.metrics.SetValidation("devices", res.Devices.Match)
	v.logger.Infof(providers.TypeValidation, "Users: source=%d destination=%d match=%t", res.Users.Source, res.Users.Destination, res.Users.Match)
	v.logger.Infof(providers.TypeValidation, "Devices: source=%d destination=%d match=%t", res.Devices.Source, res.Devices.Destination, res.Devices.Match)

	if s := res.Sample; s != nil {
		v.metrics.SetValidation("sample_readings", s.Match)
		if s.Match {
			v.logger.Infof(providers.TypeValidation, "Sample %s readings: source=%d destination=%d", s.DeviceID, s.Source, s.Destination)
		} else {
			// Known gap: a sample mismatch is reported but does not fail the run.
			v.logger.Warnf(providers.TypeValidation, "Sample %s readings mismatch: source=%d destination=%d", s.DeviceID, s.Source, s.Destination)
		}
	}
}
