package migration

import (
	"context"
	"energymon/internal/models"
	"energymon/internal/providers"
	"energymon/internal/store"
	"energymon/internal/structures"
	"fmt"
	"sort"
	"time"
)

// CollectionMigrator moves one entity kind at a time from the source tree to
// the destination collections.
type CollectionMigrator struct {
	conf    *structures.Config
	src     store.SourceStore
	dst     store.DestinationStore
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	now     func() time.Time
}

func NewCollectionMigrator(conf *structures.Config, src store.SourceStore, dst store.DestinationStore, logger providers.Logger, metrics providers.MetricsProviderInterface) *CollectionMigrator {
	return &CollectionMigrator{
		conf:    conf,
		src:     src,
		dst:     dst,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

func (m *CollectionMigrator) readCollection(ctx context.Context, path string) (map[string]interface{}, error) {
	raw, err := m.src.ReadAll(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}
	return models.AsMap(raw), nil
}

func sortedKeys(node map[string]interface{}) []string {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// migrateEach writes one document per source record and tallies the outcomes.
func (m *CollectionMigrator) migrateEach(ctx context.Context, collection string, node map[string]interface{}, toDoc func(id string, raw interface{}) map[string]interface{}) models.CollectionResult {
	res := models.CollectionResult{Collection: collection}
	for _, id := range sortedKeys(node) {
		r := m.writeRecord(ctx, store.Join(collection, id), id, toDoc(id, node[id]))
		if r.Err != nil {
			m.logger.Errorf(providers.TypeMigration, "Migrating %s/%s failed: %s", collection, id, r.Err)
		}
		res.Add(r)
	}
	m.metrics.AddMigrated(collection, res.Migrated)
	m.metrics.AddMigrationErrors(collection, res.Errors)
	return res
}

func (m *CollectionMigrator) writeRecord(ctx context.Context, path, id string, doc map[string]interface{}) models.RecordResult {
	if err := m.dst.SetDocument(ctx, path, doc); err != nil {
		return models.Failed(id, err)
	}
	return models.Succeeded(id)
}

func (m *CollectionMigrator) MigrateUsers(ctx context.Context) (models.CollectionResult, error) {
	node, err := m.readCollection(ctx, m.conf.Source.UsersPath)
	if err != nil {
		return models.CollectionResult{Collection: m.conf.Destination.UsersCollection}, err
	}
	m.logger.Infof(providers.TypeMigration, "Migrating %d users", len(node))

	res := m.migrateEach(ctx, m.conf.Destination.UsersCollection, node, func(id string, raw interface{}) map[string]interface{} {
		return models.DecodeUser(id, raw).Document()
	})
	m.logger.Infof(providers.TypeMigration, "Users: %d migrated, %d errors", res.Migrated, res.Errors)
	return res, nil
}

func (m *CollectionMigrator) MigrateDevices(ctx context.Context) (models.CollectionResult, error) {
	node, err := m.readCollection(ctx, m.conf.Source.DevicesPath)
	if err != nil {
		return models.CollectionResult{Collection: m.conf.Destination.DevicesCollection}, err
	}
	m.logger.Infof(providers.TypeMigration, "Migrating %d devices", len(node))

	now := m.now()
	res := m.migrateEach(ctx, m.conf.Destination.DevicesCollection, node, func(id string, raw interface{}) map[string]interface{} {
		return models.DecodeDevice(id, raw, now).Document()
	})
	m.logger.Infof(providers.TypeMigration, "Devices: %d migrated, %d errors", res.Migrated, res.Errors)
	return res, nil
}

// MigrateReadings moves daily readings under each device's readings
// sub-collection. Weekly and yearly aggregates are not carried over.
func (m *CollectionMigrator) MigrateReadings(ctx context.Context) (models.ReadingsResult, error) {
	var res models.ReadingsResult

	node, err := m.readCollection(ctx, m.conf.Source.ReadingsPath)
	if err != nil {
		return res, err
	}
	m.logger.Infof(providers.TypeMigration, "Migrating daily readings for %d devices", len(node))

	for _, deviceID := range sortedKeys(node) {
		readings := models.AsMap(node[deviceID])
		parent := store.Join(m.conf.Destination.DevicesCollection, deviceID, m.conf.Destination.ReadingsCollection)
		writer := NewBatchWriter(m.dst, m.logger, m.metrics, m.conf.Destination.ReadingsCollection, m.conf.Migration.BatchSize)

		skipped := 0
		for _, ts := range sortedKeys(readings) {
			reading, ok := models.DecodeReading(ts, readings[ts])
			if !ok {
				skipped++
				continue
			}
			writer.Add(ctx, store.Write{
				Path: store.Join(parent, ts),
				Data: reading.Document(),
				Mode: store.WriteSet,
			})
		}
		stats := writer.Flush(ctx)

		res.TotalDevices++
		res.TotalReadings += stats.Written
		res.Skipped += skipped
		res.Errors += stats.FailedCommits
		m.logger.Debugf(providers.TypeMigration, "Device %s: %d readings in %d commits, %d skipped, %d lost", deviceID, stats.Written, stats.Commits, skipped, stats.Lost)
	}

	m.logger.Infof(providers.TypeMigration, "Readings: %d across %d devices, %d skipped, %d failed commits", res.TotalReadings, res.TotalDevices, res.Skipped, res.Errors)
	return res, nil
}

// MigrateRegistry consolidates the chat set and the update cursor into one
// document. Any failure fails the whole step.
func (m *CollectionMigrator) MigrateRegistry(ctx context.Context) models.RegistryResult {
	chats, err := m.src.ReadAll(ctx, m.conf.Source.ChatsPath)
	if err != nil {
		return m.registryFailed(fmt.Errorf("read chats: %w", err))
	}
	lastUpdate, err := m.src.ReadAll(ctx, m.conf.Source.LastUpdatePath)
	if err != nil {
		return m.registryFailed(fmt.Errorf("read last update id: %w", err))
	}

	reg := models.DecodeRegistry(chats, lastUpdate)
	if err := m.dst.SetDocument(ctx, m.conf.Destination.RegistryDocument, reg.Document()); err != nil {
		return m.registryFailed(fmt.Errorf("write registry: %w", err))
	}

	m.metrics.AddMigrated("registry", len(reg.Chats))
	m.logger.Infof(providers.TypeMigration, "Registry: %d chats, cursor %d", len(reg.Chats), reg.LastUpdateID)
	return models.RegistryResult{ChatCount: len(reg.Chats)}
}

func (m *CollectionMigrator) registryFailed(err error) models.RegistryResult {
	m.metrics.AddMigrationErrors("registry", 1)
	m.logger.Errorf(providers.TypeMigration, "Registry migration failed: %s", err)
	return models.RegistryResult{Err: err}
}
