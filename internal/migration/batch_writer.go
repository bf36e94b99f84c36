package migration

import (
	"context"
	"energymon/internal/providers"
	"energymon/internal/store"
)

// BatchStats counts what a BatchWriter has committed so far.
type BatchStats struct {
	Commits       int
	FailedCommits int
	Written       int
	Lost          int
}

// BatchWriter groups writes for one logical collection into commits of at
// most size writes. A failed commit is logged and counted; its writes are
// lost for this run and later commits still go through.
type BatchWriter struct {
	dst        store.DestinationStore
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	collection string
	size       int
	pending    []store.Write
	stats      BatchStats
}

func NewBatchWriter(dst store.DestinationStore, logger providers.Logger, metrics providers.MetricsProviderInterface, collection string, size int) *BatchWriter {
	if size <= 0 || size > store.MaxGroupSize {
		size = store.MaxGroupSize
	}
	return &BatchWriter{
		dst:        dst,
		logger:     logger,
		metrics:    metrics,
		collection: collection,
		size:       size,
		pending:    make([]store.Write, 0, size),
	}
}

// Add queues one write and commits as soon as the group is full.
func (b *BatchWriter) Add(ctx context.Context, w store.Write) {
	b.pending = append(b.pending, w)
	if len(b.pending) >= b.size {
		b.commit(ctx)
	}
}

// Flush commits any partial group left over.
func (b *BatchWriter) Flush(ctx context.Context) BatchStats {
	if len(b.pending) > 0 {
		b.commit(ctx)
	}
	return b.stats
}

func (b *BatchWriter) Stats() BatchStats {
	return b.stats
}

func (b *BatchWriter) commit(ctx context.Context) {
	group := b.pending
	b.pending = make([]store.Write, 0, b.size)
	b.stats.Commits++

	if err := b.dst.CommitGroup(ctx, group); err != nil {
		b.stats.FailedCommits++
		b.stats.Lost += len(group)
		b.metrics.IncCommits(false)
		b.metrics.AddMigrationErrors(b.collection, 1)
		b.logger.Errorf(providers.TypeMigration, "Commit #%d of %s failed, %d writes lost: %s", b.stats.Commits, b.collection, len(group), err)
		return
	}
	b.stats.Written += len(group)
	b.metrics.IncCommits(true)
	b.metrics.AddMigrated(b.collection, len(group))
	b.logger.Debugf(providers.TypeMigration, "Committed %d writes to %s", len(group), b.collection)
}
