package migration

import (
	"context"
	"energymon/internal/providers"
	"energymon/internal/snapshot"
	"energymon/internal/store"
	"fmt"
)

// Backup snapshots the entire source tree before anything is written, so the
// old store can be restored if the cutover is rolled back.
type Backup struct {
	src    store.SourceStore
	fm     *snapshot.FileManager
	logger providers.Logger
}

func NewBackup(src store.SourceStore, fm *snapshot.FileManager, logger providers.Logger) *Backup {
	return &Backup{src: src, fm: fm, logger: logger}
}

func (b *Backup) Save(ctx context.Context, fileName string) error {
	tree, err := b.src.ReadAll(ctx, "/")
	if err != nil {
		return fmt.Errorf("read source tree: %w", err)
	}
	size, err := b.fm.SaveToFile(fileName, tree)
	if err != nil {
		return fmt.Errorf("write backup %s: %w", fileName, err)
	}
	b.logger.Infof(providers.TypeMigration, "Source backup written to %s (%d bytes)", fileName, size)
	return nil
}
