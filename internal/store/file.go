package store

import (
	"energymon/internal/snapshot"
	"fmt"
)

// NewFileSource loads a JSON export (or a compressed backup) of the whole
// tree into memory and serves reads from it.
func NewFileSource(fm *snapshot.FileManager, fileName string) (*MemorySource, error) {
	tree, err := fm.LoadFromFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("load source export: %w", err)
	}
	root, ok := tree.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("load source export %s: root is not an object", fileName)
	}
	return NewMemorySource(root), nil
}

var _ SourceStore = (*MemorySource)(nil)
