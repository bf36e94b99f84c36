package snapshot

import (
	"energymon/internal/providers"
	"energymon/internal/snapshot/interfaces"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// FileManager persists a whole source tree as compressed JSON.
type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
	}
}

// ProvideFileManager is NewFileManager plus a cleanup that releases the
// compressor's encoder and decoder.
func ProvideFileManager(compressor interfaces.CompressorInterface, logger providers.Logger) (*FileManager, func()) {
	fm := NewFileManager(compressor, logger)
	return fm, fm.Close
}

// SaveToFile writes tree atomically: a temp file is synced and renamed into place.
func (f *FileManager) SaveToFile(fileName string, tree interface{}) (int, error) {
	jsonData, err := json.Marshal(tree)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return 0, fmt.Errorf("compress snapshot: %w", err)
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return 0, err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return 0, err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return 0, err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return 0, err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		return 0, err
	}
	f.logger.Debugf(providers.TypeMigration, "Snapshot %s: %d bytes raw, %d bytes on disk", fileName, len(jsonData), len(data))
	return len(data), nil
}

// LoadFromFile reads a snapshot written by SaveToFile or a plain JSON export.
func (f *FileManager) LoadFromFile(fileName string) (interface{}, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot %s: %w", fileName, err)
	}

	var tree interface{}
	if err := json.Unmarshal(decompressed, &tree); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", fileName, err)
	}
	return tree, nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
