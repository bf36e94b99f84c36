package providers

import (
	"energymon/internal/structures"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeEnum_String(t *testing.T) {
	assert.Equal(t, "migration", TypeMigration.String())
	assert.Equal(t, "telegram", TypeTelegram.String())
	assert.Equal(t, "app", TypeEnum(99).String())
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   dir,
		},
	}

	logger, cleanup, err := NewLogProvider(conf)
	require.NoError(t, err)

	logger.Infof(TypeApp, "test message")
	logger.Debugf(TypeAlert, "debug is below info")
	logger.Warnf(TypeMigration, "migrated %d users", 3)
	cleanup()
	assert.Empty(t, logger.(*LogProvider).files)

	for _, name := range []string{"app", "migration", "validation", "alert", "telegram", "http"} {
		_, err := os.Stat(filepath.Join(dir, name+".log"))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "migration.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "migrated 3 users")

	data, err = os.ReadFile(filepath.Join(dir, "alert.log"))
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(data)))
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/nonexistent/directory/path",
		},
	}

	_, _, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "verbose",
			Mode:  0644,
			Dir:   t.TempDir(),
		},
	}

	_, _, err := NewLogProvider(conf)
	assert.Error(t, err)
}
