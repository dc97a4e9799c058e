package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	_, err := NewLogger("verbose", "")
	require.Error(t, err)

	logger, err := NewLogger("debug", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLoggerTeesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "api.log")
	logger, err := NewLogger("info", path)
	require.NoError(t, err)
	logger.Info("route created")
	logger.Debug("below level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"route created"`)
	assert.NotContains(t, string(data), "below level")
}
