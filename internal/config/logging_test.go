package config

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerToLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := NewLoggerTo(&Config{Environment: "prod"}, &buf)
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("shown", "folder_id", "f1")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "f1", entry["folder_id"])

	buf.Reset()
	logger, _ = NewLoggerTo(&Config{Environment: "dev"}, &buf)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	var buf bytes.Buffer
	logger, closeFn := NewLoggerTo(&Config{Environment: "prod", LogFile: path, LogMaxSizeMB: 1, LogMaxBackups: 1}, &buf)

	logger.Info("rotated")
	require.NoError(t, closeFn())
	assert.FileExists(t, path)
}
