package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsconsole/internal/config"
)

func TestOpenMemoryBackends(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b, err := Open(context.Background(), &config.Config{MetadataBackend: "memory", ObjectBackend: "memory"}, logger)
	require.NoError(t, err)
	defer b.Close()

	assert.NotNil(t, b.Repos.Folders)
	assert.NotNil(t, b.Repos.TxManager)
	assert.NotNil(t, b.Objects)
	assert.Nil(t, b.Pool)
}

func TestOpenUnknownBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := Open(context.Background(), &config.Config{MetadataBackend: "sqlite", ObjectBackend: "memory"}, logger)
	assert.ErrorContains(t, err, "METADATA_BACKEND")

	_, err = Open(context.Background(), &config.Config{MetadataBackend: "memory", ObjectBackend: "gcs"}, logger)
	assert.ErrorContains(t, err, "OBJECT_BACKEND")
}
