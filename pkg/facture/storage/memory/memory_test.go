package memory_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfacture/backend/pkg/facture"
	"github.com/myfacture/backend/pkg/facture/storage/memory"
)

func TestMemoryBackend(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	err := backend.Upload(ctx, "a.txt", strings.NewReader("hello"))
	require.NoError(t, err)

	reader, err := backend.Download(ctx, "a.txt")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	meta, err := backend.GetBlobMeta(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), meta.Size)
	assert.Contains(t, meta.ContentType, "text/plain")
}

func TestMemoryBackendNotFound(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	_, err := backend.Download(ctx, "missing")
	assert.ErrorIs(t, err, facture.ErrBlobNotFound)

	_, err = backend.GetBlobMeta(ctx, "missing")
	assert.ErrorIs(t, err, facture.ErrBlobNotFound)
}
