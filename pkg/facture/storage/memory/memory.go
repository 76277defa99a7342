package memory

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/myfacture/backend/pkg/facture"
)

// Backend is an in-memory implementation of the facture.BlobStore
// interface, intended for tests and local development.
type Backend struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	updated map[string]time.Time
}

// New creates a new in-memory storage backend
func New() facture.BlobStore {
	return &Backend{
		blobs:   make(map[string][]byte),
		updated: make(map[string]time.Time),
	}
}

// Upload stores the payload in memory
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[key] = data
	b.updated[key] = time.Now().UTC()
	return nil
}

// Download returns a reader over the stored payload
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.blobs[key]
	if !exists {
		return nil, facture.ErrBlobNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// GetBlobMeta retrieves metadata for a stored payload
func (b *Backend) GetBlobMeta(ctx context.Context, key string) (*facture.BlobMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.blobs[key]
	if !exists {
		return nil, facture.ErrBlobNotFound
	}

	return &facture.BlobMeta{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: http.DetectContentType(data),
		UpdatedAt:   b.updated[key],
	}, nil
}
