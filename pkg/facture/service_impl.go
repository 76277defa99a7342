package facture

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/myfacture/backend/pkg/facture/blobkey"
)

// UploadsPrefix is the path segment under which stored blobs are
// addressable, both in the recorded FilePath and on the HTTP surface.
const UploadsPrefix = "uploads"

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	keys       blobkey.Generator
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the metadata repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithKeyGenerator sets the blob key generation strategy
func WithKeyGenerator(g blobkey.Generator) Option {
	return func(s *service) {
		s.keys = g
	}
}

// New creates a new service instance with the given options. A
// repository and a blob store are required; the key generator defaults
// to the UUID scheme.
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.keys == nil {
		s.keys = blobkey.NewUUIDGenerator()
	}

	return s, nil
}

func (s *service) CreateFacture(ctx context.Context, req CreateFactureRequest) (*Facture, error) {
	// Validation runs before any side effect, so a rejected request
	// leaves neither a blob nor a row behind.
	if req.File == nil || strings.TrimSpace(req.Price) == "" || strings.TrimSpace(req.Category) == "" {
		return nil, ErrMissingFields
	}

	status := req.PaymentStatus
	if status == "" {
		status = string(StatusUnpaid)
	}

	key := s.keys.GenerateKey(req.FileName)
	if err := s.blobStore.Upload(ctx, key, req.File); err != nil {
		return nil, &StorageError{Key: key, Op: "upload", Err: err}
	}

	f := &Facture{
		FilePath:  path.Join(UploadsPrefix, key),
		Price:     req.Price,
		Category:  req.Category,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}

	// Write-then-record: the blob is already on disk, so a failed
	// insert orphans it. There is no compensation step.
	if err := s.repository.CreateFacture(ctx, f); err != nil {
		slog.Error("Failed to record facture, blob orphaned", "key", key, "error", err)
		return nil, err
	}

	slog.Info("Facture created", "id", f.ID, "file_path", f.FilePath, "category", f.Category)
	return f, nil
}

func (s *service) ListFactures(ctx context.Context) ([]*Facture, error) {
	return s.repository.ListFactures(ctx)
}
