package facture

import (
	"context"
	"io"
)

// BlobStore defines the interface for blob storage backends.
type BlobStore interface {
	// Upload writes the payload under the given key
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download returns a reader over the payload stored under the key.
	// Returns ErrBlobNotFound if nothing is stored under the key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetBlobMeta retrieves metadata for a stored blob.
	// Returns ErrBlobNotFound if nothing is stored under the key.
	GetBlobMeta(ctx context.Context, key string) (*BlobMeta, error)
}

// Repository defines the interface for facture metadata persistence.
type Repository interface {
	// CreateFacture inserts one row and assigns the generated ID
	CreateFacture(ctx context.Context, f *Facture) error

	// ListFactures returns every row. No filtering, no pagination;
	// ordering is whatever the engine returns by default.
	ListFactures(ctx context.Context) ([]*Facture, error)
}

// Service is the business operations interface for factures.
type Service interface {
	// CreateFacture validates the request, writes the blob, then
	// records the metadata row. The blob is written before the row,
	// so a failed insert can leave an orphaned blob behind.
	CreateFacture(ctx context.Context, req CreateFactureRequest) (*Facture, error)

	// ListFactures returns every recorded facture.
	ListFactures(ctx context.Context) ([]*Facture, error)
}
