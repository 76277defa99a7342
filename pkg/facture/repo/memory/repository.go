package memory

import (
	"context"
	"sync"

	"github.com/myfacture/backend/pkg/facture"
)

// Repository is an in-memory implementation of facture.Repository,
// intended for tests and local development.
type Repository struct {
	mu       sync.RWMutex
	factures []facture.Facture
	nextID   int64
}

// New creates a new in-memory repository
func New() facture.Repository {
	return &Repository{nextID: 1}
}

// CreateFacture stores a copy of the row and assigns the next serial ID
func (r *Repository) CreateFacture(ctx context.Context, f *facture.Facture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f.ID = r.nextID
	r.nextID++
	r.factures = append(r.factures, *f)
	return nil
}

// ListFactures returns copies of every stored row in insertion order
func (r *Repository) ListFactures(ctx context.Context) ([]*facture.Facture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*facture.Facture, 0, len(r.factures))
	for i := range r.factures {
		f := r.factures[i]
		result = append(result, &f)
	}
	return result, nil
}
