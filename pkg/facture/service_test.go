package facture_test

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfacture/backend/pkg/facture"
	memoryrepo "github.com/myfacture/backend/pkg/facture/repo/memory"
	fsstorage "github.com/myfacture/backend/pkg/facture/storage/fs"
	memorystorage "github.com/myfacture/backend/pkg/facture/storage/memory"
)

func newTestService(t *testing.T) (facture.Service, facture.BlobStore) {
	t.Helper()

	store := memorystorage.New()
	svc, err := facture.New(
		facture.WithRepository(memoryrepo.New()),
		facture.WithBlobStore(store),
	)
	require.NoError(t, err)
	return svc, store
}

func TestNewRequiresRepositoryAndBlobStore(t *testing.T) {
	_, err := facture.New()
	assert.Error(t, err)

	_, err = facture.New(facture.WithRepository(memoryrepo.New()))
	assert.Error(t, err)

	_, err = facture.New(facture.WithBlobStore(memorystorage.New()))
	assert.Error(t, err)
}

func TestCreateFacture(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateFacture(ctx, facture.CreateFactureRequest{
		File:          strings.NewReader("%PDF-1.4 fake invoice"),
		FileName:      "invoice.pdf",
		Price:         "42.5",
		Category:      "utilities",
		PaymentStatus: "paid",
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.True(t, strings.HasPrefix(created.FilePath, "uploads/"))
	assert.True(t, strings.HasSuffix(created.FilePath, ".pdf"))
	assert.Equal(t, "42.5", created.Price)
	assert.Equal(t, "utilities", created.Category)
	assert.Equal(t, "paid", created.Status)

	// The blob must be readable under the recorded key
	key := strings.TrimPrefix(created.FilePath, "uploads/")
	reader, err := store.Download(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake invoice", string(data))
}

func TestCreateFactureDefaultsStatusToUnpaid(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateFacture(context.Background(), facture.CreateFactureRequest{
		File:     strings.NewReader("bytes"),
		FileName: "invoice.pdf",
		Price:    "100",
		Category: "rent",
	})
	require.NoError(t, err)
	assert.Equal(t, "unpaid", created.Status)
}

func TestCreateFactureMissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  facture.CreateFactureRequest
	}{
		{"no file", facture.CreateFactureRequest{Price: "10", Category: "rent"}},
		{"no price", facture.CreateFactureRequest{File: strings.NewReader("x"), Category: "rent"}},
		{"blank price", facture.CreateFactureRequest{File: strings.NewReader("x"), Price: "  ", Category: "rent"}},
		{"no category", facture.CreateFactureRequest{File: strings.NewReader("x"), Price: "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Filesystem store so the uploads dir can be inspected
			dir := t.TempDir()
			store, err := fsstorage.New(fsstorage.Config{BaseDir: dir})
			require.NoError(t, err)

			svc, err := facture.New(
				facture.WithRepository(memoryrepo.New()),
				facture.WithBlobStore(store),
			)
			require.NoError(t, err)

			_, err = svc.CreateFacture(context.Background(), tt.req)
			assert.ErrorIs(t, err, facture.ErrMissingFields)

			// Validation runs before the blob write: nothing on disk
			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)

			factures, err := svc.ListFactures(context.Background())
			require.NoError(t, err)
			assert.Empty(t, factures)
		})
	}
}

func TestListFacturesRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateFacture(ctx, facture.CreateFactureRequest{
		File:          strings.NewReader("a"),
		FileName:      "a.pdf",
		Price:         "42.5",
		Category:      "utilities",
		PaymentStatus: "paid",
	})
	require.NoError(t, err)

	_, err = svc.CreateFacture(ctx, facture.CreateFactureRequest{
		File:     strings.NewReader("b"),
		FileName: "b.png",
		Price:    "100",
		Category: "rent",
	})
	require.NoError(t, err)

	factures, err := svc.ListFactures(ctx)
	require.NoError(t, err)
	require.Len(t, factures, 2)

	byCategory := make(map[string]*facture.Facture)
	for _, f := range factures {
		byCategory[f.Category] = f
	}
	require.Contains(t, byCategory, "utilities")
	require.Contains(t, byCategory, "rent")
	assert.Equal(t, "42.5", byCategory["utilities"].Price)
	assert.Equal(t, "paid", byCategory["utilities"].Status)
	assert.Equal(t, "unpaid", byCategory["rent"].Status)

	// Repeated listings with no writes in between are identical
	again, err := svc.ListFactures(ctx)
	require.NoError(t, err)
	assert.Equal(t, factures, again)
}

// failingRepository rejects every insert, standing in for a broken
// database connection.
type failingRepository struct{}

func (failingRepository) CreateFacture(ctx context.Context, f *facture.Facture) error {
	return &facture.DatabaseError{Op: "create facture", Err: context.DeadlineExceeded}
}

func (failingRepository) ListFactures(ctx context.Context) ([]*facture.Facture, error) {
	return nil, &facture.DatabaseError{Op: "list factures", Err: context.DeadlineExceeded}
}

func TestCreateFactureInsertFailureLeavesOrphanBlob(t *testing.T) {
	dir := t.TempDir()
	store, err := fsstorage.New(fsstorage.Config{BaseDir: dir})
	require.NoError(t, err)

	svc, err := facture.New(
		facture.WithRepository(failingRepository{}),
		facture.WithBlobStore(store),
	)
	require.NoError(t, err)

	_, err = svc.CreateFacture(context.Background(), facture.CreateFactureRequest{
		File:     strings.NewReader("x"),
		FileName: "invoice.pdf",
		Price:    "10",
		Category: "rent",
	})

	var dbErr *facture.DatabaseError
	require.ErrorAs(t, err, &dbErr)

	// Write-then-record: the blob was already persisted when the
	// insert failed, and no compensation removes it.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Len(t, entries, 1)
}
