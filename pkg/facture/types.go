package facture

import "time"

// FactureStatus is the domain type for payment states. The set is open:
// "paid" and "unpaid" are the values the system itself produces, but any
// non-empty value supplied by a client is stored as-is.
type FactureStatus string

// Payment status constants (typed).
const (
	StatusPaid   FactureStatus = "paid"
	StatusUnpaid FactureStatus = "unpaid"
)

// Facture represents one uploaded invoice: a reference to the stored
// blob plus its business attributes. Factures are immutable after
// creation; there is no update or delete path.
type Facture struct {
	ID        int64     `json:"id"`
	FilePath  string    `json:"filePath"`
	Price     string    `json:"price"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// BlobMeta represents metadata for a stored blob.
type BlobMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}
