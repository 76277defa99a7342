package facture

import "io"

// CreateFactureRequest contains parameters for creating a facture.
// File, Price and Category are required; PaymentStatus defaults to
// "unpaid" when empty.
type CreateFactureRequest struct {
	File          io.Reader
	FileName      string
	Price         string
	Category      string
	PaymentStatus string
}
