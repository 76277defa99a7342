package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/myfacture/backend/pkg/facture"
)

// UploadsHandler serves stored blobs back to clients. Serving goes
// through the BlobStore interface so every backend (fs, memory, s3)
// gets the same route.
type UploadsHandler struct {
	store facture.BlobStore
}

// NewUploadsHandler creates a new uploads handler
func NewUploadsHandler(store facture.BlobStore) *UploadsHandler {
	return &UploadsHandler{store: store}
}

// Register mounts the blob serving route on the given router
func (h *UploadsHandler) Register(r chi.Router) {
	r.Get("/"+facture.UploadsPrefix+"/*", h.ServeBlob)
}

// ServeBlob streams the blob stored under the requested key
func (h *UploadsHandler) ServeBlob(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	reader, err := h.store.Download(r.Context(), key)
	if errors.Is(err, facture.ErrBlobNotFound) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		slog.Error("Failed to open blob", "key", key, "error", err)
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	defer reader.Close()

	// Sniff the content type from the head of the stream, then replay
	// those bytes before streaming the rest.
	head := make([]byte, 3072)
	n, err := io.ReadFull(reader, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		slog.Error("Failed to read blob", "key", key, "error", err)
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mimetype.Detect(head[:n]).String())
	if _, err := w.Write(head[:n]); err != nil {
		return
	}
	if _, err := io.Copy(w, reader); err != nil {
		slog.Warn("Blob stream interrupted", "key", key, "error", err)
	}
}
