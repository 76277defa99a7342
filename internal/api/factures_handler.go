package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/myfacture/backend/pkg/facture"
)

// maxUploadBytes bounds how much of a multipart body is held in memory
// while parsing.
const maxUploadBytes = 32 << 20

const (
	msgMissingFields = "Missing required fields or file."
	msgStoreFailure  = "Database error."
	msgCreated       = "Facture added successfully."
)

// FacturesHandler handles facture creation and listing endpoints
type FacturesHandler struct {
	service facture.Service
}

// NewFacturesHandler creates a new factures handler
func NewFacturesHandler(service facture.Service) *FacturesHandler {
	return &FacturesHandler{service: service}
}

// Register mounts the facture routes on the given router
func (h *FacturesHandler) Register(r chi.Router) {
	r.Post("/create", h.CreateFacture)
	r.Get("/factures", h.ListFactures)
}

// FactureResponse is one listing entry. Status appears twice: older
// clients read paymentStatus, newer ones read status.
type FactureResponse struct {
	ID            int64   `json:"id"`
	FilePath      string  `json:"filePath"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
}

// FactureResult is the insert confirmation payload
type FactureResult struct {
	InsertID      int64   `json:"insertId"`
	FilePath      string  `json:"filePath"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
}

// CreateFactureResponse is the response body for a successful creation
type CreateFactureResponse struct {
	Message string        `json:"message"`
	Result  FactureResult `json:"result"`
}

// ErrorResponse is the JSON error envelope. Internal failures carry a
// correlation id instead of the underlying error.
type ErrorResponse struct {
	Message string `json:"message"`
	ErrorID string `json:"errorId,omitempty"`
}

// CreateFacture accepts a multipart creation request: file part "file",
// fields "price" and "category" required, "paymentStatus" optional.
func (h *FacturesHandler) CreateFacture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: msgMissingFields})
		return
	}

	req := facture.CreateFactureRequest{
		Price:         r.FormValue("price"),
		Category:      r.FormValue("category"),
		PaymentStatus: r.FormValue("paymentStatus"),
	}
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		req.File = file
		req.FileName = header.Filename
	}

	created, err := h.service.CreateFacture(r.Context(), req)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, CreateFactureResponse{
		Message: msgCreated,
		Result: FactureResult{
			InsertID:      created.ID,
			FilePath:      created.FilePath,
			Price:         coercePrice(created.Price),
			Category:      created.Category,
			Status:        created.Status,
			PaymentStatus: created.Status,
		},
	})
}

// ListFactures returns every recorded facture with price coerced to a
// number.
func (h *FacturesHandler) ListFactures(w http.ResponseWriter, r *http.Request) {
	factures, err := h.service.ListFactures(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	resp := make([]FactureResponse, 0, len(factures))
	for _, f := range factures {
		resp = append(resp, FactureResponse{
			ID:            f.ID,
			FilePath:      f.FilePath,
			Price:         coercePrice(f.Price),
			Category:      f.Category,
			Status:        f.Status,
			PaymentStatus: f.Status,
		})
	}

	render.JSON(w, r, resp)
}

func (h *FacturesHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, facture.ErrMissingFields) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: msgMissingFields})
		return
	}

	reqID := middleware.GetReqID(r.Context())
	slog.Error("Facture operation failed", "request_id", reqID, "error", err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{Message: msgStoreFailure, ErrorID: reqID})
}

// coercePrice parses the stored price as a float. JSON has no NaN, so a
// non-numeric stored value becomes 0 and is logged.
func coercePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		slog.Warn("Non-numeric price in store", "price", s)
		return 0
	}
	return v
}
