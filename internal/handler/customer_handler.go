package handler

import (
	"bytes"
	"mime"
	"net/http"

	"tablekart/internal/csvio"
	"tablekart/internal/model"
	"tablekart/internal/service"

	"github.com/rs/zerolog"
)

// maxUploadSize caps customer CSV uploads.
const maxUploadSize = 10 << 20

// CustomerHandler handles the owner's customer list.
type CustomerHandler struct {
	service service.CustomerService
	logger  zerolog.Logger
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(service service.CustomerService, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		logger:  logger.With().Str("handler", "customer").Logger(),
	}
}

// importSourceRequest names a file known to the configured import loader.
type importSourceRequest struct {
	Source string `json:"source" validate:"required,max=255"`
}

// List handles GET /api/dashboard/customers.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	q, ok := listOrError(w, r, nil, h.logger)
	if !ok {
		return
	}

	page, err := h.service.List(r.Context(), restaurant.ID, q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Stats handles GET /api/dashboard/customers/stats.
func (h *CustomerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), restaurant.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetByID handles GET /api/dashboard/customers/{id}.
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	customer, err := h.service.GetByID(r.Context(), restaurant.ID, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Create handles POST /api/dashboard/customers.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	var req model.CustomerRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	customer, err := h.service.Create(r.Context(), restaurant.ID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

// Update handles PUT /api/dashboard/customers/{id}.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req model.CustomerRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	customer, err := h.service.Update(r.Context(), restaurant.ID, id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Delete handles DELETE /api/dashboard/customers/{id}.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), restaurant.ID, id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/dashboard/customers/export?delimiter=.
func (h *CustomerHandler) Export(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	delim, ok := csvDelimiter(r)
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, csvio.ErrInvalidDelimiter.Error(), h.logger)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), restaurant.ID, &buf, delim); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	csvHeaders(w, "customers")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Import handles POST /api/dashboard/customers/import. A multipart body
// uploads the CSV in its "file" part; a JSON body {"source": "..."} reads
// it from the import loader instead.
func (h *CustomerHandler) Import(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}

	var (
		result *model.ImportResult
		err    error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		file, _, ferr := r.FormFile("file")
		if ferr != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "A CSV file is required in the \"file\" field", h.logger)
			return
		}
		defer file.Close()
		result, err = h.service.ImportCSV(r.Context(), restaurant.ID, file)
	} else {
		var req importSourceRequest
		if !decodeJSON(w, r, &req, h.logger) {
			return
		}
		result, err = h.service.ImportSource(r.Context(), restaurant.ID, req.Source)
	}
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.logger.Info().
		Str("restaurant_id", restaurant.ID.String()).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("customers imported")
	writeJSON(w, http.StatusOK, result)
}
