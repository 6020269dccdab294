package handler

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"bookshelf/internal/codec"
	"bookshelf/internal/service"
)

// ExportHandler renders the whole catalogue in a chosen format
type ExportHandler struct {
	svc *service.CatalogueService
}

// NewExportHandler creates a new export handler
func NewExportHandler(svc *service.CatalogueService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// JSON exports the catalogue as JSON
func (h *ExportHandler) JSON(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, codec.NewJSONCodec())
}

// YAML exports the catalogue as YAML
func (h *ExportHandler) YAML(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, codec.NewYAMLCodec())
}

func (h *ExportHandler) export(w http.ResponseWriter, r *http.Request, exp codec.Exporter) {
	cat, err := h.svc.Export(r.Context())
	if err != nil {
		writeServiceError(w, "export catalogue", err)
		return
	}

	// Encode fully before writing so a failure can still be reported
	var buf bytes.Buffer
	if err := exp.Export(cat, &buf); err != nil {
		log.Printf("Failed to export catalogue as %s: %v", exp.Format(), err)
		writeError(w, "Failed to export catalogue", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", exp.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=bookshelf.%s", exp.Format()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Failed to write export: %v", err)
	}
}
