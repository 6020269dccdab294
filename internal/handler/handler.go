package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"bookshelf/internal/domain"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StatusResponse is the body of a successful delete
type StatusResponse struct {
	Status string `json:"status"`
}

// validator is implemented by every input schema
type validator interface {
	Validate() error
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}

// writeServiceError maps a service error onto a status code. Unexpected
// failures are logged; expected outcomes are not.
func writeServiceError(w http.ResponseWriter, action string, err error) {
	if !domain.IsExpected(err) {
		log.Printf("Failed to %s: %v", action, err)
		writeError(w, "Failed to "+action, err.Error(), http.StatusInternalServerError)
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, "Invalid input", err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, "Not found", err.Error(), http.StatusNotFound)
	default:
		writeError(w, "Conflict", err.Error(), http.StatusConflict)
	}
}

// pathID parses the {id} path value as a positive integer
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id %q is not a positive integer", raw)
	}
	return id, nil
}

func writeBadID(w http.ResponseWriter, err error) {
	writeError(w, "Invalid id", err.Error(), http.StatusBadRequest)
}

// decodeBody decodes a JSON body into v. Decoding failures are validation
// errors. Validation itself is left to the caller because update handlers
// fill in the path id first.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("request body is required")
		}
		return domain.Invalid("malformed request body: %v", err)
	}
	if dec.More() {
		return domain.Invalid("request body must hold a single JSON value")
	}
	return nil
}

// validate runs v.Validate and wraps anything unexpected
func validate(v validator) error {
	if err := v.Validate(); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
