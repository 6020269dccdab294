package handler

import (
	"net/http"

	"bookshelf/internal/schema"
	"bookshelf/internal/service"
)

// BookHandler handles book API requests
type BookHandler struct {
	svc *service.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(svc *service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

// List returns all books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, "list books", err)
		return
	}
	writeJSON(w, books, http.StatusOK)
}

// Get returns a single book
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadID(w, err)
		return
	}

	book, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get book", err)
		return
	}
	writeJSON(w, book, http.StatusOK)
}

// Create creates a new book
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in schema.Book
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, "create book", err)
		return
	}
	if err := validate(&in); err != nil {
		writeServiceError(w, "create book", err)
		return
	}

	book, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, "create book", err)
		return
	}
	writeJSON(w, book, http.StatusCreated)
}

// Update replaces an existing book
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadID(w, err)
		return
	}

	var in schema.Book
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, "update book", err)
		return
	}
	if in.ID == 0 {
		in.ID = id
	}
	if err := validate(&in); err != nil {
		writeServiceError(w, "update book", err)
		return
	}

	book, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, "update book", err)
		return
	}
	writeJSON(w, book, http.StatusOK)
}

// Delete removes a book
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadID(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete book", err)
		return
	}
	writeJSON(w, StatusResponse{Status: "success"}, http.StatusOK)
}
