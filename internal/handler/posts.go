package handler

import (
	"net/http"

	"bookshelf/internal/schema"
	"bookshelf/internal/service"
)

// PostHandler handles blog post API requests
type PostHandler struct {
	svc *service.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// List returns all posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, "list posts", err)
		return
	}
	writeJSON(w, posts, http.StatusOK)
}

// Get returns a single post by ID
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadID(w, err)
		return
	}

	post, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get post", err)
		return
	}
	writeJSON(w, post, http.StatusOK)
}

// GetBySlug returns a single post by slug
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, "get post", err)
		return
	}
	writeJSON(w, post, http.StatusOK)
}

// Create creates a new post. The slug is derived from the title.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in schema.PostInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, "create post", err)
		return
	}
	if err := validate(&in); err != nil {
		writeServiceError(w, "create post", err)
		return
	}

	post, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, "create post", err)
		return
	}
	writeJSON(w, post, http.StatusCreated)
}

// Update replaces title, slug and content of a post
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadID(w, err)
		return
	}

	var in schema.PostInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, "update post", err)
		return
	}
	if err := validate(&in); err != nil {
		writeServiceError(w, "update post", err)
		return
	}

	post, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, "update post", err)
		return
	}
	writeJSON(w, post, http.StatusOK)
}

// Delete removes a post
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadID(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete post", err)
		return
	}
	writeJSON(w, StatusResponse{Status: "success"}, http.StatusOK)
}
