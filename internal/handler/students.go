package handler

import (
	"net/http"

	"bookshelf/internal/schema"
	"bookshelf/internal/service"
)

// StudentHandler handles student API requests
type StudentHandler struct {
	svc *service.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

// List returns all students
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, "list students", err)
		return
	}
	writeJSON(w, students, http.StatusOK)
}

// Get returns a single student
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadID(w, err)
		return
	}

	student, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get student", err)
		return
	}
	writeJSON(w, student, http.StatusOK)
}

// Create creates a new student
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in schema.Student
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, "create student", err)
		return
	}
	if err := validate(&in); err != nil {
		writeServiceError(w, "create student", err)
		return
	}

	student, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, "create student", err)
		return
	}
	writeJSON(w, student, http.StatusCreated)
}

// Update replaces an existing student
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadID(w, err)
		return
	}

	var in schema.Student
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, "update student", err)
		return
	}
	if in.ID == 0 {
		in.ID = id
	}
	if err := validate(&in); err != nil {
		writeServiceError(w, "update student", err)
		return
	}

	student, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, "update student", err)
		return
	}
	writeJSON(w, student, http.StatusOK)
}

// Delete removes a student
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadID(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete student", err)
		return
	}
	writeJSON(w, StatusResponse{Status: "success"}, http.StatusOK)
}
