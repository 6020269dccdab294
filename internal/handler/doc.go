// Package handler implements the HTTP API for Bookshelf.
//
// This package is the request handler layer: it decodes and validates
// request input, calls the service layer with typed values, and renders the
// typed results or error signals as HTTP responses. It holds no persistence
// logic of its own.
//
// # Handlers
//
// BookHandler, StudentHandler and PostHandler expose CRUD over their
// entities. ExportHandler renders the book catalogue as JSON or YAML.
// HealthHandler reports store reachability.
//
// # API Design
//
// All handlers follow REST conventions:
// - GET for retrieval
// - POST for creation (201)
// - PUT for full replacement
// - DELETE for removal ({"status": "success"})
//
// # Errors
//
// Service errors are classified with errors.Is:
// - domain.ErrValidation → 422
// - domain.ErrNotFound → 404
// - domain.ErrConflict → 409
// - anything else → 500
//
// Error responses return JSON with {error, details} structure.
//
// # Middleware
//
// Chain composes Recover, CORS, RequestID and Logger around the router.
package handler
