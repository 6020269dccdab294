// Package service implements the CRUD operations of Bookshelf.
//
// Each service coordinates between the request handler layer and a
// repository.Store. Every operation follows the same lifecycle: the caller
// passes a validated external value, the service opens a session, performs
// one persistence action, commits (or rolls back on any error), maps the
// stored record back to its external shape and releases the session. The
// lifecycle lives in one place, withSession, so no operation can skip the
// release.
//
// # Services
//
// BookService manages the book catalogue (caller-assigned IDs, unique
// titles).
//
// StudentService manages the student roster (caller-assigned IDs).
//
// PostService manages blog posts (store-assigned IDs, unique titles and
// slugs derived from the title).
//
// CatalogueService exports all three collections as a codec.Catalogue and
// imports one in a single session, so an import is all or nothing.
//
// # Errors
//
// Services return domain.ErrNotFound, domain.ErrConflict and
// domain.ErrValidation for outcomes the caller is expected to handle, and
// domain.ErrPersistence for store failures. Nothing is retried.
//
// # Events
//
// Successful writes publish an Event on the EventBus so connected clients
// can follow changes over Server-Sent Events.
//
// # Concurrency
//
// Services are safe for concurrent use. Each call gets its own session;
// isolation between concurrent writers is whatever the store provides.
package service
