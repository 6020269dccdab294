// Package schema defines the caller-facing representations of Bookshelf
// records and the explicit mapping between them and the persisted records
// in the domain package.
//
// Input types carry their own Validate method; the request handler layer
// runs it before calling into the service layer, which only enforces store
// constraints (identity existence and uniqueness).
//
// Post inputs derive their slug from the title while being decoded, so a
// validated PostInput always holds the slug that will be persisted.
package schema
