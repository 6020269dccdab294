// Package domain defines the persisted record types for Bookshelf.
//
// Records describe the storage shape of each entity: one table per record
// type, one column per field. They carry no wire tags; the caller-facing
// representations live in the schema package and are mapped to and from
// records explicitly.
//
// # Records
//
// Book is a catalogue entry keyed by a caller-assigned identity, with a
// unique title.
//
// Student is a roster entry keyed by a caller-assigned identity.
//
// Post is a blog entry keyed by a store-assigned identity, with a unique
// title and a unique slug derived from the title.
//
// # Errors
//
// The error taxonomy shared by every layer is declared here as sentinel
// errors. Layers wrap them with context and callers classify failures with
// errors.Is.
package domain
