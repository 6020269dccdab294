// Package repository defines the data access contract for Bookshelf.
//
// A Store is the process-wide storage handle. It is opened once from a
// connection string and hands out Sessions, one per logical operation.
//
// # Sessions
//
// A Session is a unit of work over the store. It begins a transaction on
// first use, exposes per-entity repositories bound to that transaction, and
// either commits or is rolled back when closed. Close is idempotent and must
// be deferred by whoever opened the session:
//
//	sess := store.NewSession()
//	defer sess.Close()
//	if err := sess.Books().Insert(ctx, book); err != nil {
//		return err
//	}
//	return sess.Commit()
//
// # Implementations
//
// The sqlite subpackage persists to SQLite through database/sql. The memory
// subpackage keeps records in maps keyed by identity and is used for tests
// and for the memory:// connection string.
//
// # Errors
//
// Repositories report domain.ErrNotFound for missing identities,
// domain.ErrConflict for uniqueness violations and domain.ErrPersistence for
// everything the store itself failed at.
package repository
