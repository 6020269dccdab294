package service

import (
	"context"

	"bookshelf/internal/repository"
)

// withSession runs fn inside a fresh session. The session is committed when
// fn succeeds and always closed, which rolls back anything uncommitted.
func withSession(ctx context.Context, store repository.Store, fn func(repository.Session) error) (err error) {
	sess := store.NewSession()
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := sess.Begin(ctx); err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	return sess.Commit()
}
