package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
)

var errSessionClosed = errors.New("session already closed")

// Session is one transaction over the store
type Session struct {
	db  *sql.DB
	now func() time.Time

	tx        *sql.Tx
	committed bool
	closed    bool
}

// Begin starts the transaction if it has not started yet
func (s *Session) Begin(ctx context.Context) error {
	if s.closed {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, errSessionClosed)
	}
	if s.tx != nil {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrPersistence, err)
	}
	s.tx = tx
	return nil
}

// conn returns the live transaction, beginning it on first use
func (s *Session) conn(ctx context.Context) (*sql.Tx, error) {
	if err := s.Begin(ctx); err != nil {
		return nil, err
	}
	if s.committed {
		return nil, fmt.Errorf("%w: session already committed", domain.ErrPersistence)
	}
	return s.tx, nil
}

func (s *Session) Books() repository.BookRepository {
	return &bookRepo{s: s}
}

func (s *Session) Students() repository.StudentRepository {
	return &studentRepo{s: s}
}

func (s *Session) Posts() repository.PostRepository {
	return &postRepo{s: s}
}

// Commit commits the transaction. A session that never touched the store
// commits trivially.
func (s *Session) Commit() error {
	if s.closed {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, errSessionClosed)
	}
	if s.committed {
		return nil
	}
	s.committed = true
	if s.tx == nil {
		return nil
	}

	if err := s.tx.Commit(); err != nil {
		if field, ok := constraintField(err); ok {
			return fmt.Errorf("commit: constraint on %s: %w", field, domain.ErrConflict)
		}
		return fmt.Errorf("%w: commit transaction: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Close rolls back an uncommitted transaction. Safe to call repeatedly.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.tx == nil || s.committed {
		return nil
	}
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%w: rollback: %v", domain.ErrPersistence, err)
	}
	return nil
}
