package memory

import (
	"context"
	"fmt"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
)

// Session is one unit of work over the in-memory tables
type Session struct {
	store *Store

	work      *tables
	committed bool
	closed    bool
}

// Begin locks the store and snapshots the tables
func (s *Session) Begin(ctx context.Context) error {
	if s.closed {
		return fmt.Errorf("%w: session already closed", domain.ErrPersistence)
	}
	if s.work != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrPersistence, err)
	}

	s.store.mu.Lock()
	s.work = s.store.data.clone()
	return nil
}

func (s *Session) tables(ctx context.Context) (*tables, error) {
	if err := s.Begin(ctx); err != nil {
		return nil, err
	}
	if s.committed {
		return nil, fmt.Errorf("%w: session already committed", domain.ErrPersistence)
	}
	return s.work, nil
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

// Commit publishes the session's copy as the live tables
func (s *Session) Commit() error {
	if s.closed {
		return fmt.Errorf("%w: session already closed", domain.ErrPersistence)
	}
	if s.committed {
		return nil
	}
	s.committed = true
	if s.work != nil {
		s.store.data = s.work
	}
	return nil
}

// Close discards uncommitted work and unlocks the store
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.work != nil {
		s.work = nil
		s.store.mu.Unlock()
	}
	return nil
}
