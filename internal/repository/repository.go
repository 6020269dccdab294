package repository

import (
	"context"

	"bookshelf/internal/domain"
)

// Store is the storage handle shared by the whole process
type Store interface {
	// NewSession never fails; connection errors surface on first use.
	// A session must not be shared between goroutines.
	NewSession() Session

	// Close releases the underlying pool
	Close() error
}

// Session is a unit of work bound to one operation
type Session interface {
	// Begin starts the transaction. Repositories call it implicitly.
	Begin(ctx context.Context) error

	Books() BookRepository
	Students() StudentRepository
	Posts() PostRepository

	// Commit makes pending writes durable. On failure they are discarded.
	Commit() error

	// Close rolls back uncommitted work and releases the session
	Close() error
}

// BookRepository persists books
type BookRepository interface {
	Insert(ctx context.Context, book domain.Book) error
	List(ctx context.Context) ([]domain.Book, error)
	Get(ctx context.Context, id int64) (domain.Book, error)
	Update(ctx context.Context, book domain.Book) error
	Delete(ctx context.Context, id int64) error
}

// StudentRepository persists students
type StudentRepository interface {
	Insert(ctx context.Context, student domain.Student) error
	List(ctx context.Context) ([]domain.Student, error)
	Get(ctx context.Context, id int64) (domain.Student, error)
	Update(ctx context.Context, student domain.Student) error
	Delete(ctx context.Context, id int64) error
}

// PostRepository persists posts. Insert assigns ID and CreatedAt and
// returns the stored record.
type PostRepository interface {
	Insert(ctx context.Context, post domain.Post) (domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	Get(ctx context.Context, id int64) (domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (domain.Post, error)
	Update(ctx context.Context, post domain.Post) error
	Delete(ctx context.Context, id int64) error
}
