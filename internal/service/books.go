package service

import (
	"context"
	"fmt"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
	"bookshelf/internal/schema"
)

// BookService provides CRUD operations over the book catalogue
type BookService struct {
	store    repository.Store
	eventBus *EventBus
}

// NewBookService creates a new book service
func NewBookService(store repository.Store, eventBus *EventBus) *BookService {
	return &BookService{
		store:    store,
		eventBus: eventBus,
	}
}

// Create stores a new book and returns it as stored
func (s *BookService) Create(ctx context.Context, in schema.Book) (schema.Book, error) {
	rec := schema.BookToRecord(in)

	var stored domain.Book
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		if err := sess.Books().Insert(ctx, rec); err != nil {
			return err
		}
		var err error
		stored, err = sess.Books().Get(ctx, rec.ID)
		return err
	})
	if err != nil {
		return schema.Book{}, fmt.Errorf("create book: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventBookCreated,
		Payload: map[string]any{"id": stored.ID, "title": stored.Title},
	})
	return schema.BookFromRecord(stored), nil
}

// List returns every book ordered by ID
func (s *BookService) List(ctx context.Context) ([]schema.Book, error) {
	var records []domain.Book
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		records, err = sess.Books().List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	books := make([]schema.Book, 0, len(records))
	for _, r := range records {
		books = append(books, schema.BookFromRecord(r))
	}
	return books, nil
}

// Get retrieves a single book by ID
func (s *BookService) Get(ctx context.Context, id int64) (schema.Book, error) {
	var rec domain.Book
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		rec, err = sess.Books().Get(ctx, id)
		return err
	})
	if err != nil {
		return schema.Book{}, fmt.Errorf("get book: %w", err)
	}
	return schema.BookFromRecord(rec), nil
}

// Update replaces every field of the book with the given ID. The payload ID
// must be zero or equal to id.
func (s *BookService) Update(ctx context.Context, id int64, in schema.Book) (schema.Book, error) {
	if in.ID != 0 && in.ID != id {
		return schema.Book{}, domain.Invalid("payload id %d does not match book %d", in.ID, id)
	}
	rec := schema.BookToRecord(in)
	rec.ID = id

	var stored domain.Book
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		if err := sess.Books().Update(ctx, rec); err != nil {
			return err
		}
		var err error
		stored, err = sess.Books().Get(ctx, id)
		return err
	})
	if err != nil {
		return schema.Book{}, fmt.Errorf("update book: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventBookUpdated,
		Payload: map[string]any{"id": id},
	})
	return schema.BookFromRecord(stored), nil
}

// Delete removes the book with the given ID
func (s *BookService) Delete(ctx context.Context, id int64) error {
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		return sess.Books().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventBookDeleted,
		Payload: map[string]any{"id": id},
	})
	return nil
}
