package service

import (
	"context"
	"fmt"

	"bookshelf/internal/codec"
	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
	"bookshelf/internal/schema"
)

// CatalogueService exports and imports every record in one session
type CatalogueService struct {
	store    repository.Store
	eventBus *EventBus
}

// NewCatalogueService creates a new catalogue service
func NewCatalogueService(store repository.Store, eventBus *EventBus) *CatalogueService {
	return &CatalogueService{
		store:    store,
		eventBus: eventBus,
	}
}

// Export reads a consistent snapshot of all books, students and posts
func (s *CatalogueService) Export(ctx context.Context) (*codec.Catalogue, error) {
	var (
		books    []domain.Book
		students []domain.Student
		posts    []domain.Post
	)
	err := withSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		if books, err = sess.Books().List(ctx); err != nil {
			return err
		}
		if students, err = sess.Students().List(ctx); err != nil {
			return err
		}
		posts, err = sess.Posts().List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("export catalogue: %w", err)
	}

	cat := &codec.Catalogue{
		Books:    make([]schema.Book, 0, len(books)),
		Students: make([]schema.Student, 0, len(students)),
		Posts:    make([]schema.PostView, 0, len(posts)),
	}
	for _, b := range books {
		cat.Books = append(cat.Books, schema.BookFromRecord(b))
	}
	for _, st := range students {
		cat.Students = append(cat.Students, schema.StudentFromRecord(st))
	}
	for _, p := range posts {
		cat.Posts = append(cat.Posts, schema.PostFromRecord(p))
	}
	return cat, nil
}

// Import validates and inserts every record of cat. Either all records are
// stored or none are. Posts get fresh IDs and creation dates; their slugs
// are derived from their titles.
func (s *CatalogueService) Import(ctx context.Context, cat *codec.Catalogue) error {
	if err := s.load(ctx, cat, false); err != nil {
		return fmt.Errorf("import catalogue: %w", err)
	}
	return nil
}

// Replace deletes every stored record and imports cat in the same session
func (s *CatalogueService) Replace(ctx context.Context, cat *codec.Catalogue) error {
	if err := s.load(ctx, cat, true); err != nil {
		return fmt.Errorf("replace catalogue: %w", err)
	}
	return nil
}

func (s *CatalogueService) load(ctx context.Context, cat *codec.Catalogue, replace bool) error {
	posts := make([]schema.PostInput, 0, len(cat.Posts))
	for i := range cat.Books {
		if err := cat.Books[i].Validate(); err != nil {
			return fmt.Errorf("book %d: %w", i, err)
		}
	}
	for i := range cat.Students {
		if err := cat.Students[i].Validate(); err != nil {
			return fmt.Errorf("student %d: %w", i, err)
		}
	}
	for i, p := range cat.Posts {
		in := schema.NewPostInput(p.Title, p.Content)
		if err := in.Validate(); err != nil {
			return fmt.Errorf("post %d: %w", i, err)
		}
		posts = append(posts, in)
	}

	err := withSession(ctx, s.store, func(sess repository.Session) error {
		if replace {
			if err := deleteAll(ctx, sess); err != nil {
				return err
			}
		}
		for _, b := range cat.Books {
			if err := sess.Books().Insert(ctx, schema.BookToRecord(b)); err != nil {
				return err
			}
		}
		for _, st := range cat.Students {
			if err := sess.Students().Insert(ctx, schema.StudentToRecord(st)); err != nil {
				return err
			}
		}
		for _, in := range posts {
			if _, err := sess.Posts().Insert(ctx, schema.PostToRecord(in)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type: EventCatalogueImported,
		Payload: map[string]any{
			"books":    len(cat.Books),
			"students": len(cat.Students),
			"posts":    len(cat.Posts),
			"replaced": replace,
		},
	})
	return nil
}

// deleteAll deletes every record visible to sess
func deleteAll(ctx context.Context, sess repository.Session) error {
	books, err := sess.Books().List(ctx)
	if err != nil {
		return err
	}
	for _, b := range books {
		if err := sess.Books().Delete(ctx, b.ID); err != nil {
			return err
		}
	}

	students, err := sess.Students().List(ctx)
	if err != nil {
		return err
	}
	for _, st := range students {
		if err := sess.Students().Delete(ctx, st.ID); err != nil {
			return err
		}
	}

	posts, err := sess.Posts().List(ctx)
	if err != nil {
		return err
	}
	for _, p := range posts {
		if err := sess.Posts().Delete(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}
