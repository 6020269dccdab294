package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
	"bookshelf/internal/repository/memory"
	"bookshelf/internal/repository/repotest"
	"bookshelf/internal/repository/sqlite"
	"bookshelf/internal/schema"
)

// trackingStore counts session lifecycle transitions of a wrapped store
type trackingStore struct {
	repository.Store

	mu        sync.Mutex
	opened    int
	committed int
	closed    int
}

func (s *trackingStore) NewSession() repository.Session {
	s.mu.Lock()
	s.opened++
	s.mu.Unlock()
	return &trackingSession{Session: s.Store.NewSession(), store: s}
}

func (s *trackingStore) counts() (opened, committed, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.committed, s.closed
}

type trackingSession struct {
	repository.Session
	store *trackingStore
}

func (s *trackingSession) Commit() error {
	err := s.Session.Commit()
	if err == nil {
		s.store.mu.Lock()
		s.store.committed++
		s.store.mu.Unlock()
	}
	return err
}

func (s *trackingSession) Close() error {
	s.store.mu.Lock()
	s.store.closed++
	s.store.mu.Unlock()
	return s.Session.Close()
}

// stores returns one fresh instance of every store implementation
func stores(t *testing.T) map[string]repository.Store {
	t.Helper()
	sq, err := sqlite.New(":memory:", sqlite.WithClock(repotest.Clock))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	return map[string]repository.Store{
		"memory": memory.NewWithClock(repotest.Clock),
		"sqlite": sq,
	}
}

func TestBookScenario(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewBookService(store, nil)

			created, err := svc.Create(ctx, schema.Book{ID: 1, Title: "Go", Author: "X", Publisher: "Y"})
			require.NoError(t, err)
			assert.Equal(t, schema.Book{ID: 1, Title: "Go", Author: "X", Publisher: "Y"}, created)

			got, err := svc.Get(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, created, got)

			updated, err := svc.Update(ctx, 1, schema.Book{ID: 1, Title: "Go2", Author: "X", Publisher: "Y"})
			require.NoError(t, err)
			assert.Equal(t, "Go2", updated.Title)

			got, err = svc.Get(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, "Go2", got.Title)

			require.NoError(t, svc.Delete(ctx, 1))

			_, err = svc.Get(ctx, 1)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestBookServiceConflictLeavesStoreUnchanged(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewBookService(store, nil)

			first := schema.Book{ID: 1, Title: "Go", Author: "X", Publisher: "Y"}
			_, err := svc.Create(ctx, first)
			require.NoError(t, err)

			_, err = svc.Create(ctx, schema.Book{ID: 2, Title: "Go", Author: "Z", Publisher: "W"})
			assert.ErrorIs(t, err, domain.ErrConflict)

			books, err := svc.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []schema.Book{first}, books)
		})
	}
}

func TestBookServiceListAfterCreates(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(memory.New(), nil)

	var created []schema.Book
	for i, title := range []string{"Alpha", "Beta", "Gamma", "Delta"} {
		b, err := svc.Create(ctx, schema.Book{ID: int64(i + 1), Title: title, Author: "A", Publisher: "P"})
		require.NoError(t, err)
		created = append(created, b)
	}

	books, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, created, books)
}

func TestBookServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing id leaves state unchanged", func(t *testing.T) {
		svc := NewBookService(memory.New(), nil)
		existing, err := svc.Create(ctx, schema.Book{ID: 1, Title: "Go", Author: "X", Publisher: "Y"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, 2, schema.Book{Title: "New", Author: "N", Publisher: "N"})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		books, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []schema.Book{existing}, books)
	})

	t.Run("payload id mismatch", func(t *testing.T) {
		svc := NewBookService(memory.New(), nil)
		_, err := svc.Update(ctx, 1, schema.Book{ID: 3, Title: "New", Author: "N", Publisher: "N"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("zero payload id takes path id", func(t *testing.T) {
		svc := NewBookService(memory.New(), nil)
		_, err := svc.Create(ctx, schema.Book{ID: 4, Title: "Go", Author: "X", Publisher: "Y"})
		require.NoError(t, err)

		out, err := svc.Update(ctx, 4, schema.Book{Title: "Go", Author: "X2", Publisher: "Y2"})
		require.NoError(t, err)
		assert.Equal(t, schema.Book{ID: 4, Title: "Go", Author: "X2", Publisher: "Y2"}, out)
	})
}

func TestBookServiceDeleteMissing(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(memory.New(), nil)
	keep, err := svc.Create(ctx, schema.Book{ID: 1, Title: "Keep", Author: "A", Publisher: "P"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 99), domain.ErrNotFound)

	books, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []schema.Book{keep}, books)
}

func TestSessionsAlwaysReleased(t *testing.T) {
	ctx := context.Background()
	store := &trackingStore{Store: memory.New()}
	svc := NewBookService(store, nil)

	_, err := svc.Create(ctx, schema.Book{ID: 1, Title: "Go", Author: "X", Publisher: "Y"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, schema.Book{ID: 1, Title: "Dup", Author: "X", Publisher: "Y"})
	require.ErrorIs(t, err, domain.ErrConflict)
	_, err = svc.Get(ctx, 7)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, 7), domain.ErrNotFound)
	_, err = svc.List(ctx)
	require.NoError(t, err)

	opened, committed, closed := store.counts()
	assert.Equal(t, 5, opened)
	assert.Equal(t, opened, closed, "every session must be closed")
	assert.Equal(t, 2, committed, "only the successful create and list commit")
}

func TestSessionsReleasedOnCancelledContext(t *testing.T) {
	store := &trackingStore{Store: memory.New()}
	svc := NewStudentService(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.List(ctx)
	require.ErrorIs(t, err, domain.ErrPersistence)

	opened, committed, closed := store.counts()
	assert.Equal(t, 1, opened)
	assert.Equal(t, 0, committed)
	assert.Equal(t, 1, closed)
}

func TestStudentService(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewStudentService(store, nil)

			ravi := schema.Student{ID: 1, Name: "Ravi", Grade: 8, Address: "Pune"}
			_, err := svc.Create(ctx, ravi)
			require.NoError(t, err)

			_, err = svc.Create(ctx, ravi)
			assert.ErrorIs(t, err, domain.ErrConflict)

			ravi.Grade = 9
			out, err := svc.Update(ctx, 1, ravi)
			require.NoError(t, err)
			assert.Equal(t, ravi, out)

			all, err := svc.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []schema.Student{ravi}, all)

			_, err = svc.Get(ctx, 2)
			assert.ErrorIs(t, err, domain.ErrNotFound)

			require.NoError(t, svc.Delete(ctx, 1))
			assert.ErrorIs(t, svc.Delete(ctx, 1), domain.ErrNotFound)
		})
	}
}

func TestPostService(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewPostService(store, nil)

			body := "hello"
			created, err := svc.Create(ctx, schema.NewPostInput("Hello World", &body))
			require.NoError(t, err)
			assert.Equal(t, int64(1), created.ID)
			assert.Equal(t, "hello-world", created.Slug)
			assert.Equal(t, "2024-03-09", created.CreatedAt.Format(schema.DateLayout))

			bySlug, err := svc.GetBySlug(ctx, "hello-world")
			require.NoError(t, err)
			assert.Equal(t, created, bySlug)

			_, err = svc.Create(ctx, schema.NewPostInput("Hello World", nil))
			assert.ErrorIs(t, err, domain.ErrConflict)

			updated, err := svc.Update(ctx, created.ID, schema.NewPostInput("Goodbye World", nil))
			require.NoError(t, err)
			assert.Equal(t, "goodbye-world", updated.Slug)
			assert.Nil(t, updated.Content)
			assert.Equal(t, created.CreatedAt, updated.CreatedAt)

			_, err = svc.GetBySlug(ctx, "hello-world")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			posts, err := svc.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []schema.PostView{updated}, posts)

			require.NoError(t, svc.Delete(ctx, created.ID))
			_, err = svc.Get(ctx, created.ID)
			assert.ErrorIs(t, err, domain.ErrNotFound)
			_, err = svc.Update(ctx, created.ID, schema.NewPostInput("Again", nil))
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestEventsPublishedOnWrites(t *testing.T) {
	ctx := context.Background()
	bus := NewEventBus()
	ch := make(chan Event, 10)
	bus.Subscribe(ch)

	svc := NewBookService(memory.New(), bus)
	_, err := svc.Create(ctx, schema.Book{ID: 1, Title: "Go", Author: "X", Publisher: "Y"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, 1, schema.Book{Title: "Go2", Author: "X", Publisher: "Y"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1))

	// failed writes publish nothing
	assert.Error(t, svc.Delete(ctx, 1))

	require.Len(t, ch, 3)
	assert.Equal(t, EventBookCreated, (<-ch).Type)
	assert.Equal(t, EventBookUpdated, (<-ch).Type)
	assert.Equal(t, EventBookDeleted, (<-ch).Type)
}

func TestEventBusSkipsSlowSubscriber(t *testing.T) {
	bus := NewEventBus()
	full := make(chan Event) // unbuffered, never read
	ok := make(chan Event, 1)
	bus.Subscribe(full)
	bus.Subscribe(ok)

	bus.Publish(Event{Type: EventPostCreated})
	assert.Len(t, ok, 1)

	var nilBus *EventBus
	nilBus.Publish(Event{Type: EventPostCreated})
}

func TestErrorsAreWrapped(t *testing.T) {
	svc := NewBookService(memory.New(), nil)
	_, err := svc.Get(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "get book: book 5: not found", err.Error())
}
