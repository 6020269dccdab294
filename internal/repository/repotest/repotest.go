// Package repotest holds the behaviour every repository.Store must share.
// Each implementation runs Run from its own tests.
package repotest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
)

// Fixed is the instant stamped on posts by the test clock
var Fixed = time.Date(2024, 3, 9, 17, 45, 0, 0, time.UTC)

// Clock returns Fixed
func Clock() time.Time {
	return Fixed
}

// Factory opens an empty store that stamps posts with now
type Factory func(t *testing.T, now func() time.Time) repository.Store

// Run exercises the full repository contract against stores built by open
func Run(t *testing.T, open Factory) {
	t.Run("Session", func(t *testing.T) { testSession(t, open) })
	t.Run("Books", func(t *testing.T) { testBooks(t, open) })
	t.Run("Students", func(t *testing.T) { testStudents(t, open) })
	t.Run("Posts", func(t *testing.T) { testPosts(t, open) })
}

// inSession runs fn in a fresh session and commits when fn succeeds
func inSession(t *testing.T, store repository.Store, fn func(repository.Session) error) error {
	t.Helper()
	sess := store.NewSession()
	defer sess.Close()
	if err := fn(sess); err != nil {
		return err
	}
	return sess.Commit()
}

func listBooks(t *testing.T, store repository.Store) []domain.Book {
	t.Helper()
	var books []domain.Book
	err := inSession(t, store, func(s repository.Session) error {
		var err error
		books, err = s.Books().List(context.Background())
		return err
	})
	require.NoError(t, err)
	return books
}

func testSession(t *testing.T, open Factory) {
	ctx := context.Background()

	t.Run("rollback on close without commit", func(t *testing.T) {
		store := open(t, Clock)

		sess := store.NewSession()
		require.NoError(t, sess.Books().Insert(ctx, domain.Book{ID: 1, Title: "Go", Author: "X", Publisher: "Y"}))
		require.NoError(t, sess.Close())

		assert.Empty(t, listBooks(t, store))
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := open(t, Clock)

		sess := store.NewSession()
		require.NoError(t, sess.Begin(ctx))
		assert.NoError(t, sess.Close())
		assert.NoError(t, sess.Close())
	})

	t.Run("close without use", func(t *testing.T) {
		store := open(t, Clock)
		assert.NoError(t, store.NewSession().Close())
	})

	t.Run("commit without use", func(t *testing.T) {
		store := open(t, Clock)
		sess := store.NewSession()
		defer sess.Close()
		assert.NoError(t, sess.Commit())
	})

	t.Run("use after close fails", func(t *testing.T) {
		store := open(t, Clock)
		sess := store.NewSession()
		require.NoError(t, sess.Close())

		_, err := sess.Books().List(ctx)
		assert.ErrorIs(t, err, domain.ErrPersistence)
		assert.ErrorIs(t, sess.Commit(), domain.ErrPersistence)
	})

	t.Run("use after commit fails", func(t *testing.T) {
		store := open(t, Clock)
		sess := store.NewSession()
		defer sess.Close()
		require.NoError(t, sess.Begin(ctx))
		require.NoError(t, sess.Commit())

		_, err := sess.Books().List(ctx)
		assert.ErrorIs(t, err, domain.ErrPersistence)
	})

	t.Run("sessions release the store", func(t *testing.T) {
		store := open(t, Clock)
		for i := int64(1); i <= 3; i++ {
			err := inSession(t, store, func(s repository.Session) error {
				return s.Books().Insert(ctx, domain.Book{ID: i, Title: fmt.Sprintf("T%d", i), Author: "A", Publisher: "P"})
			})
			require.NoError(t, err)
		}
		assert.Len(t, listBooks(t, store), 3)
	})
}

func testBooks(t *testing.T, open Factory) {
	ctx := context.Background()
	goBook := domain.Book{ID: 1, Title: "Go", Author: "X", Publisher: "Y"}

	t.Run("insert then get", func(t *testing.T) {
		store := open(t, Clock)
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			return s.Books().Insert(ctx, goBook)
		}))

		var got domain.Book
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			var err error
			got, err = s.Books().Get(ctx, 1)
			return err
		}))
		assert.Equal(t, goBook, got)
	})

	t.Run("duplicate title conflicts without partial insert", func(t *testing.T) {
		store := open(t, Clock)
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			return s.Books().Insert(ctx, goBook)
		}))

		err := inSession(t, store, func(s repository.Session) error {
			return s.Books().Insert(ctx, domain.Book{ID: 2, Title: "Go", Author: "Z", Publisher: "W"})
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, []domain.Book{goBook}, listBooks(t, store))
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		store := open(t, Clock)
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			return s.Books().Insert(ctx, goBook)
		}))

		err := inSession(t, store, func(s repository.Session) error {
			return s.Books().Insert(ctx, domain.Book{ID: 1, Title: "Other", Author: "Z", Publisher: "W"})
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, []domain.Book{goBook}, listBooks(t, store))
	})

	t.Run("get missing", func(t *testing.T) {
		store := open(t, Clock)
		err := inSession(t, store, func(s repository.Session) error {
			_, err := s.Books().Get(ctx, 42)
			return err
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("update replaces all fields", func(t *testing.T) {
		store := open(t, Clock)
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			return s.Books().Insert(ctx, goBook)
		}))

		updated := domain.Book{ID: 1, Title: "Go2", Author: "X2", Publisher: "Y2"}
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			return s.Books().Update(ctx, updated)
		}))
		assert.Equal(t, []domain.Book{updated}, listBooks(t, store))
	})

	t.Run("update keeping own title", func(t *testing.T) {
		store := open(t, Clock)
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			return s.Books().Insert(ctx, goBook)
		}))

		same := goBook
		same.Author = "New Author"
		assert.NoError(t, inSession(t, store, func(s repository.Session) error {
			return s.Books().Update(ctx, same)
		}))
	})

	t.Run("update to taken title conflicts", func(t *testing.T) {
		store := open(t, Clock)
		other := domain.Book{ID: 2, Title: "Rust", Author: "R", Publisher: "P"}
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			if err := s.Books().Insert(ctx, goBook); err != nil {
				return err
			}
			return s.Books().Insert(ctx, other)
		}))

		err := inSession(t, store, func(s repository.Session) error {
			return s.Books().Update(ctx, domain.Book{ID: 2, Title: "Go", Author: "R", Publisher: "P"})
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, []domain.Book{goBook, other}, listBooks(t, store))
	})

	t.Run("update missing leaves state unchanged", func(t *testing.T) {
		store := open(t, Clock)
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			return s.Books().Insert(ctx, goBook)
		}))

		err := inSession(t, store, func(s repository.Session) error {
			return s.Books().Update(ctx, domain.Book{ID: 9, Title: "Nope", Author: "N", Publisher: "N"})
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, []domain.Book{goBook}, listBooks(t, store))
	})

	t.Run("delete removes exactly one", func(t *testing.T) {
		store := open(t, Clock)
		books := []domain.Book{
			goBook,
			{ID: 2, Title: "Rust", Author: "R", Publisher: "P"},
			{ID: 3, Title: "Zig", Author: "Z", Publisher: "P"},
		}
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			for _, b := range books {
				if err := s.Books().Insert(ctx, b); err != nil {
					return err
				}
			}
			return nil
		}))

		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			return s.Books().Delete(ctx, 2)
		}))
		assert.Equal(t, []domain.Book{books[0], books[2]}, listBooks(t, store))

		err := inSession(t, store, func(s repository.Session) error {
			return s.Books().Delete(ctx, 2)
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Len(t, listBooks(t, store), 2)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		store := open(t, Clock)
		ids := []int64{7, 3, 11, 1, 5}
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			for _, id := range ids {
				b := domain.Book{ID: id, Title: fmt.Sprintf("Book %d", id), Author: "A", Publisher: "P"}
				if err := s.Books().Insert(ctx, b); err != nil {
					return err
				}
			}
			return nil
		}))

		var got []int64
		for _, b := range listBooks(t, store) {
			got = append(got, b.ID)
		}
		assert.Equal(t, []int64{1, 3, 5, 7, 11}, got)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		store := open(t, Clock)
		books := listBooks(t, store)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})
}

func testStudents(t *testing.T, open Factory) {
	ctx := context.Background()
	store := open(t, Clock)

	ravi := domain.Student{ID: 1, Name: "Ravi", Grade: 8, Address: "Pune"}
	asha := domain.Student{ID: 2, Name: "Asha", Grade: 9, Address: "Delhi"}

	require.NoError(t, inSession(t, store, func(s repository.Session) error {
		if err := s.Students().Insert(ctx, asha); err != nil {
			return err
		}
		return s.Students().Insert(ctx, ravi)
	}))

	err := inSession(t, store, func(s repository.Session) error {
		return s.Students().Insert(ctx, domain.Student{ID: 1, Name: "Dup", Address: "X"})
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	ravi.Grade = 10
	require.NoError(t, inSession(t, store, func(s repository.Session) error {
		return s.Students().Update(ctx, ravi)
	}))

	var got domain.Student
	require.NoError(t, inSession(t, store, func(s repository.Session) error {
		got, err = s.Students().Get(ctx, 1)
		return err
	}))
	assert.Equal(t, ravi, got)

	assert.ErrorIs(t, inSession(t, store, func(s repository.Session) error {
		return s.Students().Update(ctx, domain.Student{ID: 5, Name: "Ghost", Address: "-"})
	}), domain.ErrNotFound)

	require.NoError(t, inSession(t, store, func(s repository.Session) error {
		return s.Students().Delete(ctx, 2)
	}))

	var all []domain.Student
	require.NoError(t, inSession(t, store, func(s repository.Session) error {
		all, err = s.Students().List(ctx)
		return err
	}))
	assert.Equal(t, []domain.Student{ravi}, all)

	assert.ErrorIs(t, inSession(t, store, func(s repository.Session) error {
		return s.Students().Delete(ctx, 2)
	}), domain.ErrNotFound)
}

func testPosts(t *testing.T, open Factory) {
	ctx := context.Background()
	content := "first post"

	insert := func(t *testing.T, store repository.Store, p domain.Post) (domain.Post, error) {
		t.Helper()
		var out domain.Post
		err := inSession(t, store, func(s repository.Session) error {
			var err error
			out, err = s.Posts().Insert(ctx, p)
			return err
		})
		return out, err
	}

	t.Run("insert assigns id and created_at", func(t *testing.T) {
		store := open(t, Clock)

		first, err := insert(t, store, domain.Post{Title: "Hello World", Slug: "hello-world", Content: &content})
		require.NoError(t, err)
		second, err := insert(t, store, domain.Post{Title: "Second", Slug: "second"})
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
		assert.True(t, Fixed.Equal(first.CreatedAt), "created_at = %v", first.CreatedAt)
		require.NotNil(t, first.Content)
		assert.Equal(t, content, *first.Content)
		assert.Nil(t, second.Content)
	})

	t.Run("get by slug", func(t *testing.T) {
		store := open(t, Clock)
		created, err := insert(t, store, domain.Post{Title: "Hello World", Slug: "hello-world"})
		require.NoError(t, err)

		var got domain.Post
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			got, err = s.Posts().GetBySlug(ctx, "hello-world")
			return err
		}))
		assert.Equal(t, created.ID, got.ID)

		assert.ErrorIs(t, inSession(t, store, func(s repository.Session) error {
			_, err := s.Posts().GetBySlug(ctx, "missing")
			return err
		}), domain.ErrNotFound)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		store := open(t, Clock)
		_, err := insert(t, store, domain.Post{Title: "Hello World", Slug: "hello-world"})
		require.NoError(t, err)

		_, err = insert(t, store, domain.Post{Title: "Hello  World", Slug: "hello-world"})
		assert.ErrorIs(t, err, domain.ErrConflict)
		_, err = insert(t, store, domain.Post{Title: "Hello World", Slug: "other"})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("update keeps created_at", func(t *testing.T) {
		store := open(t, Clock)
		created, err := insert(t, store, domain.Post{Title: "Draft", Slug: "draft"})
		require.NoError(t, err)

		body := "now with content"
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			return s.Posts().Update(ctx, domain.Post{ID: created.ID, Title: "Final", Slug: "final", Content: &body})
		}))

		var got domain.Post
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			got, err = s.Posts().Get(ctx, created.ID)
			return err
		}))
		assert.Equal(t, "Final", got.Title)
		assert.Equal(t, "final", got.Slug)
		require.NotNil(t, got.Content)
		assert.Equal(t, body, *got.Content)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("update and delete missing", func(t *testing.T) {
		store := open(t, Clock)
		assert.ErrorIs(t, inSession(t, store, func(s repository.Session) error {
			return s.Posts().Update(ctx, domain.Post{ID: 3, Title: "x", Slug: "x"})
		}), domain.ErrNotFound)
		assert.ErrorIs(t, inSession(t, store, func(s repository.Session) error {
			return s.Posts().Delete(ctx, 3)
		}), domain.ErrNotFound)
	})

	t.Run("list after deletes", func(t *testing.T) {
		store := open(t, Clock)
		for _, title := range []string{"One", "Two", "Three"} {
			_, err := insert(t, store, domain.Post{Title: title, Slug: title})
			require.NoError(t, err)
		}
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			return s.Posts().Delete(ctx, 2)
		}))

		var posts []domain.Post
		require.NoError(t, inSession(t, store, func(s repository.Session) error {
			var err error
			posts, err = s.Posts().List(ctx)
			return err
		}))
		require.Len(t, posts, 2)
		assert.Equal(t, "One", posts[0].Title)
		assert.Equal(t, "Three", posts[1].Title)
	})
}
