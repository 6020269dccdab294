package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
	"bookshelf/internal/repository/repotest"
)

func TestStoreContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T, now func() time.Time) repository.Store {
		return NewWithClock(now)
	})
}

func TestConcurrentSessionsSerialize(t *testing.T) {
	store := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := int64(1); i <= 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sess := store.NewSession()
			defer sess.Close()
			if err := sess.Students().Insert(ctx, domain.Student{ID: id, Name: "S", Address: "A"}); err != nil {
				t.Errorf("insert %d: %v", id, err)
				return
			}
			if err := sess.Commit(); err != nil {
				t.Errorf("commit %d: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	sess := store.NewSession()
	defer sess.Close()
	students, err := sess.Students().List(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 20)
}

func TestReturnedPostsDoNotAliasStore(t *testing.T) {
	store := New()
	ctx := context.Background()
	body := "original"

	sess := store.NewSession()
	created, err := sess.Posts().Insert(ctx, domain.Post{Title: "T", Slug: "t", Content: &body})
	require.NoError(t, err)
	require.NoError(t, sess.Commit())
	require.NoError(t, sess.Close())

	*created.Content = "mutated"
	body = "mutated too"

	sess = store.NewSession()
	defer sess.Close()
	got, err := sess.Posts().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", *got.Content)
}

func TestBeginHonoursCancelledContext(t *testing.T) {
	store := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess := store.NewSession()
	defer sess.Close()
	assert.ErrorIs(t, sess.Begin(ctx), domain.ErrPersistence)

	// the failed begin must not have taken the lock
	other := store.NewSession()
	require.NoError(t, other.Begin(context.Background()))
	require.NoError(t, other.Close())
}
