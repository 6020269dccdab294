// Package memory implements repository.Store with maps keyed by identity.
//
// A session holds the store lock from Begin until Close and works on a
// private copy of the tables, which replaces the live tables on Commit.
// Sessions therefore run one at a time, the same way the single-connection
// SQLite store serializes them.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookshelf/internal/repository"
)

// Store implements repository.Store in process memory
type Store struct {
	mu   sync.Mutex
	data *tables
	now  func() time.Time
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{data: newTables(), now: time.Now}
}

// NewWithClock creates an empty store that stamps posts with now()
func NewWithClock(now func() time.Time) *Store {
	s := New()
	s.now = now
	return s
}

// NewSession returns a session that locks the store on first use
func (s *Store) NewSession() repository.Session {
	return &Session{store: s}
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
