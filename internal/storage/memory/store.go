package memory

import (
	"context"
	"sync"

	"leaveledger/internal/interfaces"
)

// Store is an in-memory implementation of interfaces.SheetStore. It holds
// the whole tracked range as one snapshot and is safe for concurrent use.
// Tests run against it; the server falls back to it when no sheet is
// configured.
type Store struct {
	mu           sync.Mutex
	rows         [][]string
	persistCalls int
}

// NewStore creates a Store seeded with the given rows. The seed is copied.
func NewStore(rows [][]string) *Store {
	s := &Store{}
	s.rows = copyRows(rows)
	return s
}

// FetchAll returns a copy of the current snapshot so callers cannot mutate
// internal state.
func (s *Store) FetchAll(ctx context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRows(s.rows), nil
}

// PersistAll replaces the whole snapshot, last writer wins.
func (s *Store) PersistAll(ctx context.Context, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = copyRows(rows)
	s.persistCalls++
	return nil
}

// PersistCalls reports how many snapshots have been written. Test hook for
// the one-write-per-resolution property.
func (s *Store) PersistCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistCalls
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Compile-time check: Store implements the SheetStore interface.
var _ interfaces.SheetStore = (*Store)(nil)
