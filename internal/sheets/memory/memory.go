package memory

import (
	"context"
	"sync"

	ports "sitelog/internal/sheets"
)

// Store is an in-process implementation of the persistence ports, used by
// tests and as the zero-config backend. The mutex keeps it safe under the
// race detector; it does not add cross-session guarantees the real store
// lacks.
type Store struct {
	mu    sync.Mutex
	rows  map[string][][]string
	cells map[string]map[string]string
}

var _ ports.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		rows:  map[string][][]string{},
		cells: map[string]map[string]string{},
	}
}

func (s *Store) ReadAllRows(_ context.Context, sheet string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRows(s.rows[sheet]), nil
}

func (s *Store) OverwriteAll(_ context.Context, sheet string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[sheet] = copyRows(rows)
	return nil
}

func (s *Store) AppendRow(_ context.Context, sheet string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[sheet] = append(s.rows[sheet], append([]string(nil), row...))
	return nil
}

func (s *Store) ReadCell(_ context.Context, sheet, addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cells[sheet][addr], nil
}

func (s *Store) WriteCell(_ context.Context, sheet, addr, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cells[sheet] == nil {
		s.cells[sheet] = map[string]string{}
	}
	s.cells[sheet][addr] = value
	return nil
}

func copyRows(in [][]string) [][]string {
	out := make([][]string, len(in))
	for i, row := range in {
		out[i] = append([]string(nil), row...)
	}
	return out
}
