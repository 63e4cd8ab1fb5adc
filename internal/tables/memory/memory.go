// Package memory holds an in-process RowStore used by tests and as the
// default backend when no external storage is configured.
package memory

import (
	"context"
	"sync"

	"budgetapp/internal/tables"
)

type Store struct {
	mu   sync.Mutex
	rows map[tables.Table][][]string
}

func New() *Store {
	return &Store{rows: map[tables.Table][][]string{
		tables.Categories:   {},
		tables.Transactions: {},
	}}
}

// Seed replaces the contents of a table. Rows are copied.
func (s *Store) Seed(table tables.Table, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	s.rows[table] = cp
}

func (s *Store) ListColumn(_ context.Context, table tables.Table, col int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.rows[table]
	if !ok {
		return nil, tables.ErrUnknownTable
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if col < 1 || col > len(r) {
			return nil, tables.ErrColNotFound
		}
		out = append(out, r[col-1])
	}
	return out, nil
}

func (s *Store) ReadRow(_ context.Context, table tables.Table, row int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.rows[table]
	if !ok {
		return nil, tables.ErrUnknownTable
	}
	if row < 1 || row > len(rows) {
		return nil, tables.ErrRowNotFound
	}
	return append([]string(nil), rows[row-1]...), nil
}

func (s *Store) WriteCell(_ context.Context, table tables.Table, row, col int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.rows[table]
	if !ok {
		return tables.ErrUnknownTable
	}
	if row < 1 || row > len(rows) {
		return tables.ErrRowNotFound
	}
	if col < 1 || col > len(rows[row-1]) {
		return tables.ErrColNotFound
	}
	rows[row-1][col-1] = value
	return nil
}

func (s *Store) AppendRow(_ context.Context, table tables.Table, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.rows[table]
	if !ok {
		return tables.ErrUnknownTable
	}
	width, err := tables.Width(table)
	if err != nil {
		return err
	}
	if len(values) != width {
		return tables.ErrColNotFound
	}
	s.rows[table] = append(rows, append([]string(nil), values...))
	return nil
}

func (s *Store) DeleteRow(_ context.Context, table tables.Table, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.rows[table]
	if !ok {
		return tables.ErrUnknownTable
	}
	if row < 1 || row > len(rows) {
		return tables.ErrRowNotFound
	}
	s.rows[table] = append(rows[:row-1], rows[row:]...)
	return nil
}

func (s *Store) RowCount(_ context.Context, table tables.Table) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.rows[table]
	if !ok {
		return 0, tables.ErrUnknownTable
	}
	return len(rows), nil
}
