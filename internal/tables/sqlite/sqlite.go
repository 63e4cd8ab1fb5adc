// Package sqlite persists the budget tables in a local SQLite database.
// Rows carry an explicit position column so the ordinal ordering survives
// restarts; deletion shifts later positions down, mirroring spreadsheet
// behavior.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"budgetapp/internal/tables"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at dbPath and runs
// migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection without running migrations.
// Used by tests.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// columns maps the port's 1-based column indexes onto SQL column names.
func columns(table tables.Table) ([]string, string, error) {
	switch table {
	case tables.Categories:
		return []string{"name", "balance"}, "categories", nil
	case tables.Transactions:
		return []string{"amount", "counterparty", "tx_date", "category"}, "transactions", nil
	default:
		return nil, "", tables.ErrUnknownTable
	}
}

func column(table tables.Table, col int) (string, string, error) {
	cols, name, err := columns(table)
	if err != nil {
		return "", "", err
	}
	if col < 1 || col > len(cols) {
		return "", "", tables.ErrColNotFound
	}
	return cols[col-1], name, nil
}

func (s *Store) ListColumn(ctx context.Context, table tables.Table, col int) ([]string, error) {
	colName, tblName, err := column(table, col)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY position", colName, tblName)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list column %s.%s: %w", tblName, colName, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", tblName, colName, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s.%s: %w", tblName, colName, err)
	}
	return out, nil
}

func (s *Store) ReadRow(ctx context.Context, table tables.Table, row int) ([]string, error) {
	cols, tblName, err := columns(table)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE position = ?", strings.Join(cols, ", "), tblName)
	dest := make([]any, len(cols))
	vals := make([]string, len(cols))
	for i := range dest {
		dest[i] = &vals[i]
	}
	err = s.db.QueryRowContext(ctx, q, row).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tables.ErrRowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s row %d: %w", tblName, row, err)
	}
	return vals, nil
}

func (s *Store) WriteCell(ctx context.Context, table tables.Table, row, col int, value string) error {
	colName, tblName, err := column(table, col)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("UPDATE %s SET %s = ? WHERE position = ?", tblName, colName)
	res, err := s.db.ExecContext(ctx, q, value, row)
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", tblName, row, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return tables.ErrRowNotFound
	}
	return nil
}

func (s *Store) AppendRow(ctx context.Context, table tables.Table, values []string) error {
	cols, tblName, err := columns(table)
	if err != nil {
		return err
	}
	if len(values) != len(cols) {
		return tables.ErrColNotFound
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	q := fmt.Sprintf(
		"INSERT INTO %s (position, %s) SELECT COALESCE(MAX(position), 0) + 1, %s FROM %s",
		tblName, strings.Join(cols, ", "), placeholders, tblName)
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("append %s row: %w", tblName, err)
	}
	return nil
}

func (s *Store) DeleteRow(ctx context.Context, table tables.Table, row int) error {
	_, tblName, err := columns(table)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE position = ?", tblName), row)
	if err != nil {
		return fmt.Errorf("delete %s row %d: %w", tblName, row, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return tables.ErrRowNotFound
	}
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET position = position - 1 WHERE position > ?", tblName), row)
	if err != nil {
		return fmt.Errorf("shift %s rows: %w", tblName, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func (s *Store) RowCount(ctx context.Context, table tables.Table) (int, error) {
	_, tblName, err := columns(table)
	if err != nil {
		return 0, err
	}
	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", tblName)
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s rows: %w", tblName, err)
	}
	return n, nil
}

var _ tables.RowStore = (*Store)(nil)
