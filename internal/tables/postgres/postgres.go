// Package postgres persists the budget tables in PostgreSQL. The schema
// mirrors the sqlite adapter: an explicit position column keeps the ordinal
// ordering, and deletion shifts later positions down.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"budgetapp/internal/tables"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    balance TEXT NOT NULL DEFAULT '0.00'
);

CREATE TABLE IF NOT EXISTS transactions (
    position INTEGER NOT NULL,
    amount TEXT NOT NULL,
    counterparty TEXT NOT NULL DEFAULT '',
    tx_date TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT ''
);
`

type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against databaseURL and ensures the schema exists.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

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
	rows, err := s.pool.Query(ctx, q)
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
	q := fmt.Sprintf("SELECT %s FROM %s WHERE position = $1", strings.Join(cols, ", "), tblName)
	dest := make([]any, len(cols))
	vals := make([]string, len(cols))
	for i := range dest {
		dest[i] = &vals[i]
	}
	err = s.pool.QueryRow(ctx, q, row).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
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
	q := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE position = $2", tblName, colName)
	tag, err := s.pool.Exec(ctx, q, value, row)
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", tblName, row, err)
	}
	if tag.RowsAffected() == 0 {
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
	placeholders := make([]string, len(cols))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = v
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (position, %s) SELECT COALESCE(MAX(position), 0) + 1, %s FROM %s",
		tblName, strings.Join(cols, ", "), strings.Join(placeholders, ", "), tblName)
	if _, err := s.pool.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("append %s row: %w", tblName, err)
	}
	return nil
}

func (s *Store) DeleteRow(ctx context.Context, table tables.Table, row int) error {
	_, tblName, err := columns(table)
	if err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE position = $1", tblName), row)
	if err != nil {
		return fmt.Errorf("delete %s row %d: %w", tblName, row, err)
	}
	if tag.RowsAffected() == 0 {
		return tables.ErrRowNotFound
	}
	_, err = tx.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET position = position - 1 WHERE position > $1", tblName), row)
	if err != nil {
		return fmt.Errorf("shift %s rows: %w", tblName, err)
	}
	if err := tx.Commit(ctx); err != nil {
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
	if err := s.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s rows: %w", tblName, err)
	}
	return n, nil
}

var _ tables.RowStore = (*Store)(nil)
