// Package tables defines the row-store port the budget engine persists
// through. The store is a pair of ordered tables addressed by 1-based row and
// column indexes, exactly the shape of the spreadsheet the data lives in when
// the Google Sheets adapter is active. Every other adapter mimics that shape.
package tables

import (
	"context"
	"errors"
)

// Table names the two tables every adapter must serve.
type Table string

const (
	Categories   Table = "categories"
	Transactions Table = "transactions"
)

// Column indexes, 1-based like spreadsheet columns.
const (
	CategoryColName    = 1
	CategoryColBalance = 2

	TransactionColAmount       = 1
	TransactionColCounterparty = 2
	TransactionColDate         = 3
	TransactionColCategory     = 4
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrRowNotFound  = errors.New("row not found")
	ErrColNotFound  = errors.New("column not found")
)

// RowStore is the persistence port. Rows and columns are 1-based. Row order
// is significant: category row order defines the ordinals shown to the user,
// transaction row order is insertion order.
type RowStore interface {
	// ListColumn returns one cell per row of the table, top to bottom.
	ListColumn(ctx context.Context, table Table, col int) ([]string, error)
	// ReadRow returns all cells of one row.
	ReadRow(ctx context.Context, table Table, row int) ([]string, error)
	// WriteCell overwrites a single cell of an existing row.
	WriteCell(ctx context.Context, table Table, row, col int, value string) error
	// AppendRow adds a row at the bottom of the table.
	AppendRow(ctx context.Context, table Table, values []string) error
	// DeleteRow removes a row; rows below it shift up by one.
	DeleteRow(ctx context.Context, table Table, row int) error
	// RowCount returns the number of rows currently in the table.
	RowCount(ctx context.Context, table Table) (int, error)
}

// Width returns the column count of a table.
func Width(table Table) (int, error) {
	switch table {
	case Categories:
		return 2, nil
	case Transactions:
		return 4, nil
	default:
		return 0, ErrUnknownTable
	}
}
