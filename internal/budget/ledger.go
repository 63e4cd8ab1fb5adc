package budget

import (
	"context"
	"fmt"

	"budgetapp/internal/core"
	"budgetapp/internal/tables"
)

// Ledger reads the append-only transaction table. Writes go through the
// snapshot so they share the operation's commit; reads here are direct since
// they never mutate anything.
//
// Row 1 of the table may be a header (the spreadsheet layout has one, the SQL
// adapters do not). It is detected by its amount cell not parsing as money
// and excluded from counts.
type Ledger struct {
	store tables.RowStore
}

func NewLedger(store tables.RowStore) *Ledger {
	return &Ledger{store: store}
}

// headerRows reports how many leading rows are not data.
func (l *Ledger) headerRows(ctx context.Context) (int, error) {
	n, err := l.store.RowCount(ctx, tables.Transactions)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	if n == 0 {
		return 0, nil
	}
	row, err := l.store.ReadRow(ctx, tables.Transactions, 1)
	if err != nil {
		return 0, fmt.Errorf("read first transaction row: %w", err)
	}
	if len(row) < tables.TransactionColAmount {
		return 1, nil
	}
	if _, err := core.ParseCellMoney(row[tables.TransactionColAmount-1]); err != nil {
		return 1, nil
	}
	return 0, nil
}

// Count returns the number of ledger entries, excluding any header.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	n, err := l.store.RowCount(ctx, tables.Transactions)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	header, err := l.headerRows(ctx)
	if err != nil {
		return 0, err
	}
	return n - header, nil
}

// Recent returns the last n entries, most recent first. n must be between 1
// and Count.
func (l *Ledger) Recent(ctx context.Context, n int) ([]Transaction, error) {
	total, err := l.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > total {
		return nil, fmt.Errorf("recent %d of %d entries: %w", n, total, core.ErrOutOfRange)
	}
	header, err := l.headerRows(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Transaction, 0, n)
	last := header + total
	for row := last; row > last-n; row-- {
		cells, err := l.store.ReadRow(ctx, tables.Transactions, row)
		if err != nil {
			return nil, fmt.Errorf("read transaction row %d: %w", row, err)
		}
		tx, err := parseTransactionRow(cells)
		if err != nil {
			return nil, fmt.Errorf("transaction row %d: %w", row, err)
		}
		out = append(out, tx)
	}
	return out, nil
}

// SumAmounts adds up every ledger amount. It exists for reconciliation
// debugging and for asserting conservation in tests.
func (l *Ledger) SumAmounts(ctx context.Context) (core.Money, error) {
	amounts, err := l.store.ListColumn(ctx, tables.Transactions, tables.TransactionColAmount)
	if err != nil {
		return core.Money{}, fmt.Errorf("list transaction amounts: %w", err)
	}
	header, err := l.headerRows(ctx)
	if err != nil {
		return core.Money{}, err
	}
	var sum core.Money
	for _, cell := range amounts[header:] {
		m, err := core.ParseCellMoney(cell)
		if err != nil {
			return core.Money{}, fmt.Errorf("amount cell %q: %w", cell, err)
		}
		sum = sum.Add(m)
	}
	return sum, nil
}

func parseTransactionRow(cells []string) (Transaction, error) {
	if len(cells) < 4 {
		return Transaction{}, fmt.Errorf("expected 4 cells, got %d", len(cells))
	}
	amount, err := core.ParseCellMoney(cells[tables.TransactionColAmount-1])
	if err != nil {
		return Transaction{}, err
	}
	date, err := core.ParseDate(cells[tables.TransactionColDate-1])
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Amount:       amount,
		Counterparty: cells[tables.TransactionColCounterparty-1],
		Date:         date,
		Category:     cells[tables.TransactionColCategory-1],
	}, nil
}
