package budget

import (
	"context"
	"errors"
	"testing"

	"budgetapp/internal/core"
	"budgetapp/internal/tables"
	"budgetapp/internal/tables/memory"
)

func newTestLedger(rows [][]string) *Ledger {
	store := memory.New()
	store.Seed(tables.Transactions, rows)
	return NewLedger(store)
}

func TestLedgerCountExcludesHeader(t *testing.T) {
	withHeader := newTestLedger([][]string{
		{"Amount", "Counterparty", "Date", "Category"},
		{"100.00", "payer", "01-08-26", IncomeTag},
		{"-40.00", "Landlord", "02-08-26", "Rent"},
	})
	n, err := withHeader.Count(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("expected 2, got %d (err=%v)", n, err)
	}

	withoutHeader := newTestLedger([][]string{
		{"100.00", "payer", "01-08-26", IncomeTag},
	})
	n, err = withoutHeader.Count(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("expected 1, got %d (err=%v)", n, err)
	}

	empty := newTestLedger(nil)
	n, err = empty.Count(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("expected 0, got %d (err=%v)", n, err)
	}
}

func TestLedgerRecentMostRecentFirst(t *testing.T) {
	l := newTestLedger([][]string{
		{"Amount", "Counterparty", "Date", "Category"},
		{"100.00", "payer", "01-08-26", IncomeTag},
		{"-40.00", "Landlord", "02-08-26", "Rent"},
		{"-5.50", "Cafe", "03-08-26", "Food"},
	})
	txs, err := l.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2, got %d", len(txs))
	}
	if txs[0].Counterparty != "Cafe" || txs[0].Amount != pounds(-550) {
		t.Fatalf("unexpected first entry: %+v", txs[0])
	}
	if txs[1].Counterparty != "Landlord" || txs[1].Amount != pounds(-4000) {
		t.Fatalf("unexpected second entry: %+v", txs[1])
	}
}

func TestLedgerRecentOutOfRange(t *testing.T) {
	l := newTestLedger([][]string{
		{"Amount", "Counterparty", "Date", "Category"},
		{"100.00", "payer", "01-08-26", IncomeTag},
	})
	for _, n := range []int{0, -1, 2} {
		if _, err := l.Recent(context.Background(), n); !errors.Is(err, core.ErrOutOfRange) {
			t.Fatalf("recent(%d): expected ErrOutOfRange, got %v", n, err)
		}
	}
}

func TestLedgerSumAmounts(t *testing.T) {
	l := newTestLedger([][]string{
		{"Amount", "Counterparty", "Date", "Category"},
		{"100.00", "payer", "01-08-26", IncomeTag},
		{"-40.00", "Landlord", "02-08-26", "Rent"},
		{"-0.01", "Kiosk", "03-08-26", "Food"},
	})
	sum, err := l.SumAmounts(context.Background())
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != (core.Money{Pence: 5999}) {
		t.Fatalf("sum = %s, want 59.99", sum)
	}
}
