package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"budgetapp/internal/budget"
	"budgetapp/internal/core"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewPrompter(strings.NewReader(input), out), out
}

func TestMoneyReasksOnInvalidInput(t *testing.T) {
	p, out := newTestPrompter("nonsense\n-5\n12.50\n")
	got, err := p.Money("amount: ")
	if err != nil {
		t.Fatalf("Money: %v", err)
	}
	if got.Pence != 1250 {
		t.Fatalf("Money = %d pence, want 1250", got.Pence)
	}
	if !strings.Contains(out.String(), "invalid amount") {
		t.Fatalf("expected re-prompt message, got %q", out.String())
	}
}

func TestMoneyAbort(t *testing.T) {
	p, _ := newTestPrompter("q\n")
	if _, err := p.Money("amount: "); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestDateEmptyMeansToday(t *testing.T) {
	p, _ := newTestPrompter("\n")
	got, err := p.Date("date: ")
	if err != nil {
		t.Fatalf("Date: %v", err)
	}
	if got.String() != core.Today().String() {
		t.Fatalf("Date = %s, want today", got)
	}
}

func TestDateParsesExplicitInput(t *testing.T) {
	p, _ := newTestPrompter("bad-date\n05-08-26\n")
	got, err := p.Date("date: ")
	if err != nil {
		t.Fatalf("Date: %v", err)
	}
	if got.String() != "05-08-26" {
		t.Fatalf("Date = %s, want 05-08-26", got)
	}
}

func TestOrdinalBounds(t *testing.T) {
	p, out := newTestPrompter("0\n9\n2\n")
	got, err := p.Ordinal("pick: ", 3)
	if err != nil {
		t.Fatalf("Ordinal: %v", err)
	}
	if got != 2 {
		t.Fatalf("Ordinal = %d, want 2", got)
	}
	if !strings.Contains(out.String(), "between 1 and 3") {
		t.Fatalf("expected bounds message, got %q", out.String())
	}
}

func TestAllocatorAssignsAllRemaining(t *testing.T) {
	p, _ := newTestPrompter("1\na\n")
	alloc := p.Allocator("income")
	cats := []budget.Category{{Name: "Rent", Balance: core.Money{Pence: 1000}}}

	ordinal, amount, err := alloc.Allocate(context.Background(), core.Money{Pence: 4200}, cats)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if ordinal != 1 || amount.Pence != 4200 {
		t.Fatalf("Allocate = (%d, %d), want (1, 4200)", ordinal, amount.Pence)
	}
}

func TestAllocatorRejectsOvershoot(t *testing.T) {
	p, out := newTestPrompter("1\n50.00\n10.00\n")
	alloc := p.Allocator("income")
	cats := []budget.Category{{Name: "Rent"}}

	_, amount, err := alloc.Allocate(context.Background(), core.Money{Pence: 2000}, cats)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if amount.Pence != 1000 {
		t.Fatalf("amount = %d pence, want 1000", amount.Pence)
	}
	if !strings.Contains(out.String(), "only 20.00 remaining") {
		t.Fatalf("expected overshoot message, got %q", out.String())
	}
}

func TestAllocatorAbort(t *testing.T) {
	p, _ := newTestPrompter("q\n")
	alloc := p.Allocator("income")
	cats := []budget.Category{{Name: "Rent"}}

	if _, _, err := alloc.Allocate(context.Background(), core.Money{Pence: 100}, cats); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestWithdrawalAllocatorBoundedByBalance(t *testing.T) {
	p, out := newTestPrompter("1\n2\na\n")
	alloc := p.WithdrawalAllocator()
	cats := []budget.Category{
		{Name: "Empty", Balance: core.Money{}},
		{Name: "Food", Balance: core.Money{Pence: 500}},
	}

	ordinal, amount, err := alloc.Allocate(context.Background(), core.Money{Pence: 2000}, cats)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if ordinal != 2 || amount.Pence != 500 {
		t.Fatalf("Allocate = (%d, %d), want (2, 500)", ordinal, amount.Pence)
	}
	if !strings.Contains(out.String(), "nothing left to take") {
		t.Fatalf("expected empty-category message, got %q", out.String())
	}
}
