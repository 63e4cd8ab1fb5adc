package budget

import (
	"context"
	"errors"
	"testing"

	"budgetapp/internal/core"
	"budgetapp/internal/tables"
	"budgetapp/internal/tables/memory"
)

func newTestSnapshot(t *testing.T, rows [][]string) *snapshot {
	t.Helper()
	store := memory.New()
	store.Seed(tables.Categories, rows)
	snap, err := loadSnapshot(context.Background(), store)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	return snap
}

func TestDelegationRemainingStrictlyDecreases(t *testing.T) {
	snap := newTestSnapshot(t, [][]string{{"Rent", "0.00"}, {"Food", "0.00"}})
	d := newDelegation(snap, pounds(10000))

	prev := d.Remaining()
	for _, s := range []step{{1, 4000}, {2, 1}, {1, 5998}, {2, 1}} {
		if err := d.Step(s.ordinal, pounds(s.pence)); err != nil {
			t.Fatalf("step %+v: %v", s, err)
		}
		if !prev.GreaterThan(d.Remaining()) {
			t.Fatalf("remaining did not decrease: %s -> %s", prev, d.Remaining())
		}
		if d.Remaining().IsNegative() {
			t.Fatalf("remaining went negative: %s", d.Remaining())
		}
		prev = d.Remaining()
	}
	if !d.Done() {
		t.Fatalf("expected done, remaining %s", d.Remaining())
	}
	if snap.total() != pounds(10000) {
		t.Fatalf("credited total = %s, want 100.00", snap.total())
	}
}

func TestDelegationStepRejectsOvershoot(t *testing.T) {
	snap := newTestSnapshot(t, [][]string{{"Rent", "0.00"}})
	d := newDelegation(snap, pounds(1000))

	if err := d.Step(1, pounds(1001)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if d.Remaining() != pounds(1000) {
		t.Fatalf("failed step changed remaining: %s", d.Remaining())
	}
	if snap.total() != pounds(0) {
		t.Fatalf("failed step credited money: %s", snap.total())
	}
}

func TestDelegationStepValidation(t *testing.T) {
	snap := newTestSnapshot(t, [][]string{{"Rent", "0.00"}})
	d := newDelegation(snap, pounds(1000))

	if err := d.Step(1, pounds(0)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("zero amount: expected ErrInvalidAmount, got %v", err)
	}
	if err := d.Step(1, pounds(-5)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("negative amount: expected ErrInvalidAmount, got %v", err)
	}
	if err := d.Step(0, pounds(100)); !errors.Is(err, core.ErrOutOfRange) {
		t.Fatalf("ordinal 0: expected ErrOutOfRange, got %v", err)
	}
	if err := d.Step(2, pounds(100)); !errors.Is(err, core.ErrOutOfRange) {
		t.Fatalf("ordinal past end: expected ErrOutOfRange, got %v", err)
	}

	if err := d.Step(1, pounds(1000)); err != nil {
		t.Fatalf("final step: %v", err)
	}
	if !d.Done() {
		t.Fatalf("expected done")
	}
	if err := d.Step(1, pounds(1)); err == nil {
		t.Fatalf("expected error stepping a completed delegation")
	}
}

func TestDelegationRunHonorsContextCancellation(t *testing.T) {
	snap := newTestSnapshot(t, [][]string{{"Rent", "0.00"}})
	d := newDelegation(snap, pounds(1000))

	ctx, cancel := context.WithCancel(context.Background())
	alloc := AllocatorFunc(func(context.Context, core.Money, []Category) (int, core.Money, error) {
		cancel() // simulate the session going away mid-loop
		return 1, pounds(500), nil
	})
	err := d.run(ctx, alloc)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCategoryHandleSurvivesOrdinalShift(t *testing.T) {
	// Removing an earlier category shifts later ordinals down by one, but the
	// handle captured before the removal still addresses the same envelope.
	snap := newTestSnapshot(t, [][]string{{"Rent", "10.00"}, {"Food", "20.00"}, {"Fun", "30.00"}})
	food, err := snap.byOrdinal(2)
	if err != nil {
		t.Fatalf("resolve Food: %v", err)
	}
	foodID := food.cat.ID

	if _, err := snap.removeCategory(1); err != nil {
		t.Fatalf("remove Rent: %v", err)
	}
	if err := snap.credit(foodID, pounds(500)); err != nil {
		t.Fatalf("credit by handle: %v", err)
	}

	e, err := snap.byOrdinal(1) // Food is ordinal 1 now
	if err != nil {
		t.Fatalf("resolve shifted ordinal: %v", err)
	}
	if e.cat.Name != "Food" || e.cat.Balance != pounds(2500) {
		t.Fatalf("credit landed on %q (%s), want Food at 25.00", e.cat.Name, e.cat.Balance)
	}
}

func TestRemovedCategoryHandleRejected(t *testing.T) {
	snap := newTestSnapshot(t, [][]string{{"Rent", "10.00"}, {"Food", "20.00"}})
	rent, err := snap.byOrdinal(1)
	if err != nil {
		t.Fatalf("resolve Rent: %v", err)
	}
	if _, err := snap.removeCategory(1); err != nil {
		t.Fatalf("remove Rent: %v", err)
	}

	if err := snap.credit(rent.cat.ID, pounds(100)); !errors.Is(err, core.ErrOutOfRange) {
		t.Fatalf("credit stale handle: expected ErrOutOfRange, got %v", err)
	}
	if err := snap.debit(rent.cat.ID, pounds(100)); !errors.Is(err, core.ErrOutOfRange) {
		t.Fatalf("debit stale handle: expected ErrOutOfRange, got %v", err)
	}
	if snap.total() != pounds(2000) {
		t.Fatalf("stale handle mutated state: total %s", snap.total())
	}
}

func TestWithdrawalBoundedByBalanceAndRemaining(t *testing.T) {
	snap := newTestSnapshot(t, [][]string{{"Rent", "50.00"}, {"Food", "30.00"}})
	w := newWithdrawal(snap, pounds(2000))

	if err := w.Step(2, pounds(3001)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("over remaining: expected ErrInvalidAmount, got %v", err)
	}
	snap2 := newTestSnapshot(t, [][]string{{"Rent", "5.00"}, {"Food", "30.00"}})
	w2 := newWithdrawal(snap2, pounds(2000))
	if err := w2.Step(1, pounds(1000)); !errors.Is(err, core.ErrInsufficientFunds) {
		t.Fatalf("over balance: expected ErrInsufficientFunds, got %v", err)
	}

	if err := w.Step(1, pounds(1500)); err != nil {
		t.Fatalf("step: %v", err)
	}
	if err := w.Step(2, pounds(500)); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !w.Done() {
		t.Fatalf("expected done, remaining %s", w.Remaining())
	}
	if snap.total() != pounds(6000) {
		t.Fatalf("total = %s, want 60.00", snap.total())
	}
}
