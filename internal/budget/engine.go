package budget

import (
	"context"
	"fmt"

	"budgetapp/internal/core"
)

// Allocator supplies one allocation step of a delegation or withdrawal loop:
// given the money still unassigned and the current categories, it answers
// which ordinal to touch and by how much. The interactive implementation
// blocks on user input; tests script it. Returning an error aborts the whole
// operation, which is then rolled back by discarding the snapshot.
type Allocator interface {
	Allocate(ctx context.Context, remaining core.Money, categories []Category) (ordinal int, amount core.Money, err error)
}

// AllocatorFunc adapts a function to the Allocator interface.
type AllocatorFunc func(ctx context.Context, remaining core.Money, categories []Category) (int, core.Money, error)

func (f AllocatorFunc) Allocate(ctx context.Context, remaining core.Money, categories []Category) (int, core.Money, error) {
	return f(ctx, remaining, categories)
}

// Delegation drives money from an unassigned pool into categories. One
// engine instance serves exactly one event: an income intake, a surplus
// reconciliation, or a deletion redistribution.
//
// The engine moves from Active(remaining) to Done; each step consumes a
// strictly positive amount bounded by remaining, so remaining decreases
// every step, never goes negative, and the loop terminates.
type Delegation struct {
	snap      *snapshot
	remaining core.Money
}

func newDelegation(snap *snapshot, remaining core.Money) *Delegation {
	return &Delegation{snap: snap, remaining: remaining}
}

// Remaining returns the money still unassigned.
func (d *Delegation) Remaining() core.Money { return d.remaining }

// Done reports whether every penny has been assigned.
func (d *Delegation) Done() bool { return d.remaining.IsZero() }

// Step credits amount to the category at ordinal and shrinks the pool.
// Amounts must satisfy 0 < amount <= remaining; ordinals must be in range.
// A failed step changes nothing.
func (d *Delegation) Step(ordinal int, amount core.Money) error {
	if d.Done() {
		return fmt.Errorf("delegation already complete: %w", core.ErrInvalidAmount)
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.GreaterThan(d.remaining) {
		return fmt.Errorf("amount %s exceeds remaining %s: %w", amount, d.remaining, core.ErrInvalidAmount)
	}
	e, err := d.snap.byOrdinal(ordinal)
	if err != nil {
		return err
	}
	if err := d.snap.credit(e.cat.ID, amount); err != nil {
		return err
	}
	d.remaining = d.remaining.Sub(amount)
	return nil
}

// run loops the engine to completion against an allocator. A nil allocator is
// only acceptable when there is nothing to assign.
func (d *Delegation) run(ctx context.Context, alloc Allocator) error {
	if !d.Done() && alloc == nil {
		return fmt.Errorf("no allocator for remaining %s: %w", d.remaining, core.ErrInvalidAmount)
	}
	for !d.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		ordinal, amount, err := alloc.Allocate(ctx, d.remaining, d.snap.categories())
		if err != nil {
			return err
		}
		if err := d.Step(ordinal, amount); err != nil {
			return err
		}
	}
	return nil
}

// Withdrawal is the mirror image of Delegation, used by the reconciliation
// deficit path: each step debits a chosen category, bounded both by the
// remaining pool and by that category's own balance.
type Withdrawal struct {
	snap      *snapshot
	remaining core.Money
}

func newWithdrawal(snap *snapshot, remaining core.Money) *Withdrawal {
	return &Withdrawal{snap: snap, remaining: remaining}
}

func (w *Withdrawal) Remaining() core.Money { return w.remaining }
func (w *Withdrawal) Done() bool            { return w.remaining.IsZero() }

// Step debits amount from the category at ordinal and shrinks the pool.
func (w *Withdrawal) Step(ordinal int, amount core.Money) error {
	if w.Done() {
		return fmt.Errorf("withdrawal already complete: %w", core.ErrInvalidAmount)
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.GreaterThan(w.remaining) {
		return fmt.Errorf("amount %s exceeds remaining %s: %w", amount, w.remaining, core.ErrInvalidAmount)
	}
	e, err := w.snap.byOrdinal(ordinal)
	if err != nil {
		return err
	}
	if amount.GreaterThan(e.cat.Balance) {
		return fmt.Errorf("amount %s exceeds %q balance %s: %w",
			amount, e.cat.Name, e.cat.Balance, core.ErrInsufficientFunds)
	}
	if err := w.snap.debit(e.cat.ID, amount); err != nil {
		return err
	}
	w.remaining = w.remaining.Sub(amount)
	return nil
}

func (w *Withdrawal) run(ctx context.Context, alloc Allocator) error {
	if !w.Done() && alloc == nil {
		return fmt.Errorf("no allocator for remaining %s: %w", w.remaining, core.ErrInvalidAmount)
	}
	for !w.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		ordinal, amount, err := alloc.Allocate(ctx, w.remaining, w.snap.categories())
		if err != nil {
			return err
		}
		if err := w.Step(ordinal, amount); err != nil {
			return err
		}
	}
	return nil
}
