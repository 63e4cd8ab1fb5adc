package budget

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"budgetapp/internal/core"
	"budgetapp/internal/tables"
)

// CommitNotifier is told which tables an operation changed, after the change
// is durably committed. The AMQP client implements it to trigger spreadsheet
// mirroring; a nil notifier disables it.
type CommitNotifier interface {
	TableChanged(ctx context.Context, table tables.Table)
}

// Service exposes one entry point per budget operation. Each operation loads
// a snapshot, mutates it in memory, and commits it as a single batch, so a
// failed or aborted operation never leaves a partial write behind.
//
// The mutex serializes operations: the design assumes one active session,
// and the lock keeps the conservation invariant safe should a second caller
// ever appear.
type Service struct {
	mu       sync.Mutex
	store    tables.RowStore
	ledger   *Ledger
	notifier CommitNotifier
}

func NewService(store tables.RowStore, notifier CommitNotifier) *Service {
	return &Service{
		store:    store,
		ledger:   NewLedger(store),
		notifier: notifier,
	}
}

// Overview returns the categories with their ordinals and the budgeted total.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return Overview{}, err
	}
	return Overview{Categories: snap.categories(), Total: snap.total()}, nil
}

// Income records money entering the budget and delegates all of it to
// categories. One positive ledger row is written for the full amount; the
// delegation then only distributes money that is already logged.
func (s *Service) Income(ctx context.Context, amount core.Money, payer string, date core.Date, alloc Allocator) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return err
	}
	tx := Transaction{Amount: amount, Counterparty: payer, Date: date, Category: IncomeTag}
	if err := snap.appendTransaction(tx); err != nil {
		return err
	}
	if err := newDelegation(snap, amount).run(ctx, alloc); err != nil {
		return fmt.Errorf("delegate income: %w", err)
	}
	if err := s.apply(ctx, snap); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Income delegated",
		"amount", amount.String(),
		"payer", payer,
		"date", date.String())
	return nil
}

// Spend deducts a payment from one category and logs it. Affordability is
// checked against the whole budgeted total, not the selected category, so a
// single envelope may go negative as long as the budget covers the payment.
func (s *Service) Spend(ctx context.Context, amount core.Money, counterparty string, date core.Date, ordinal int) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return err
	}
	entry, err := snap.byOrdinal(ordinal)
	if err != nil {
		return err
	}
	if amount.GreaterThan(snap.total()) {
		return fmt.Errorf("payment %s exceeds budgeted total %s: %w",
			amount, snap.total(), core.ErrInsufficientFunds)
	}
	name := entry.cat.Name
	if err := snap.debit(entry.cat.ID, amount); err != nil {
		return err
	}
	tx := Transaction{Amount: amount.Neg(), Counterparty: counterparty, Date: date, Category: name}
	if err := snap.appendTransaction(tx); err != nil {
		return err
	}
	if err := s.apply(ctx, snap); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Payment recorded",
		"amount", amount.String(),
		"counterparty", counterparty,
		"category", name)
	return nil
}

// Transfer moves money between two categories. No ledger row is written:
// nothing enters or leaves the closed system.
func (s *Service) Transfer(ctx context.Context, from, to int, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if from == to {
		return core.ErrSameCategory
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return err
	}
	src, err := snap.byOrdinal(from)
	if err != nil {
		return err
	}
	dst, err := snap.byOrdinal(to)
	if err != nil {
		return err
	}
	if amount.GreaterThan(src.cat.Balance) {
		return fmt.Errorf("transfer %s exceeds %q balance %s: %w",
			amount, src.cat.Name, src.cat.Balance, core.ErrInsufficientFunds)
	}
	if err := snap.debit(src.cat.ID, amount); err != nil {
		return err
	}
	if err := snap.credit(dst.cat.ID, amount); err != nil {
		return err
	}
	if err := s.apply(ctx, snap); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transfer applied",
		"amount", amount.String(),
		"from", src.cat.Name,
		"to", dst.cat.Name)
	return nil
}

// AddCategory creates a new empty envelope. New envelopes start with nothing
// in them; money arrives later through delegation or transfers, which keeps
// the conservation invariant intact.
func (s *Service) AddCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return err
	}
	if err := snap.appendCategory(name, core.Money{}); err != nil {
		return err
	}
	if err := s.apply(ctx, snap); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Category added", "name", name)
	return nil
}

// DeleteCategory removes a category; if it still holds money, that balance
// must be fully redistributed over the remaining categories before anything
// is committed. An aborted redistribution therefore rolls the deletion back
// too, which is what keeps orphaned balances impossible.
func (s *Service) DeleteCategory(ctx context.Context, ordinal int, alloc Allocator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return err
	}
	removed, err := snap.removeCategory(ordinal)
	if err != nil {
		return err
	}
	if !removed.Balance.IsZero() {
		if removed.Balance.IsNegative() {
			return fmt.Errorf("category %q balance %s cannot be redistributed: %w",
				removed.Name, removed.Balance, core.ErrConsistency)
		}
		if snap.count() == 0 {
			return fmt.Errorf("no categories left to absorb %s from %q: %w",
				removed.Balance, removed.Name, core.ErrOutOfRange)
		}
		if err := newDelegation(snap, removed.Balance).run(ctx, alloc); err != nil {
			return fmt.Errorf("redistribute %q balance: %w", removed.Name, err)
		}
	}
	if err := s.apply(ctx, snap); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Category deleted",
		"name", removed.Name,
		"redistributed", removed.Balance.String())
	return nil
}

// ReconcileResult describes what a reconciliation did.
type ReconcileResult struct {
	Reported core.Money
	Budgeted core.Money // total before reconciling
	Surplus  core.Money // positive: delegated; negative: withdrawn; zero: no-op
}

// Reconcile compares an externally reported bank balance with the budgeted
// total. A surplus is delegated into categories, a deficit is withdrawn from
// them. Neither path writes a ledger row: reconciliation corrects stated
// balances, it does not record money movement.
func (s *Service) Reconcile(ctx context.Context, reported core.Money, surplus Allocator, deficit Allocator) (ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := loadSnapshot(ctx, s.store)
	if err != nil {
		return ReconcileResult{}, err
	}
	total := snap.total()
	res := ReconcileResult{Reported: reported, Budgeted: total, Surplus: reported.Sub(total)}

	switch {
	case res.Surplus.IsZero():
		slog.InfoContext(ctx, "Reconciliation: balances already match", "total", total.String())
		return res, nil
	case res.Surplus.IsPositive():
		if err := newDelegation(snap, res.Surplus).run(ctx, surplus); err != nil {
			return ReconcileResult{}, fmt.Errorf("delegate surplus: %w", err)
		}
	default:
		if err := newWithdrawal(snap, res.Surplus.Neg()).run(ctx, deficit); err != nil {
			return ReconcileResult{}, fmt.Errorf("withdraw deficit: %w", err)
		}
	}
	if err := s.apply(ctx, snap); err != nil {
		return ReconcileResult{}, err
	}
	slog.InfoContext(ctx, "Reconciliation applied",
		"reported", reported.String(),
		"was_budgeted", total.String(),
		"surplus", res.Surplus.String())
	return res, nil
}

// Recent returns the last n ledger entries, most recent first.
func (s *Service) Recent(ctx context.Context, n int) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Recent(ctx, n)
}

// TransactionCount returns the number of ledger entries.
func (s *Service) TransactionCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Count(ctx)
}

// apply commits the snapshot and fires change notifications.
func (s *Service) apply(ctx context.Context, snap *snapshot) error {
	catsChanged, txsChanged := snap.changed()
	if err := snap.commit(ctx); err != nil {
		return err
	}
	if s.notifier != nil {
		if catsChanged {
			s.notifier.TableChanged(ctx, tables.Categories)
		}
		if txsChanged {
			s.notifier.TableChanged(ctx, tables.Transactions)
		}
	}
	return nil
}
