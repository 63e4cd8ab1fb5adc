package budget

import (
	"context"
	"fmt"
	"sort"

	"budgetapp/internal/core"
	"budgetapp/internal/ids"
	"budgetapp/internal/tables"
)

// catEntry is a category inside a snapshot, remembering which store row it
// was loaded from so the commit can address it. loadRow is 0 for categories
// appended during the current operation.
type catEntry struct {
	cat     Category
	loadRow int
	dirty   bool
}

// snapshot is the staged working state of one operation. All reads and
// mutations happen here; nothing touches the row store until commit. A
// snapshot that is never committed has no effect.
type snapshot struct {
	store tables.RowStore

	live    []*catEntry // visible categories, ordinal order
	removed []*catEntry // loaded categories deleted during this operation
	newTxs  []Transaction
}

// loadSnapshot reads the category table into memory. The transaction table is
// not loaded: ledger writes are append-only and ledger reads go through
// Ledger directly.
func loadSnapshot(ctx context.Context, store tables.RowStore) (*snapshot, error) {
	names, err := store.ListColumn(ctx, tables.Categories, tables.CategoryColName)
	if err != nil {
		return nil, fmt.Errorf("list category names: %w", err)
	}
	balances, err := store.ListColumn(ctx, tables.Categories, tables.CategoryColBalance)
	if err != nil {
		return nil, fmt.Errorf("list category balances: %w", err)
	}
	if len(names) != len(balances) {
		return nil, fmt.Errorf("category table has %d names but %d balances: %w",
			len(names), len(balances), core.ErrConsistency)
	}

	snap := &snapshot{store: store}
	for i := range names {
		m, err := core.ParseCellMoney(balances[i])
		if err != nil {
			return nil, fmt.Errorf("category %q balance %q: %w", names[i], balances[i], err)
		}
		snap.live = append(snap.live, &catEntry{
			cat:     Category{ID: ids.New(), Name: names[i], Balance: m},
			loadRow: i + 1,
		})
	}
	return snap, nil
}

// categories returns a copy of the visible categories in ordinal order.
func (s *snapshot) categories() []Category {
	out := make([]Category, len(s.live))
	for i, e := range s.live {
		out[i] = e.cat
	}
	return out
}

// total sums all visible balances.
func (s *snapshot) total() core.Money {
	var sum core.Money
	for _, e := range s.live {
		sum = sum.Add(e.cat.Balance)
	}
	return sum
}

func (s *snapshot) count() int { return len(s.live) }

// byOrdinal resolves a 1-based selection.
func (s *snapshot) byOrdinal(n int) (*catEntry, error) {
	if n < 1 || n > len(s.live) {
		return nil, fmt.Errorf("category %d of %d: %w", n, len(s.live), core.ErrOutOfRange)
	}
	return s.live[n-1], nil
}

// byID resolves a category handle. Unlike ordinals, handles stay valid across
// removals within the snapshot; a handle of a removed category resolves to
// nothing and is rejected here.
func (s *snapshot) byID(id string) (*catEntry, error) {
	for _, e := range s.live {
		if e.cat.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("category handle %q: %w", id, core.ErrOutOfRange)
}

// credit adds amount (must be > 0) to the category with the given handle.
func (s *snapshot) credit(id string, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	e, err := s.byID(id)
	if err != nil {
		return err
	}
	e.cat.Balance = e.cat.Balance.Add(amount)
	e.dirty = true
	return nil
}

// debit subtracts amount (must be > 0) from the category with the given
// handle. No zero floor is enforced here; callers validate affordability
// before calling.
func (s *snapshot) debit(id string, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	e, err := s.byID(id)
	if err != nil {
		return err
	}
	e.cat.Balance = e.cat.Balance.Sub(amount)
	e.dirty = true
	return nil
}

// appendCategory creates a new envelope at the end of the ordering.
// Names are unique, case-sensitively.
func (s *snapshot) appendCategory(name string, starting core.Money) error {
	if name == "" {
		return core.ErrEmptyName
	}
	if starting.IsNegative() {
		return core.ErrInvalidAmount
	}
	for _, e := range s.live {
		if e.cat.Name == name {
			return fmt.Errorf("category %q: %w", name, core.ErrDuplicateName)
		}
	}
	s.live = append(s.live, &catEntry{
		cat: Category{ID: ids.New(), Name: name, Balance: starting},
	})
	return nil
}

// removeCategory deletes category n from the ordering and returns it.
// Ordinals of later categories shift down by one; any ordinal captured before
// this call is stale afterwards.
func (s *snapshot) removeCategory(n int) (Category, error) {
	e, err := s.byOrdinal(n)
	if err != nil {
		return Category{}, err
	}
	s.live = append(s.live[:n-1], s.live[n:]...)
	if e.loadRow > 0 {
		s.removed = append(s.removed, e)
	}
	return e.cat, nil
}

// appendTransaction stages one ledger row. Zero amounts are rejected: the
// ledger records money moving, not the absence of movement.
func (s *snapshot) appendTransaction(tx Transaction) error {
	if tx.Amount.IsZero() {
		return core.ErrZeroAmount
	}
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	s.newTxs = append(s.newTxs, tx)
	return nil
}

// changed reports which tables the commit will touch.
func (s *snapshot) changed() (categories, transactions bool) {
	for _, e := range s.live {
		if e.dirty || e.loadRow == 0 {
			categories = true
			break
		}
	}
	if len(s.removed) > 0 {
		categories = true
	}
	return categories, len(s.newTxs) > 0
}

// commit applies the staged state to the row store: balance updates first
// (load rows are still valid), then deletions bottom-up, then appended
// categories, then ledger rows. A failure after the first applied write is a
// consistency violation and is reported as such rather than swallowed.
func (s *snapshot) commit(ctx context.Context) error {
	applied := 0
	fail := func(err error) error {
		if applied > 0 {
			return fmt.Errorf("partial commit after %d writes: %v: %w", applied, err, core.ErrConsistency)
		}
		return err
	}

	for _, e := range s.live {
		if e.loadRow == 0 || !e.dirty {
			continue
		}
		err := s.store.WriteCell(ctx, tables.Categories, e.loadRow,
			tables.CategoryColBalance, e.cat.Balance.String())
		if err != nil {
			return fail(fmt.Errorf("update %q balance: %w", e.cat.Name, err))
		}
		applied++
	}

	// Delete highest rows first so earlier deletions do not shift the rest.
	toDelete := append([]*catEntry(nil), s.removed...)
	sort.Slice(toDelete, func(i, j int) bool { return toDelete[i].loadRow > toDelete[j].loadRow })
	for _, e := range toDelete {
		if err := s.store.DeleteRow(ctx, tables.Categories, e.loadRow); err != nil {
			return fail(fmt.Errorf("delete category %q: %w", e.cat.Name, err))
		}
		applied++
	}

	for _, e := range s.live {
		if e.loadRow > 0 {
			continue
		}
		row := []string{e.cat.Name, e.cat.Balance.String()}
		if err := s.store.AppendRow(ctx, tables.Categories, row); err != nil {
			return fail(fmt.Errorf("append category %q: %w", e.cat.Name, err))
		}
		applied++
	}

	for _, tx := range s.newTxs {
		row := []string{tx.Amount.String(), tx.Counterparty, tx.Date.String(), tx.Category}
		if err := s.store.AppendRow(ctx, tables.Transactions, row); err != nil {
			return fail(fmt.Errorf("append transaction: %w", err))
		}
		applied++
	}
	return nil
}
