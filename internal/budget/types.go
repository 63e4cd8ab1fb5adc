// Package budget implements the envelope ledger: named categories holding
// portions of the user's money, an append-only transaction log, and the
// interactive engines that keep the two consistent.
//
// The conservation invariant is the contract of this package: at every
// quiescent point the sum of category balances equals the sum of ledger
// amounts. Every operation runs against an in-memory snapshot of the row
// store and is applied in a single commit, so an aborted operation leaves the
// persisted state untouched.
package budget

import (
	"budgetapp/internal/core"
)

// IncomeTag is the category tag recorded on ledger rows for money entering
// the budget before it has been delegated to categories.
const IncomeTag = "Income"

// Category is a named envelope holding part of the budgeted money. ID is an
// opaque handle valid within one snapshot. The 1-based ordinal shown to the
// user is the category's position in the listing, recomputed at every
// interaction boundary rather than stored.
type Category struct {
	ID      string
	Name    string
	Balance core.Money
}

// Transaction is one immutable ledger row. Positive amounts are income,
// negative amounts are payments.
type Transaction struct {
	Amount       core.Money
	Counterparty string
	Date         core.Date
	Category     string // category name at time of writing, or IncomeTag
}

// Overview is the budget summary rendered before every selection prompt.
type Overview struct {
	Categories []Category
	Total      core.Money
}
