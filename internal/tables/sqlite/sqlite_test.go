package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"budgetapp/internal/tables"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestListColumn(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT name FROM categories ORDER BY position").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Rent").AddRow("Food"))

	got, err := s.ListColumn(context.Background(), tables.Categories, tables.CategoryColName)
	if err != nil {
		t.Fatalf("ListColumn: %v", err)
	}
	if len(got) != 2 || got[0] != "Rent" || got[1] != "Food" {
		t.Fatalf("unexpected column: %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReadRow(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT amount, counterparty, tx_date, category FROM transactions WHERE position = ?")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"amount", "counterparty", "tx_date", "category"}).
			AddRow("-40.00", "Landlord", "02-08-26", "Rent"))

	got, err := s.ReadRow(context.Background(), tables.Transactions, 2)
	if err != nil {
		t.Fatalf("ReadRow: %v", err)
	}
	want := []string{"-40.00", "Landlord", "02-08-26", "Rent"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadRowNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, balance FROM categories WHERE position = ?")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"name", "balance"}))

	_, err := s.ReadRow(context.Background(), tables.Categories, 9)
	if !errors.Is(err, tables.ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
}

func TestWriteCell(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET balance = ? WHERE position = ?")).
		WithArgs("60.00", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.WriteCell(context.Background(), tables.Categories, 1, tables.CategoryColBalance, "60.00")
	if err != nil {
		t.Fatalf("WriteCell: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET balance = ? WHERE position = ?")).
		WithArgs("60.00", 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = s.WriteCell(context.Background(), tables.Categories, 7, tables.CategoryColBalance, "60.00")
	if !errors.Is(err, tables.ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
}

func TestAppendRow(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO categories (position, name, balance) SELECT COALESCE(MAX(position), 0) + 1, ?, ? FROM categories")).
		WithArgs("Fun", "0.00").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := s.AppendRow(context.Background(), tables.Categories, []string{"Fun", "0.00"}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}

	if err := s.AppendRow(context.Background(), tables.Categories, []string{"only-one-cell"}); !errors.Is(err, tables.ErrColNotFound) {
		t.Fatalf("expected ErrColNotFound for wrong width, got %v", err)
	}
}

func TestDeleteRowShiftsPositions(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories WHERE position = ?")).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET position = position - 1 WHERE position > ?")).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	if err := s.DeleteRow(context.Background(), tables.Categories, 2); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteRowNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories WHERE position = ?")).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.DeleteRow(context.Background(), tables.Categories, 9)
	if !errors.Is(err, tables.ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
}

func TestRowCount(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM transactions")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	n, err := s.RowCount(context.Background(), tables.Transactions)
	if err != nil || n != 5 {
		t.Fatalf("expected 5, got %d (err=%v)", n, err)
	}
}

func TestUnknownTable(t *testing.T) {
	s, _ := newMockStore(t)
	if _, err := s.RowCount(context.Background(), tables.Table("nope")); !errors.Is(err, tables.ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
}
