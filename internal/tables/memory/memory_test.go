package memory

import (
	"context"
	"errors"
	"testing"

	"budgetapp/internal/tables"
)

func TestAppendAndRead(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.AppendRow(ctx, tables.Categories, []string{"Rent", "100.00"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendRow(ctx, tables.Categories, []string{"Food", "20.00"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	n, err := s.RowCount(ctx, tables.Categories)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 rows, got %d (err=%v)", n, err)
	}

	row, err := s.ReadRow(ctx, tables.Categories, 1)
	if err != nil {
		t.Fatalf("read row: %v", err)
	}
	if row[0] != "Rent" || row[1] != "100.00" {
		t.Fatalf("unexpected row: %v", row)
	}

	names, err := s.ListColumn(ctx, tables.Categories, tables.CategoryColName)
	if err != nil {
		t.Fatalf("list column: %v", err)
	}
	if len(names) != 2 || names[0] != "Rent" || names[1] != "Food" {
		t.Fatalf("unexpected column: %v", names)
	}
}

func TestWriteCell(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Seed(tables.Categories, [][]string{{"Rent", "100.00"}})

	if err := s.WriteCell(ctx, tables.Categories, 1, tables.CategoryColBalance, "60.00"); err != nil {
		t.Fatalf("write cell: %v", err)
	}
	row, err := s.ReadRow(ctx, tables.Categories, 1)
	if err != nil || row[1] != "60.00" {
		t.Fatalf("expected 60.00, got %v (err=%v)", row, err)
	}

	if err := s.WriteCell(ctx, tables.Categories, 5, 1, "x"); !errors.Is(err, tables.ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
}

func TestDeleteRowShiftsRows(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Seed(tables.Categories, [][]string{
		{"Rent", "100.00"},
		{"Food", "20.00"},
		{"Fun", "5.00"},
	})

	if err := s.DeleteRow(ctx, tables.Categories, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	names, err := s.ListColumn(ctx, tables.Categories, tables.CategoryColName)
	if err != nil {
		t.Fatalf("list column: %v", err)
	}
	if len(names) != 2 || names[0] != "Rent" || names[1] != "Fun" {
		t.Fatalf("rows did not shift: %v", names)
	}
}

func TestUnknownTable(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.RowCount(ctx, tables.Table("nope")); !errors.Is(err, tables.ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
}
