// Package worker mirrors the local budget tables into the Google Sheets
// copy of the budget. The local store is authoritative; the worker rewrites
// a whole worksheet from it whenever a commit touches the matching table.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgetapp/internal/amqp"
	"budgetapp/internal/tables"
)

// SyncWorker copies tables from the local row store to the spreadsheet store.
type SyncWorker struct {
	local  tables.RowStore
	mirror tables.RowStore
}

func NewSyncWorker(local, mirror tables.RowStore) *SyncWorker {
	return &SyncWorker{
		local:  local,
		mirror: mirror,
	}
}

// HandleSyncMessage processes a single table sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TableSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "table", msg.Table)
	return w.MirrorTable(ctx, msg.Table)
}

// MirrorTable rewrites one spreadsheet table from the local store: it clears
// the destination rows and appends every source row in order. The message
// carries no row data, so mirroring is idempotent and a replayed or reordered
// delivery converges on the same result.
func (w *SyncWorker) MirrorTable(ctx context.Context, table tables.Table) error {
	width, err := tables.Width(table)
	if err != nil {
		return err
	}

	srcCount, err := w.local.RowCount(ctx, table)
	if err != nil {
		return fmt.Errorf("count local %s rows: %w", table, err)
	}
	rows := make([][]string, 0, srcCount)
	for r := 1; r <= srcCount; r++ {
		cells, err := w.local.ReadRow(ctx, table, r)
		if err != nil {
			return fmt.Errorf("read local %s row %d: %w", table, r, err)
		}
		if len(cells) != width {
			return fmt.Errorf("local %s row %d has %d cells, want %d", table, r, len(cells), width)
		}
		rows = append(rows, cells)
	}

	dstCount, err := w.mirror.RowCount(ctx, table)
	if err != nil {
		return fmt.Errorf("count mirror %s rows: %w", table, err)
	}
	// Delete bottom-up so earlier deletions do not shift the rows still to go.
	for r := dstCount; r >= 1; r-- {
		if err := w.mirror.DeleteRow(ctx, table, r); err != nil {
			return fmt.Errorf("clear mirror %s row %d: %w", table, r, err)
		}
	}

	for i, cells := range rows {
		if err := w.mirror.AppendRow(ctx, table, cells); err != nil {
			return fmt.Errorf("append mirror %s row %d: %w", table, i+1, err)
		}
	}

	slog.InfoContext(ctx, "Mirrored table", "table", table, "rows", len(rows))
	return nil
}

// StartupSync mirrors every table once at worker startup. This recovers from
// messages missed while the worker was down.
func (w *SyncWorker) StartupSync(ctx context.Context) error {
	for _, table := range []tables.Table{tables.Categories, tables.Transactions} {
		if err := w.MirrorTable(ctx, table); err != nil {
			return fmt.Errorf("startup sync %s: %w", table, err)
		}
	}
	slog.InfoContext(ctx, "Startup sync completed")
	return nil
}
