package amqp

import (
	"encoding/json"
	"time"

	"budgetapp/internal/tables"
)

// TableSyncMessage asks the sync worker to mirror one budget table into the
// spreadsheet. It deliberately carries no row data: the worker re-reads the
// whole table from the local store, so a lost or reordered message can never
// leave the mirror with stale cells.
type TableSyncMessage struct {
	Table     tables.Table `json:"table"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewTableSyncMessage creates a sync message for one table.
func NewTableSyncMessage(table tables.Table) *TableSyncMessage {
	return &TableSyncMessage{
		Table:     table,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *TableSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TableSyncMessageFromJSON creates a message from JSON bytes.
func TableSyncMessageFromJSON(data []byte) (*TableSyncMessage, error) {
	var msg TableSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
