package backend

import (
	"context"

	"budgetapp/internal/tables"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the row store instance and optional cleanup function
type Result struct {
	Store   tables.RowStore
	Cleanup CleanupFunc
}

// Factory creates row stores based on configuration
type Factory interface {
	// CreateStore creates a row store instance based on the provided config
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	DatabaseURL string
}

// Type represents the type of backend
type Type string

const (
	MemoryBackend   Type = "memory"
	SQLiteBackend   Type = "sqlite"
	SheetsBackend   Type = "sheets"
	PostgresBackend Type = "postgres"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend, SheetsBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
