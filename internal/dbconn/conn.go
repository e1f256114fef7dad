// Package dbconn provides the database capability the migration engine runs
// against: statement execution, batched inserts and forward-only cursors.
package dbconn

import (
	"context"

	"table-migrator/internal/dialect"
)

// Row is one result tuple in select-list order.
type Row []any

// Conn is a single long-lived database handle. It is not safe for concurrent
// use by more than one in-flight operation.
type Conn interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Dialect() dialect.Dialect

	// Query runs a statement and returns every row.
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
	// Exec runs a statement in its own transaction (autocommit).
	Exec(ctx context.Context, stmt string, args ...any) error
	// InsertBatch executes stmt once per row inside one transaction and commits.
	// On any error the transaction is rolled back and nothing from the batch persists.
	InsertBatch(ctx context.Context, stmt string, rows []Row) error
	// OpenCursor starts a forward-only scan. The caller must Close it.
	OpenCursor(ctx context.Context, query string) (Cursor, error)
}

// Cursor is a forward-only result set read in batches.
type Cursor interface {
	SetFetchSize(n int)
	// Fetch returns up to the fetch size rows; an empty batch means the scan is done.
	Fetch(ctx context.Context) ([]Row, error)
	Close() error
}
