package dbconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"table-migrator/internal/dialect"
)

// DefaultFetchSize is used by cursors until SetFetchSize is called.
const DefaultFetchSize = 1000

var ErrNotConnected = errors.New("not connected")

// Config describes one side of the migration.
type Config struct {
	Name   string // "source" or "target", used in logs and errors
	DSN    string
	Schema string // optional session schema
}

// SQLConn implements Conn on top of database/sql.
type SQLConn struct {
	cfg     Config
	dialect dialect.Dialect
	db      *sql.DB
	logger  *zap.Logger
}

// New creates an unopened connection; call Connect before use.
func New(cfg Config, d dialect.Dialect, logger *zap.Logger) *SQLConn {
	return &SQLConn{cfg: cfg, dialect: d, logger: logger.Named(cfg.Name)}
}

// NewFromDB wraps an already opened *sql.DB. Connect still pings it and runs
// the session setup.
func NewFromDB(db *sql.DB, cfg Config, d dialect.Dialect, logger *zap.Logger) *SQLConn {
	c := New(cfg, d, logger)
	c.db = db
	return c
}

func (c *SQLConn) Dialect() dialect.Dialect { return c.dialect }

func (c *SQLConn) Connect(ctx context.Context) error {
	c.logger.Info("Connecting to database", zap.String("driver", c.dialect.DriverName()))

	if c.db == nil {
		db, err := sql.Open(c.dialect.DriverName(), c.cfg.DSN)
		if err != nil {
			return fmt.Errorf("opening %s connection: %w", c.cfg.Name, err)
		}
		c.db = db
	}
	// One physical connection: session settings stick and operations never overlap.
	c.db.SetMaxOpenConns(1)

	if err := c.db.PingContext(ctx); err != nil {
		c.db.Close()
		c.db = nil
		return fmt.Errorf("pinging %s: %w", c.cfg.Name, err)
	}

	for _, q := range c.dialect.SessionQueries(c.cfg.Schema) {
		if _, err := c.db.ExecContext(ctx, q); err != nil {
			c.db.Close()
			c.db = nil
			return fmt.Errorf("setting up %s session: %w", c.cfg.Name, err)
		}
		c.logger.Info("Session schema set", zap.String("schema", c.cfg.Schema))
	}

	c.logger.Info("Connected successfully")
	return nil
}

func (c *SQLConn) Disconnect() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return fmt.Errorf("closing %s connection: %w", c.cfg.Name, err)
	}
	c.logger.Info("Disconnected from database")
	return nil
}

func (c *SQLConn) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("getting columns: %w", err)
	}

	var results []Row
	for rows.Next() {
		row, err := scanRow(rows, len(cols))
		if err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return results, nil
}

func (c *SQLConn) Exec(ctx context.Context, stmt string, args ...any) error {
	if c.db == nil {
		return ErrNotConnected
	}
	if _, err := c.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}
	return nil
}

func (c *SQLConn) InsertBatch(ctx context.Context, stmt string, rows []Row) (err error) {
	if c.db == nil {
		return ErrNotConnected
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				c.logger.Error("Rollback failed", zap.Error(rbErr))
			}
		}
	}()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer prepared.Close()

	for i, row := range rows {
		if _, err = prepared.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("inserting row %d of batch: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

func (c *SQLConn) OpenCursor(ctx context.Context, query string) (Cursor, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("opening cursor: %w", err)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("getting columns: %w", err)
	}
	return &sqlCursor{rows: rows, width: len(cols), fetchSize: DefaultFetchSize}, nil
}

type sqlCursor struct {
	rows      *sql.Rows
	width     int
	fetchSize int
}

func (c *sqlCursor) SetFetchSize(n int) {
	if n > 0 {
		c.fetchSize = n
	}
}

func (c *sqlCursor) Fetch(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	batch := make([]Row, 0, c.fetchSize)
	for len(batch) < c.fetchSize && c.rows.Next() {
		row, err := scanRow(c.rows, c.width)
		if err != nil {
			return nil, err
		}
		batch = append(batch, row)
	}
	if len(batch) < c.fetchSize {
		if err := c.rows.Err(); err != nil {
			return nil, fmt.Errorf("fetching rows: %w", err)
		}
	}
	return batch, nil
}

func (c *sqlCursor) Close() error {
	return c.rows.Close()
}

func scanRow(rows *sql.Rows, width int) (Row, error) {
	vals := make(Row, width)
	ptrs := make([]any, width)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}
	return vals, nil
}
