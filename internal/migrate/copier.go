package migrate

import (
	"context"
	"fmt"
	"iter"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"table-migrator/internal/dbconn"
	"table-migrator/internal/schema"
)

// Progress starts one tracker per copied table.
type Progress interface {
	Start(table string, total int64) Tracker
}

// Tracker receives the size of every committed batch.
type Tracker interface {
	Add(n int)
	Done()
}

// NopProgress discards progress updates.
type NopProgress struct{}

func (NopProgress) Start(string, int64) Tracker { return nopTracker{} }

type nopTracker struct{}

func (nopTracker) Add(int) {}
func (nopTracker) Done()   {}

type CopyRequest struct {
	SourceTable string
	TargetTable string
	// CustomQuery replaces "SELECT * FROM SourceTable" when set.
	CustomQuery  string
	ChunkSize    int
	SourceSchema schema.TableSchema
	// TargetColumns is the INSERT column list, in target physical order.
	TargetColumns []string
}

type Copier struct {
	source, target dbconn.Conn
	progress       Progress
	logger         *zap.Logger
}

func NewCopier(source, target dbconn.Conn, progress Progress, logger *zap.Logger) *Copier {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Copier{source: source, target: target, progress: progress, logger: logger.Named("copy")}
}

func selectQuery(table, customQuery string) string {
	if customQuery != "" {
		return customQuery
	}
	return "SELECT * FROM " + table
}

// RowCount counts the rows the copy will read. Unlike metadata lookups a
// failure here is returned, since a zero total must mean an empty source.
func (c *Copier) RowCount(ctx context.Context, table, customQuery string) (int64, error) {
	q := c.source.Dialect().CountQuery(selectQuery(table, customQuery))
	rows, err := c.source.Query(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %w", ErrRowCount, table, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, fmt.Errorf("%w for %s: no result row", ErrRowCount, table)
	}
	v := rows[0][0]
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %w", ErrRowCount, table, err)
	}
	return n, nil
}

// Chunks streams query results in batches of size rows over one cursor. The
// cursor is closed when the sequence ends, fails or the caller stops early.
func (c *Copier) Chunks(ctx context.Context, query string, size int) iter.Seq2[[]dbconn.Row, error] {
	return func(yield func([]dbconn.Row, error) bool) {
		cur, err := c.source.OpenCursor(ctx, query)
		if err != nil {
			yield(nil, fmt.Errorf("opening cursor: %w", err))
			return
		}
		defer func() {
			if err := cur.Close(); err != nil {
				c.logger.Warn("closing cursor", zap.Error(err))
			}
		}()
		cur.SetFetchSize(size)

		for {
			batch, err := cur.Fetch(ctx)
			if err != nil {
				yield(nil, fmt.Errorf("fetching rows: %w", err))
				return
			}
			if len(batch) == 0 {
				return
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}

// CoerceValue converts v for binding into a column of type t. Character
// columns receive strings; everything else passes through.
func CoerceValue(v any, t schema.DataType) any {
	if v == nil || !t.IsCharacter() {
		return v
	}
	if _, ok := v.(string); ok {
		return v
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// CoerceRow coerces row positionally against s. Columns past the end of s
// are left alone.
func CoerceRow(row dbconn.Row, s schema.TableSchema) dbconn.Row {
	out := make(dbconn.Row, len(row))
	for i, v := range row {
		if i < len(s) {
			out[i] = CoerceValue(v, s[i].Type)
		} else {
			out[i] = v
		}
	}
	return out
}

// Copy moves every row of the request's source query into the target table,
// committing once per batch. On an insert failure the failing batch is rolled
// back and earlier batches stay committed.
func (c *Copier) Copy(ctx context.Context, req CopyRequest) (int64, error) {
	if len(req.TargetColumns) != len(req.SourceSchema) {
		return 0, fmt.Errorf("%w: %s has %d columns, %s has %d",
			ErrColumnMismatch, req.SourceTable, len(req.SourceSchema), req.TargetTable, len(req.TargetColumns))
	}

	total, err := c.RowCount(ctx, req.SourceTable, req.CustomQuery)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		c.logger.Warn("no data found", zap.String("table", req.SourceTable))
		return 0, nil
	}

	size := req.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	stmt := c.target.Dialect().InsertQuery(req.TargetTable, req.TargetColumns)
	c.logger.Info("copying rows",
		zap.String("table", req.TargetTable), zap.Int64("rows", total), zap.Int("chunk_size", size))

	tracker := c.progress.Start(req.TargetTable, total)
	defer tracker.Done()

	var copied int64
	for batch, err := range c.Chunks(ctx, selectQuery(req.SourceTable, req.CustomQuery), size) {
		if err != nil {
			return copied, fmt.Errorf("reading %s: %w", req.SourceTable, err)
		}

		rows := make([]dbconn.Row, len(batch))
		for i, r := range batch {
			rows[i] = CoerceRow(r, req.SourceSchema)
		}
		if err := c.target.InsertBatch(ctx, stmt, rows); err != nil {
			return copied, fmt.Errorf("%w into %s after %d rows: %w", ErrInsert, req.TargetTable, copied, err)
		}

		copied += int64(len(batch))
		tracker.Add(len(batch))
	}

	c.logger.Info("copy complete", zap.String("table", req.TargetTable), zap.Int64("rows", copied))
	return copied, nil
}
