// Package seed fills tables with generated rows and empties them again, for
// rehearsing migrations against disposable data.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"table-migrator/internal/dbconn"
	"table-migrator/internal/migrate"
	"table-migrator/internal/schema"
)

const DefaultBatchSize = 500

var ErrNoColumns = errors.New("table has no columns")

// Result reports one seeded table. Actual is verified by recounting.
type Result struct {
	TableName string
	Target    int
	Actual    int64
	Status    string
	Err       error
}

func (r Result) OK() bool { return r.Status == StatusOK }

const (
	StatusOK      = "OK"
	StatusMissing = "MISSING DATA"
	StatusFailed  = "FAILED"
)

type Seeder struct {
	conn         dbconn.Conn
	introspector *schema.Introspector
	counter      *migrate.Copier
	gen          *Generator
	batchSize    int
	progress     migrate.Progress
	logger       *zap.Logger
}

func NewSeeder(conn dbconn.Conn, gen *Generator, batchSize int, progress migrate.Progress, logger *zap.Logger) *Seeder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if progress == nil {
		progress = migrate.NopProgress{}
	}
	return &Seeder{
		conn:         conn,
		introspector: schema.NewIntrospector(logger),
		counter:      migrate.NewCopier(conn, conn, nil, logger),
		gen:          gen,
		batchSize:    batchSize,
		progress:     progress,
		logger:       logger.Named("seed"),
	}
}

// Seed inserts count generated rows into table, one committed batch at a time.
func (s *Seeder) Seed(ctx context.Context, table string, count int) Result {
	res := Result{TableName: table, Target: count, Status: StatusFailed}

	cols := s.introspector.GetSchema(ctx, s.conn, table)
	if len(cols) == 0 {
		res.Err = fmt.Errorf("seeding %s: %w", table, ErrNoColumns)
		return res
	}

	before, err := s.counter.RowCount(ctx, table, "")
	if err != nil {
		res.Err = err
		return res
	}

	stmt := s.conn.Dialect().InsertQuery(table, cols.Names())
	tracker := s.progress.Start(table, int64(count))
	defer tracker.Done()

	for done := 0; done < count; {
		n := min(s.batchSize, count-done)
		rows := make([]dbconn.Row, n)
		for i := range rows {
			rows[i] = s.gen.Row(cols, before+int64(done+i)+1)
		}
		if err := s.conn.InsertBatch(ctx, stmt, rows); err != nil {
			res.Err = fmt.Errorf("seeding %s after %d rows: %w", table, done, err)
			s.logger.Error("seed batch failed", zap.String("table", table), zap.Error(err))
			break
		}
		done += n
		tracker.Add(n)
	}

	after, err := s.counter.RowCount(ctx, table, "")
	if err != nil {
		if res.Err == nil {
			res.Err = err
		}
		return res
	}
	res.Actual = after - before

	switch {
	case res.Err != nil:
		res.Status = StatusFailed
	case res.Actual < int64(count):
		res.Status = StatusMissing
	default:
		res.Status = StatusOK
	}
	s.logger.Info("table seeded", zap.String("table", table), zap.Int64("rows", res.Actual), zap.String("status", res.Status))
	return res
}
