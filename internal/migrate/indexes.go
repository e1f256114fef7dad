package migrate

import (
	"context"

	"go.uber.org/zap"

	"table-migrator/internal/dbconn"
	"table-migrator/internal/ddl"
	"table-migrator/internal/schema"
)

// IndexLister is the optional capability of listing a source table's indexes.
type IndexLister interface {
	GetIndexes(ctx context.Context, table string) []schema.IndexDefinition
}

// IndexReport lists source index names by result.
type IndexReport struct {
	Attempted []string
	Succeeded []string
	Failed    []string
}

func (r IndexReport) AllSucceeded() bool { return len(r.Failed) == 0 }

// IndexReplicator recreates source indexes on the target table one by one.
// A failed index is recorded and the rest are still attempted.
type IndexReplicator struct {
	lister IndexLister
	target dbconn.Conn
	limit  int
	logger *zap.Logger
}

func NewIndexReplicator(lister IndexLister, target dbconn.Conn, logger *zap.Logger) *IndexReplicator {
	limit := target.Dialect().IdentifierLimit()
	if limit <= 0 {
		limit = ddl.DefaultIdentifierLimit
	}
	return &IndexReplicator{lister: lister, target: target, limit: limit, logger: logger.Named("indexes")}
}

func (r *IndexReplicator) Replicate(ctx context.Context, sourceTable, targetTable string) IndexReport {
	var report IndexReport

	indexes := r.lister.GetIndexes(ctx, sourceTable)
	if len(indexes) == 0 {
		r.logger.Info("no indexes found", zap.String("table", sourceTable))
		return report
	}

	for _, idx := range indexes {
		report.Attempted = append(report.Attempted, idx.Name)

		stmt, err := ddl.CreateIndex(idx, targetTable, r.limit)
		if err != nil {
			r.logger.Error("generating index ddl", zap.String("index", idx.Name), zap.Error(err))
			report.Failed = append(report.Failed, idx.Name)
			continue
		}
		if err := r.target.Exec(ctx, stmt); err != nil {
			r.logger.Error("creating index", zap.String("index", idx.Name), zap.String("sql", stmt), zap.Error(err))
			report.Failed = append(report.Failed, idx.Name)
			continue
		}
		r.logger.Info("index created", zap.String("index", idx.Name), zap.String("table", targetTable))
		report.Succeeded = append(report.Succeeded, idx.Name)
	}
	return report
}
