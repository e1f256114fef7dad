// Package migrate copies tables between two database connections: it
// reconciles the target schema, streams rows in committed batches and
// optionally recreates the source indexes.
package migrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"table-migrator/internal/dbconn"
	"table-migrator/internal/schema"
)

type Options struct {
	DefaultChunkSize int
	MigrateIndexes   bool
	// DryRun stops after planning; nothing is executed on the target.
	DryRun bool
}

type MigrationOutcome struct {
	TableName        string
	RowsCopied       int64
	Created          bool
	Appended         bool
	IndexesAttempted int
	IndexesSucceeded int
	Success          bool
	Err              error
	// Plan is set once reconciliation has decided, including in dry runs.
	Plan *Plan
}

type Summary struct {
	SuccessCount int
	FailureCount int
	Outcomes     []MigrationOutcome
}

func (s *Summary) add(o MigrationOutcome) {
	if o.Success {
		s.SuccessCount++
	} else {
		s.FailureCount++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Failed reports whether any table failed; the process exit code follows it.
func (s Summary) Failed() bool { return s.FailureCount > 0 }

type Migrator struct {
	source, target dbconn.Conn
	opts           Options

	introspector *schema.Introspector
	reconciler   *Reconciler
	copier       *Copier
	indexes      *IndexReplicator
	logger       *zap.Logger
}

// New wires the engine. lister may be nil, in which case index replication is
// skipped even when enabled.
func New(source, target dbconn.Conn, lister IndexLister, progress Progress, opts Options, logger *zap.Logger) *Migrator {
	in := schema.NewIntrospector(logger)
	m := &Migrator{
		source:       source,
		target:       target,
		opts:         opts,
		introspector: in,
		reconciler:   NewReconciler(source, target, in, logger),
		copier:       NewCopier(source, target, progress, logger),
		logger:       logger.Named("migrate"),
	}
	if lister != nil {
		m.indexes = NewIndexReplicator(lister, target, logger)
	}
	return m
}

// MigrateTable runs one table end to end. It never panics; every failure is
// reported through the outcome.
func (m *Migrator) MigrateTable(ctx context.Context, cfg TableConfig) (out MigrationOutcome) {
	cfg = cfg.withDefaults()
	out.TableName = cfg.Name

	defer func() {
		if r := recover(); r != nil {
			out.Success = false
			out.Err = fmt.Errorf("panic while migrating %s: %v", cfg.Name, r)
			m.logger.Error("table migration panicked", zap.String("table", cfg.Name), zap.Any("panic", r))
		}
	}()

	m.logger.Info("starting table",
		zap.String("table", cfg.Name),
		zap.String("mode", string(cfg.Mode)),
		zap.String("behavior", string(cfg.ExistingTableBehavior)))

	if err := m.migrate(ctx, cfg, &out); err != nil {
		out.Err = err
		m.logger.Error("table migration failed", zap.String("table", cfg.Name), zap.Error(err))
		return out
	}
	out.Success = true
	return out
}

func (m *Migrator) migrate(ctx context.Context, cfg TableConfig, out *MigrationOutcome) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	plan, err := m.reconciler.Plan(ctx, cfg.Name, cfg.TargetName, cfg.ExistingTableBehavior)
	if err != nil {
		return err
	}
	out.Plan = plan

	if m.opts.DryRun {
		m.logger.Info("dry run", zap.String("table", cfg.TargetName), zap.Stringer("action", plan.Action),
			zap.Strings("statements", plan.Statements))
		return nil
	}

	if err := m.reconciler.Apply(ctx, plan); err != nil {
		return err
	}
	out.Created = plan.Action != ActionAppend
	out.Appended = plan.Action == ActionAppend

	target := m.introspector.GetSchema(ctx, m.target, cfg.TargetName)
	n, err := m.copier.Copy(ctx, CopyRequest{
		SourceTable:   cfg.Name,
		TargetTable:   cfg.TargetName,
		CustomQuery:   cfg.customQuery(),
		ChunkSize:     cfg.chunkSize(m.opts.DefaultChunkSize),
		SourceSchema:  plan.SourceSchema,
		TargetColumns: target.Names(),
	})
	out.RowsCopied = n
	if err != nil {
		return err
	}

	if m.opts.MigrateIndexes {
		if m.indexes == nil {
			m.logger.Warn("index replication requested but no index source is available", zap.String("table", cfg.Name))
			return nil
		}
		report := m.indexes.Replicate(ctx, cfg.Name, cfg.TargetName)
		out.IndexesAttempted = len(report.Attempted)
		out.IndexesSucceeded = len(report.Succeeded)
		if !report.AllSucceeded() {
			m.logger.Warn("index migration incomplete, data was migrated",
				zap.String("table", cfg.TargetName), zap.Strings("failed", report.Failed))
		}
	}
	return nil
}

// Run migrates tables in order. Once ctx is cancelled the remaining tables
// are recorded as failed without being touched.
func (m *Migrator) Run(ctx context.Context, tables []TableConfig) Summary {
	var summary Summary
	for _, cfg := range tables {
		if err := ctx.Err(); err != nil {
			summary.add(MigrationOutcome{TableName: cfg.Name, Err: fmt.Errorf("run stopped: %w", err)})
			continue
		}
		summary.add(m.MigrateTable(ctx, cfg))
	}

	m.logger.Info("migration finished",
		zap.Int("succeeded", summary.SuccessCount), zap.Int("failed", summary.FailureCount))
	return summary
}
