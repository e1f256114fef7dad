package migrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"table-migrator/internal/dbconn"
	"table-migrator/internal/ddl"
	"table-migrator/internal/schema"
)

// Action is what reconciliation does to the target table before rows are copied.
type Action int

const (
	ActionCreate Action = iota
	ActionRecreate
	ActionAppend
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionRecreate:
		return "drop and recreate"
	case ActionAppend:
		return "append"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Plan is a reconciliation decision and the DDL that carries it out, in
// execution order.
type Plan struct {
	SourceTable  string
	TargetTable  string
	Action       Action
	Statements   []string
	SourceSchema schema.TableSchema
}

type Reconciler struct {
	source, target dbconn.Conn
	introspector   *schema.Introspector
	logger         *zap.Logger
}

func NewReconciler(source, target dbconn.Conn, in *schema.Introspector, logger *zap.Logger) *Reconciler {
	return &Reconciler{source: source, target: target, introspector: in, logger: logger.Named("reconcile")}
}

// SchemasMatch reports structural equality of two non-empty schemas.
func SchemasMatch(source, target schema.TableSchema) bool {
	return len(source) > 0 && source.Equal(target)
}

// Plan decides how the target table is prepared. It reads metadata only.
func (r *Reconciler) Plan(ctx context.Context, sourceTable, targetTable string, behavior ExistingTableBehavior) (*Plan, error) {
	if !r.introspector.TableExists(ctx, r.source, sourceTable) {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, sourceTable)
	}
	src := r.introspector.GetSchema(ctx, r.source, sourceTable)

	plan := &Plan{SourceTable: sourceTable, TargetTable: targetTable, SourceSchema: src}

	if !r.introspector.TableExists(ctx, r.target, targetTable) {
		create, err := ddl.CreateTable(src, targetTable)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDDL, err)
		}
		plan.Action = ActionCreate
		plan.Statements = []string{create}
		return plan, nil
	}

	switch behavior {
	case DropAndRecreate:
		create, err := ddl.CreateTable(src, targetTable)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDDL, err)
		}
		plan.Action = ActionRecreate
		plan.Statements = []string{ddl.DropTable(targetTable), create}
		return plan, nil

	case AppendIfCompatible:
		tgt := r.introspector.GetSchema(ctx, r.target, targetTable)
		if !SchemasMatch(src, tgt) {
			return nil, fmt.Errorf("cannot append to %s: %w", targetTable, ErrIncompatibleSchema)
		}
		plan.Action = ActionAppend
		return plan, nil

	default:
		return nil, fmt.Errorf("table %s: %w %q", targetTable, ErrInvalidBehavior, behavior)
	}
}

// Apply executes the plan's statements in order and stops at the first failure.
func (r *Reconciler) Apply(ctx context.Context, plan *Plan) error {
	for _, stmt := range plan.Statements {
		r.logger.Debug("executing ddl", zap.String("table", plan.TargetTable), zap.String("sql", stmt))
		if err := r.target.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w on %s (%s): %w", ErrDDL, plan.TargetTable, plan.Action, err)
		}
	}
	r.logger.Info("target table ready", zap.String("table", plan.TargetTable), zap.Stringer("action", plan.Action))
	return nil
}
