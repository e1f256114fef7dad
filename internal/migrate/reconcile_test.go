package migrate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/guregu/null.v4"

	"table-migrator/internal/dbconn/dbconntest"
	"table-migrator/internal/migrate"
	"table-migrator/internal/schema"
)

func newReconciler(t *testing.T, source, target *dbconntest.MemDB) *migrate.Reconciler {
	logger := zaptest.NewLogger(t)
	return migrate.NewReconciler(source, target, schema.NewIntrospector(logger), logger)
}

func TestPlan_DecisionTable(t *testing.T) {
	tests := []struct {
		name         string
		targetExists bool
		targetCols   func() []dbconntest.Column
		behavior     migrate.ExistingTableBehavior
		want         migrate.Action
		wantErr      error
		wantStmts    int
	}{
		{name: "missing target creates", behavior: migrate.AppendIfCompatible, want: migrate.ActionCreate, wantStmts: 1},
		{name: "drop and recreate", targetExists: true, behavior: migrate.DropAndRecreate, want: migrate.ActionRecreate, wantStmts: 2},
		{name: "compatible append", targetExists: true, behavior: migrate.AppendIfCompatible, want: migrate.ActionAppend},
		{
			name:         "incompatible append",
			targetExists: true,
			targetCols: func() []dbconntest.Column {
				cols := employeeColumns()
				return cols[:2]
			},
			behavior: migrate.AppendIfCompatible,
			wantErr:  migrate.ErrIncompatibleSchema,
		},
		{name: "unknown behavior", targetExists: true, behavior: "merge", wantErr: migrate.ErrInvalidBehavior},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, target := sourceDB(1), dbconntest.New()
			if tt.targetExists {
				cols := employeeColumns()
				if tt.targetCols != nil {
					cols = tt.targetCols()
				}
				target.Tables["EMPLOYEES"] = &dbconntest.Table{Columns: cols}
			}

			plan, err := newReconciler(t, source, target).Plan(context.Background(), "EMPLOYEES", "EMPLOYEES", tt.behavior)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, plan)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Action)
			assert.Len(t, plan.Statements, tt.wantStmts)
			assert.Len(t, plan.SourceSchema, 3)
		})
	}
}

func TestPlan_RecreateOrder(t *testing.T) {
	source, target := sourceDB(1), dbconntest.New()
	target.Tables["EMPLOYEES"] = &dbconntest.Table{Columns: employeeColumns()}

	plan, err := newReconciler(t, source, target).Plan(context.Background(), "EMPLOYEES", "EMPLOYEES", migrate.DropAndRecreate)
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE EMPLOYEES", plan.Statements[0])
	assert.Contains(t, plan.Statements[1], "CREATE TABLE EMPLOYEES (")

	require.NoError(t, newReconciler(t, source, target).Apply(context.Background(), plan))
	assert.Equal(t, plan.Statements, target.Execs)
}

func TestPlan_SourceMissingIsCheckedFirst(t *testing.T) {
	target := dbconntest.New()
	target.Tables["EMPLOYEES"] = &dbconntest.Table{Columns: employeeColumns()}

	_, err := newReconciler(t, dbconntest.New(), target).Plan(context.Background(), "EMPLOYEES", "EMPLOYEES", "bogus")
	assert.ErrorIs(t, err, migrate.ErrSourceMissing)
}

func TestSchemasMatch(t *testing.T) {
	a := schema.TableSchema{{Name: "ID", TypeName: "NUMBER", Precision: null.IntFrom(10)}}
	b := schema.TableSchema{{Name: "ID", TypeName: "NUMBER", Precision: null.IntFrom(10), Nullable: true}}

	assert.True(t, migrate.SchemasMatch(a, b))
	assert.False(t, migrate.SchemasMatch(nil, nil))
	assert.False(t, migrate.SchemasMatch(a, schema.TableSchema{{Name: "ID", TypeName: "NUMBER"}}))
}
