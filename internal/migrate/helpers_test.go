package migrate_test

import (
	"fmt"
	"testing"

	"go.uber.org/zap/zaptest"

	"table-migrator/internal/dbconn"
	"table-migrator/internal/dbconn/dbconntest"
	"table-migrator/internal/migrate"
	"table-migrator/internal/schema"
)

func employeeColumns() []dbconntest.Column {
	return []dbconntest.Column{
		{Name: "ID", Type: "NUMBER", Precision: dbconntest.Int(10), Scale: dbconntest.Int(0)},
		{Name: "NAME", Type: "VARCHAR2", Length: dbconntest.Int(50), Nullable: true},
		{Name: "CODE", Type: "CHAR", Length: dbconntest.Int(3), Nullable: true},
	}
}

// sourceDB holds EMPLOYEES with n rows. CODE is stored as an integer so
// copies exercise character coercion.
func sourceDB(n int) *dbconntest.MemDB {
	db := dbconntest.New()
	t := &dbconntest.Table{
		Columns: employeeColumns(),
		Indexes: []dbconntest.Index{
			{Name: "IDX_EMPLOYEES_NAME", Columns: []string{"NAME"}},
			{Name: "IDX_EMPLOYEES_CODE", Columns: []string{"CODE", "ID"}},
		},
	}
	for i := 1; i <= n; i++ {
		t.Rows = append(t.Rows, dbconn.Row{int64(i), fmt.Sprintf("emp-%d", i), i})
	}
	db.Tables["EMPLOYEES"] = t
	return db
}

type recordingProgress struct {
	total int64
	adds  []int
	done  bool
}

func (p *recordingProgress) Start(table string, total int64) migrate.Tracker {
	p.total = total
	return p
}

func (p *recordingProgress) Add(n int) { p.adds = append(p.adds, n) }
func (p *recordingProgress) Done()     { p.done = true }

func newMigrator(t *testing.T, source, target dbconn.Conn, opts migrate.Options) *migrate.Migrator {
	t.Helper()
	logger := zaptest.NewLogger(t)
	lister := schema.NewIndexReader(source, schema.NewIntrospector(logger))
	return migrate.New(source, target, lister, nil, opts, logger)
}

func countPrefix(stmts []string, prefix string) int {
	n := 0
	for _, s := range stmts {
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
