package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/guregu/null.v4"

	"table-migrator/internal/dbconn/dbconntest"
	"table-migrator/internal/schema"
)

func employees() *dbconntest.Table {
	return &dbconntest.Table{
		Columns: []dbconntest.Column{
			{Name: "ID", Type: "NUMBER", Length: dbconntest.Int(22), Precision: dbconntest.Int(10), Scale: dbconntest.Int(0)},
			{Name: "NAME", Type: "VARCHAR2", Length: dbconntest.Int(100), Nullable: true},
			{Name: "HIRED_AT", Type: "TIMESTAMP(6)", Length: dbconntest.Int(11), Nullable: true},
		},
		Indexes: []dbconntest.Index{
			{Name: "IDX_EMPLOYEES_NAME", Columns: []string{"NAME", "ID"}, Tablespace: "USERS"},
			{Name: "UQ_EMPLOYEES_ID", Columns: []string{"ID"}, Unique: true},
		},
	}
}

func TestGetSchema(t *testing.T) {
	db := dbconntest.New()
	db.Tables["EMPLOYEES"] = employees()
	in := schema.NewIntrospector(zaptest.NewLogger(t))

	got := in.GetSchema(context.Background(), db, "employees")
	require.Len(t, got, 3)

	assert.Equal(t, []string{"ID", "NAME", "HIRED_AT"}, got.Names())
	assert.Equal(t, schema.Numeric, got[0].Type)
	assert.Equal(t, null.IntFrom(10), got[0].Precision)
	assert.False(t, got[0].Nullable)

	assert.Equal(t, schema.VarChar, got[1].Type)
	assert.Equal(t, null.IntFrom(100), got[1].Length)
	assert.False(t, got[1].Precision.Valid)
	assert.True(t, got[1].Nullable)

	assert.Equal(t, schema.Timestamp, got[2].Type)
	p, ok := got[2].TimestampPrecision()
	assert.True(t, ok)
	assert.Equal(t, 6, p)
}

func TestGetSchema_MissingTableIsEmpty(t *testing.T) {
	in := schema.NewIntrospector(zaptest.NewLogger(t))
	assert.Empty(t, in.GetSchema(context.Background(), dbconntest.New(), "NOPE"))
}

func TestGetSchema_DriverErrorIsEmpty(t *testing.T) {
	db := dbconntest.New()
	db.Tables["EMPLOYEES"] = employees()
	db.FailQuery = func(string) error { return errors.New("ORA-03113: end-of-file on communication channel") }

	in := schema.NewIntrospector(zaptest.NewLogger(t))
	assert.Empty(t, in.GetSchema(context.Background(), db, "EMPLOYEES"))
}

func TestTableExists(t *testing.T) {
	db := dbconntest.New()
	db.Tables["EMPLOYEES"] = employees()
	in := schema.NewIntrospector(zaptest.NewLogger(t))
	ctx := context.Background()

	assert.True(t, in.TableExists(ctx, db, "EMPLOYEES"))
	assert.True(t, in.TableExists(ctx, db, "employees"))
	assert.False(t, in.TableExists(ctx, db, "DEPARTMENTS"))

	db.FailQuery = func(string) error { return errors.New("ORA-01017: invalid username/password") }
	assert.False(t, in.TableExists(ctx, db, "EMPLOYEES"))
}

func TestGetIndexes(t *testing.T) {
	db := dbconntest.New()
	db.Tables["EMPLOYEES"] = employees()
	in := schema.NewIntrospector(zaptest.NewLogger(t))

	got := in.GetIndexes(context.Background(), db, "EMPLOYEES")
	require.Len(t, got, 2)

	assert.Equal(t, "IDX_EMPLOYEES_NAME", got[0].Name)
	assert.Equal(t, "EMPLOYEES", got[0].OwnerTable)
	assert.Equal(t, []string{"NAME", "ID"}, got[0].Columns)
	assert.False(t, got[0].IsUnique)
	assert.Equal(t, null.StringFrom("USERS"), got[0].Tablespace)

	assert.True(t, got[1].IsUnique)
	assert.False(t, got[1].Tablespace.Valid)
}

func TestGetIndexes_FailureIsEmpty(t *testing.T) {
	db := dbconntest.New()
	db.Tables["EMPLOYEES"] = employees()
	db.FailQuery = func(string) error { return errors.New("boom") }

	reader := schema.NewIndexReader(db, schema.NewIntrospector(zaptest.NewLogger(t)))
	assert.Empty(t, reader.GetIndexes(context.Background(), "EMPLOYEES"))
}

func TestGetSchema_NationalCharacterLengthsInCharacters(t *testing.T) {
	db := dbconntest.New()
	db.Tables["CUSTOMERS"] = &dbconntest.Table{Columns: []dbconntest.Column{
		{Name: "NAME", Type: "NVARCHAR2", Length: dbconntest.Int(100), CharLength: dbconntest.Int(50), Nullable: true},
		{Name: "FLAG", Type: "NCHAR", Length: dbconntest.Int(2), CharLength: dbconntest.Int(1)},
		{Name: "NOTE", Type: "VARCHAR2", Length: dbconntest.Int(200), CharLength: dbconntest.Int(200), Nullable: true},
	}}
	in := schema.NewIntrospector(zaptest.NewLogger(t))

	got := in.GetSchema(context.Background(), db, "CUSTOMERS")
	require.Len(t, got, 3)

	assert.Equal(t, schema.VarChar, got[0].Type)
	assert.Equal(t, null.IntFrom(50), got[0].Length)
	assert.Equal(t, schema.FixedChar, got[1].Type)
	assert.Equal(t, null.IntFrom(1), got[1].Length)
	assert.Equal(t, null.IntFrom(200), got[2].Length)
}
