package ddl_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"

	"table-migrator/internal/ddl"
	"table-migrator/internal/dialect"
	"table-migrator/internal/schema"
)

func TestCreateTable(t *testing.T) {
	s := schema.TableSchema{
		{Name: "ID", Type: schema.Numeric, TypeName: "NUMBER", Precision: null.IntFrom(10), Scale: null.IntFrom(0)},
		{Name: "PRICE", Type: schema.Numeric, TypeName: "NUMBER", Precision: null.IntFrom(12), Scale: null.IntFrom(2), Nullable: true},
		{Name: "QTY", Type: schema.Numeric, TypeName: "NUMBER", Nullable: true},
		{Name: "NAME", Type: schema.VarChar, TypeName: "VARCHAR2", Length: null.IntFrom(100)},
		{Name: "FLAG", Type: schema.FixedChar, TypeName: "CHAR", Length: null.IntFrom(1), Nullable: true},
		{Name: "TOKEN", Type: schema.RawBinary, TypeName: "RAW", Nullable: true},
		{Name: "CREATED_AT", Type: schema.Timestamp, TypeName: "TIMESTAMP(6)", Nullable: true},
		{Name: "NOTES", Type: schema.Clob, TypeName: "CLOB", Nullable: true},
	}

	got, err := ddl.CreateTable(s, "ORDERS_COPY")
	require.NoError(t, err)

	want := strings.Join([]string{
		"CREATE TABLE ORDERS_COPY (",
		"    ID NUMBER(10) NOT NULL,",
		"    PRICE NUMBER(12,2),",
		"    QTY NUMBER,",
		"    NAME VARCHAR2(100) NOT NULL,",
		"    FLAG CHAR(1),",
		"    TOKEN RAW(2000),",
		"    CREATED_AT TIMESTAMP(6),",
		"    NOTES CLOB",
		")",
	}, "\n")
	assert.Equal(t, want, got)
}

func column(d dialect.Dialect, name, typeName string) schema.ColumnDefinition {
	return schema.ColumnDefinition{Name: name, TypeName: typeName, Type: schema.ParseDataType(d.NormalizeType(typeName)), Nullable: true}
}

func TestCreateTable_SQLServerMaxColumns(t *testing.T) {
	d := &dialect.MSSQLDialect{}
	id := column(d, "ID", "int")
	id.Nullable = false
	title := column(d, "TITLE", "nvarchar")
	title.Length = null.IntFrom(200)
	notes := column(d, "NOTES", "nvarchar")
	notes.Length = null.IntFrom(-1)
	body := column(d, "BODY", "varchar")
	body.Length = null.IntFrom(-1)
	payload := column(d, "PAYLOAD", "varbinary")
	payload.Length = null.IntFrom(-1)
	created := column(d, "CREATED_AT", "datetime2")
	created.Precision = null.IntFrom(7)

	got, err := ddl.CreateTable(schema.TableSchema{id, title, notes, body, payload, created}, "DOCS")
	require.NoError(t, err)

	want := strings.Join([]string{
		"CREATE TABLE DOCS (",
		"    ID int NOT NULL,",
		"    TITLE nvarchar(200),",
		"    NOTES nvarchar(max),",
		"    BODY varchar(max),",
		"    PAYLOAD varbinary(max),",
		"    CREATED_AT datetime2(7)",
		")",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestCreateTable_TimestampPrecision(t *testing.T) {
	my := &dialect.MysqlDialect{}
	updated := column(my, "UPDATED_AT", "datetime")
	updated.Precision = null.IntFrom(3)
	plain := column(my, "SEEN_AT", "timestamp")

	pg := column(&dialect.PostgresDialect{}, "LOGGED_AT", "timestamp without time zone")

	// Oracle carries the precision in the type name; it is not repeated.
	ora := column(&dialect.OracleDialect{}, "HIRED_AT", "TIMESTAMP(6)")
	ora.Precision = null.IntFrom(6)

	got, err := ddl.CreateTable(schema.TableSchema{updated, plain, pg, ora}, "EVENTS")
	require.NoError(t, err)

	assert.Contains(t, got, "UPDATED_AT datetime(3),")
	assert.Contains(t, got, "SEEN_AT timestamp,")
	assert.Contains(t, got, "LOGGED_AT timestamp without time zone,")
	assert.Contains(t, got, "HIRED_AT TIMESTAMP(6)\n")
}

func TestCreateTable_EmptySchema(t *testing.T) {
	_, err := ddl.CreateTable(nil, "T")
	assert.ErrorIs(t, err, ddl.ErrEmptySchema)
}

func TestCreateIndex(t *testing.T) {
	idx := schema.IndexDefinition{Name: "UQ_EMP_EMAIL", OwnerTable: "EMP", Columns: []string{"EMAIL", "DEPT_ID"}, IsUnique: true}

	got, err := ddl.CreateIndex(idx, "EMP", ddl.DefaultIdentifierLimit)
	require.NoError(t, err)
	assert.Equal(t, "CREATE UNIQUE INDEX UQ_EMP_EMAIL ON EMP (EMAIL, DEPT_ID)", got)

	idx.IsUnique = false
	got, err = ddl.CreateIndex(idx, "EMP", ddl.DefaultIdentifierLimit)
	require.NoError(t, err)
	assert.Equal(t, "CREATE INDEX UQ_EMP_EMAIL ON EMP (EMAIL, DEPT_ID)", got)
}

func TestIndexName_Stability(t *testing.T) {
	idx := schema.IndexDefinition{Name: "IDX_TBL_TEST", OwnerTable: "TBL", Columns: []string{"A"}}

	assert.Equal(t, "IDX_TBL2_TEST", ddl.IndexName(idx, "TBL2", ddl.DefaultIdentifierLimit))
	// Same length keeps the original name even though the table differs.
	assert.Equal(t, "IDX_TBL_TEST", ddl.IndexName(idx, "XYZ", ddl.DefaultIdentifierLimit))
}

func TestIndexName_Truncates(t *testing.T) {
	idx := schema.IndexDefinition{Name: "IDX_ORDERS_CUSTOMER_CREATED_AT", OwnerTable: "ORDERS", Columns: []string{"A"}}

	got := ddl.IndexName(idx, "ORDERS_ARCHIVE", ddl.DefaultIdentifierLimit)
	assert.Equal(t, "IDX_ORDERS_ARCHIVE_CUSTOMER_CR", got)
	assert.Len(t, got, 30)

	assert.Equal(t, "IDX_ORDERS_ARCHIVE_CUSTOMER_CREATED_AT", ddl.IndexName(idx, "ORDERS_ARCHIVE", 63))
	assert.Equal(t, got, ddl.IndexName(idx, "ORDERS_ARCHIVE", 0))
}

func TestCreateIndex_Invalid(t *testing.T) {
	_, err := ddl.CreateIndex(schema.IndexDefinition{OwnerTable: "T", Columns: []string{"A"}}, "T", 30)
	assert.ErrorIs(t, err, ddl.ErrEmptyIndex)

	_, err = ddl.CreateIndex(schema.IndexDefinition{Name: "IDX_T", OwnerTable: "T"}, "T", 30)
	assert.ErrorIs(t, err, ddl.ErrNoIndexColumn)
}

func TestDropTable(t *testing.T) {
	assert.Equal(t, "DROP TABLE EMP", ddl.DropTable("EMP"))
}
