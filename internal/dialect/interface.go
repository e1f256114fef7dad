package dialect

// Dialect abstracts database-specific SQL used by the migration engine.
//
// Metadata queries take exactly one bind parameter: the table name, already
// passed through NormalizeIdentifier.
type Dialect interface {
	// Name is the canonical dialect name ("oracle", "postgres", "mysql", "sqlserver").
	Name() string
	// DriverName is the database/sql driver registered for this dialect.
	DriverName() string

	// Metadata Queries (Schema Introspection)
	// ColumnsQuery yields: name, data type, length, precision, scale, nullable.
	ColumnsQuery() string
	// TableExistsQuery yields a single count column.
	TableExistsQuery() string
	// IndexesQuery yields: index name, owner table, uniqueness, tablespace, comma-joined columns.
	IndexesQuery() string

	// Session setup run once after connect (schema switching etc.)
	SessionQueries(schema string) []string

	// Query Generation
	InsertQuery(table string, cols []string) string
	CountQuery(query string) string
	TruncateQuery(table string) string
	Placeholder(index int) string // Returns ?, $1, @p1, :1 etc.

	// Helpers
	NormalizeType(sqlType string) string
	NormalizeIdentifier(name string) string
	IdentifierLimit() int
}

// Normalized type categories returned by NormalizeType.
const (
	TypeNumeric   = "numeric"
	TypeVarChar   = "varchar"
	TypeChar      = "char"
	TypeDate      = "date"
	TypeTimestamp = "timestamp"
	TypeClob      = "clob"
	TypeBlob      = "blob"
	TypeRaw       = "raw"
	TypeLong      = "long"
	TypeOther     = "other"
)
