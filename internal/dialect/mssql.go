package dialect

import (
	"fmt"
	"strings"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string       { return "sqlserver" }
func (d *MSSQLDialect) DriverName() string { return "sqlserver" }

func (d *MSSQLDialect) ColumnsQuery() string {
	return `
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE,
			c.CHARACTER_MAXIMUM_LENGTH,
			CASE
				WHEN c.DATA_TYPE IN ('decimal', 'numeric') THEN c.NUMERIC_PRECISION
				WHEN c.DATA_TYPE IN ('datetime2', 'datetimeoffset') THEN c.DATETIME_PRECISION
			END,
			CASE WHEN c.DATA_TYPE IN ('decimal', 'numeric') THEN c.NUMERIC_SCALE END,
			c.IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS c
		WHERE c.TABLE_SCHEMA = SCHEMA_NAME() AND c.TABLE_NAME = @p1
		ORDER BY c.ORDINAL_POSITION
	`
}

func (d *MSSQLDialect) TableExistsQuery() string {
	return `SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = SCHEMA_NAME() AND TABLE_NAME = @p1 AND TABLE_TYPE = 'BASE TABLE'`
}

func (d *MSSQLDialect) IndexesQuery() string {
	// Included (non-key) columns are left out; key_ordinal keeps the key order.
	return `
		SELECT
			i.name,
			t.name,
			CASE WHEN i.is_unique = 1 THEN 'UNIQUE' ELSE 'NONUNIQUE' END,
			ds.name,
			STRING_AGG(col.name, ',') WITHIN GROUP (ORDER BY ic.key_ordinal)
		FROM sys.indexes i
		JOIN sys.tables t ON i.object_id = t.object_id
		JOIN sys.index_columns ic ON i.object_id = ic.object_id AND i.index_id = ic.index_id
		JOIN sys.columns col ON ic.object_id = col.object_id AND ic.column_id = col.column_id
		LEFT JOIN sys.data_spaces ds ON ds.data_space_id = i.data_space_id
		WHERE t.name = @p1
			AND SCHEMA_NAME(t.schema_id) = SCHEMA_NAME()
			AND i.name IS NOT NULL
			AND i.is_primary_key = 0
			AND ic.is_included_column = 0
		GROUP BY i.name, t.name, i.is_unique, ds.name
	`
}

func (d *MSSQLDialect) SessionQueries(schema string) []string {
	// SQL Server has no per-session default schema switch; the login's
	// default schema is used.
	return nil
}

func (d *MSSQLDialect) InsertQuery(table string, cols []string) string {
	return defaultInsertQuery(table, cols, d.Placeholder)
}

func (d *MSSQLDialect) CountQuery(query string) string {
	return aliasedCountQuery(query)
}

// TruncateQuery uses DELETE since SQL Server refuses TRUNCATE on tables
// referenced by a foreign key.
func (d *MSSQLDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("DELETE FROM %s", table)
}

// Placeholder uses go-mssqldb's ordinal @pN parameters.
func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(baseType(sqlType))
	switch t {
	case "decimal", "numeric":
		return TypeNumeric
	case "varchar", "nvarchar":
		return TypeVarChar
	case "char", "nchar":
		return TypeChar
	case "date":
		return TypeDate
	case "datetime", "datetime2", "smalldatetime", "datetimeoffset":
		return TypeTimestamp
	case "text", "ntext":
		return TypeLong
	case "image":
		return TypeBlob
	case "binary", "varbinary":
		return TypeRaw
	default:
		return TypeOther
	}
}

func (d *MSSQLDialect) NormalizeIdentifier(name string) string {
	return name
}

func (d *MSSQLDialect) IdentifierLimit() int {
	return 128
}
