package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string       { return "oracle" }
func (d *OracleDialect) DriverName() string { return "oracle" }

func (d *OracleDialect) ColumnsQuery() string {
	// USER_TAB_COLUMNS lists columns of tables owned by the current user.
	// COLUMN_ID is the physical position and drives positional INSERT binding.
	// DATA_LENGTH is in bytes; national character types are declared in characters.
	return `
SELECT column_name,
       data_type,
       CASE WHEN data_type IN ('NVARCHAR2', 'NCHAR') THEN char_length ELSE data_length END,
       data_precision,
       data_scale,
       nullable
FROM user_tab_columns
WHERE table_name = :1
ORDER BY column_id`
}

func (d *OracleDialect) TableExistsQuery() string {
	return `SELECT COUNT(*) FROM user_tables WHERE table_name = :1`
}

func (d *OracleDialect) IndexesQuery() string {
	// One row per index; LISTAGG keeps the key order of the index columns.
	return `
SELECT i.index_name,
       i.table_name,
       i.uniqueness,
       i.tablespace_name,
       LISTAGG(c.column_name, ',') WITHIN GROUP (ORDER BY c.column_position) AS columns
FROM user_indexes i
JOIN user_ind_columns c ON i.index_name = c.index_name
WHERE i.table_name = :1
GROUP BY i.index_name, i.table_name, i.uniqueness, i.tablespace_name`
}

func (d *OracleDialect) SessionQueries(schema string) []string {
	if schema == "" {
		return nil
	}
	return []string{fmt.Sprintf("ALTER SESSION SET CURRENT_SCHEMA = %s", schema)}
}

func (d *OracleDialect) InsertQuery(table string, cols []string) string {
	return defaultInsertQuery(table, cols, d.Placeholder)
}

func (d *OracleDialect) CountQuery(query string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM (%s)", query)
}

func (d *OracleDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", table)
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	switch baseType(sqlType) {
	case "NUMBER", "FLOAT":
		return TypeNumeric
	case "VARCHAR2", "NVARCHAR2", "VARCHAR":
		return TypeVarChar
	case "CHAR", "NCHAR":
		return TypeChar
	case "DATE":
		return TypeDate
	case "TIMESTAMP":
		return TypeTimestamp
	case "CLOB", "NCLOB":
		return TypeClob
	case "BLOB":
		return TypeBlob
	case "RAW":
		return TypeRaw
	case "LONG":
		return TypeLong
	default:
		return TypeOther
	}
}

func (d *OracleDialect) NormalizeIdentifier(name string) string {
	// Unquoted identifiers are stored upper case in the dictionary.
	return strings.ToUpper(name)
}

func (d *OracleDialect) IdentifierLimit() int {
	return 30
}
