package dialect

import (
	"fmt"
	"strings"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string       { return "mysql" }
func (d *MysqlDialect) DriverName() string { return "mysql" }

func (d *MysqlDialect) ColumnsQuery() string {
	return `SELECT COLUMN_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH, CASE WHEN DATA_TYPE IN ('decimal', 'numeric') THEN NUMERIC_PRECISION WHEN DATA_TYPE IN ('datetime', 'timestamp') THEN DATETIME_PRECISION END, IF(DATA_TYPE IN ('decimal', 'numeric'), NUMERIC_SCALE, NULL), IS_NULLABLE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`
}

func (d *MysqlDialect) TableExistsQuery() string {
	return `SELECT COUNT(*) FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND TABLE_TYPE = 'BASE TABLE'`
}

func (d *MysqlDialect) IndexesQuery() string {
	return `SELECT INDEX_NAME, TABLE_NAME, IF(MIN(NON_UNIQUE) = 0, 'UNIQUE', 'NONUNIQUE'), NULL, GROUP_CONCAT(COLUMN_NAME ORDER BY SEQ_IN_INDEX SEPARATOR ',') FROM information_schema.STATISTICS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND INDEX_NAME <> 'PRIMARY' GROUP BY INDEX_NAME, TABLE_NAME`
}

func (d *MysqlDialect) SessionQueries(schema string) []string {
	if schema == "" {
		return nil
	}
	return []string{fmt.Sprintf("USE %s", schema)}
}

func (d *MysqlDialect) InsertQuery(table string, cols []string) string {
	return defaultInsertQuery(table, cols, d.Placeholder)
}

func (d *MysqlDialect) CountQuery(query string) string {
	return aliasedCountQuery(query)
}

func (d *MysqlDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", table)
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	switch strings.ToLower(baseType(sqlType)) {
	case "decimal", "numeric":
		return TypeNumeric
	case "varchar":
		return TypeVarChar
	case "char":
		return TypeChar
	case "date":
		return TypeDate
	case "datetime", "timestamp":
		return TypeTimestamp
	case "text", "mediumtext", "longtext":
		return TypeLong
	case "blob", "mediumblob", "longblob":
		return TypeBlob
	case "varbinary", "binary":
		return TypeRaw
	default:
		return TypeOther
	}
}

func (d *MysqlDialect) NormalizeIdentifier(name string) string {
	return name
}

func (d *MysqlDialect) IdentifierLimit() int {
	return 64
}
