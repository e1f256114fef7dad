package dialect

import (
	"fmt"
	"strings"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string       { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) ColumnsQuery() string {
	// character_maximum_length is NULL for non-character types, which keeps
	// sizing out of the generated DDL for them.
	return `
SELECT c.column_name,
       c.data_type,
       c.character_maximum_length,
       CASE WHEN c.data_type = 'numeric' THEN c.numeric_precision END,
       CASE WHEN c.data_type = 'numeric' THEN c.numeric_scale END,
       c.is_nullable
FROM information_schema.columns c
WHERE c.table_schema = current_schema() AND c.table_name = $1
ORDER BY c.ordinal_position`
}

func (d *PostgresDialect) TableExistsQuery() string {
	return `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1 AND table_type = 'BASE TABLE'`
}

func (d *PostgresDialect) IndexesQuery() string {
	// Primary key indexes are skipped: the generated tables carry no constraints
	// and the key columns get their index from the constraint on the source only.
	return `
SELECT i.relname,
       t.relname,
       CASE WHEN ix.indisunique THEN 'UNIQUE' ELSE 'NONUNIQUE' END,
       ts.spcname,
       string_agg(a.attname, ',' ORDER BY k.ord)
FROM pg_index ix
JOIN pg_class t ON t.oid = ix.indrelid
JOIN pg_class i ON i.oid = ix.indexrelid
JOIN pg_namespace n ON n.oid = t.relnamespace
LEFT JOIN pg_tablespace ts ON ts.oid = i.reltablespace
CROSS JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord)
JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
WHERE n.nspname = current_schema() AND t.relname = $1 AND NOT ix.indisprimary
GROUP BY i.relname, t.relname, ix.indisunique, ts.spcname`
}

func (d *PostgresDialect) SessionQueries(schema string) []string {
	if schema == "" {
		return nil
	}
	return []string{fmt.Sprintf("SET search_path TO %s", schema)}
}

func (d *PostgresDialect) InsertQuery(table string, cols []string) string {
	return defaultInsertQuery(table, cols, d.Placeholder)
}

func (d *PostgresDialect) CountQuery(query string) string {
	return aliasedCountQuery(query)
}

func (d *PostgresDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	switch {
	case t == "numeric" || t == "decimal":
		return TypeNumeric
	case t == "character varying" || t == "varchar":
		return TypeVarChar
	case t == "character" || t == "bpchar" || t == "char":
		return TypeChar
	case t == "date":
		return TypeDate
	case strings.HasPrefix(t, "timestamp"):
		return TypeTimestamp
	case t == "text":
		return TypeLong
	case t == "bytea":
		return TypeBlob
	default:
		return TypeOther
	}
}

func (d *PostgresDialect) NormalizeIdentifier(name string) string {
	return strings.ToLower(name)
}

func (d *PostgresDialect) IdentifierLimit() int {
	return 63
}
