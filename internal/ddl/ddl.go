// Package ddl renders the CREATE and DROP statements the migrator executes.
package ddl

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"table-migrator/internal/schema"
)

// DefaultIdentifierLimit is the Oracle identifier length limit.
const DefaultIdentifierLimit = 30

// DefaultRawLength is used for RAW columns whose length is unknown.
const DefaultRawLength = 2000

var (
	ErrEmptySchema   = errors.New("empty schema")
	ErrEmptyIndex    = errors.New("index has no name")
	ErrNoIndexColumn = errors.New("index has no columns")
)

// CreateTable renders one "NAME TYPE[(size)][ NOT NULL]" clause per column.
func CreateTable(s schema.TableSchema, table string) (string, error) {
	if len(s) == 0 {
		return "", fmt.Errorf("create table %s: %w", table, ErrEmptySchema)
	}

	clauses := make([]string, len(s))
	for i, col := range s {
		clause := col.Name + " " + columnType(col)
		if !col.Nullable {
			clause += " NOT NULL"
		}
		clauses[i] = "    " + clause
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n)", table, strings.Join(clauses, ",\n")), nil
}

func columnType(col schema.ColumnDefinition) string {
	switch col.Type {
	case schema.Numeric:
		if !col.Precision.Valid {
			return col.TypeName
		}
		if col.Scale.Valid && col.Scale.Int64 != 0 {
			return fmt.Sprintf("%s(%d,%d)", col.TypeName, col.Precision.Int64, col.Scale.Int64)
		}
		return fmt.Sprintf("%s(%d)", col.TypeName, col.Precision.Int64)
	case schema.VarChar, schema.FixedChar:
		if col.Length.Valid {
			return sized(col.TypeName, col.Length.Int64)
		}
		return col.TypeName
	case schema.RawBinary:
		length := int64(DefaultRawLength)
		if col.Length.Valid {
			length = col.Length.Int64
		}
		return sized(col.TypeName, length)
	case schema.Timestamp:
		if _, declared := col.TimestampPrecision(); declared || !col.Precision.Valid {
			return col.TypeName
		}
		return fmt.Sprintf("%s(%d)", col.TypeName, col.Precision.Int64)
	default:
		return col.TypeName
	}
}

// sized renders "TYPE(n)". SQL Server reports -1 for (max) columns.
func sized(typeName string, length int64) string {
	if length < 0 {
		return typeName + "(max)"
	}
	return fmt.Sprintf("%s(%d)", typeName, length)
}

// IndexName derives the target index name. Names are kept when the target and
// owner table names have the same length; otherwise the owner name is replaced
// by the target name and the result is truncated to limit characters.
func IndexName(idx schema.IndexDefinition, targetTable string, limit int) string {
	if utf8.RuneCountInString(targetTable) == utf8.RuneCountInString(idx.OwnerTable) {
		return idx.Name
	}
	if limit <= 0 {
		limit = DefaultIdentifierLimit
	}
	name := idx.Name
	if idx.OwnerTable != "" {
		name = strings.ReplaceAll(name, idx.OwnerTable, targetTable)
	}
	if runes := []rune(name); len(runes) > limit {
		name = string(runes[:limit])
	}
	return name
}

// CreateIndex renders the CREATE INDEX statement for idx on targetTable.
// Truncated names may collide; no de-duplication is attempted.
func CreateIndex(idx schema.IndexDefinition, targetTable string, limit int) (string, error) {
	if idx.Name == "" {
		return "", ErrEmptyIndex
	}
	if len(idx.Columns) == 0 {
		return "", fmt.Errorf("index %s: %w", idx.Name, ErrNoIndexColumn)
	}

	kind := "INDEX"
	if idx.IsUnique {
		kind = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s %s ON %s (%s)",
		kind, IndexName(idx, targetTable, limit), targetTable, strings.Join(idx.Columns, ", ")), nil
}

func DropTable(table string) string {
	return fmt.Sprintf("DROP TABLE %s", table)
}
