package schema

import (
	"context"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"

	"table-migrator/internal/dbconn"
)

// Introspector reads table metadata from a connection's data dictionary.
// Lookup failures are logged and collapsed to an empty answer; callers decide
// whether an empty schema is fatal.
type Introspector struct {
	logger *zap.Logger
}

func NewIntrospector(logger *zap.Logger) *Introspector {
	return &Introspector{logger: logger.Named("schema")}
}

// GetSchema returns the columns of table in physical order.
func (in *Introspector) GetSchema(ctx context.Context, conn dbconn.Conn, table string) TableSchema {
	d := conn.Dialect()
	rows, err := conn.Query(ctx, d.ColumnsQuery(), d.NormalizeIdentifier(table))
	if err != nil {
		in.logger.Warn("column lookup failed", zap.String("table", table), zap.Error(err))
		return TableSchema{}
	}

	cols := make(TableSchema, 0, len(rows))
	for _, r := range rows {
		if len(r) < 6 {
			in.logger.Warn("unexpected column row shape", zap.String("table", table), zap.Int("width", len(r)))
			return TableSchema{}
		}
		typeName := cast.ToString(r[1])
		cols = append(cols, ColumnDefinition{
			Name:      cast.ToString(r[0]),
			Type:      ParseDataType(d.NormalizeType(typeName)),
			TypeName:  typeName,
			Length:    toNullInt(r[2]),
			Precision: toNullInt(r[3]),
			Scale:     toNullInt(r[4]),
			Nullable:  isNullable(r[5]),
		})
	}
	return cols
}

// TableExists reports false on any lookup failure.
func (in *Introspector) TableExists(ctx context.Context, conn dbconn.Conn, table string) bool {
	d := conn.Dialect()
	rows, err := conn.Query(ctx, d.TableExistsQuery(), d.NormalizeIdentifier(table))
	if err != nil {
		in.logger.Warn("existence check failed", zap.String("table", table), zap.Error(err))
		return false
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return false
	}
	n, err := cast.ToInt64E(normalizeScalar(rows[0][0]))
	if err != nil {
		in.logger.Warn("existence check returned a non-numeric count", zap.String("table", table), zap.Error(err))
		return false
	}
	return n > 0
}

// GetIndexes returns one definition per index on table, or none on failure.
func (in *Introspector) GetIndexes(ctx context.Context, conn dbconn.Conn, table string) []IndexDefinition {
	d := conn.Dialect()
	rows, err := conn.Query(ctx, d.IndexesQuery(), d.NormalizeIdentifier(table))
	if err != nil {
		in.logger.Warn("index lookup failed", zap.String("table", table), zap.Error(err))
		return nil
	}

	indexes := make([]IndexDefinition, 0, len(rows))
	for _, r := range rows {
		if len(r) < 5 {
			in.logger.Warn("unexpected index row shape", zap.String("table", table), zap.Int("width", len(r)))
			return nil
		}
		idx := IndexDefinition{
			Name:       cast.ToString(r[0]),
			OwnerTable: cast.ToString(r[1]),
			IsUnique:   strings.EqualFold(cast.ToString(r[2]), "UNIQUE"),
			Columns:    splitColumns(cast.ToString(r[4])),
		}
		if r[3] != nil {
			idx.Tablespace = null.StringFrom(cast.ToString(r[3]))
		}
		indexes = append(indexes, idx)
	}
	return indexes
}

// IndexReader binds an Introspector to one connection so it can be handed to
// the index replicator as its index source.
type IndexReader struct {
	conn dbconn.Conn
	in   *Introspector
}

func NewIndexReader(conn dbconn.Conn, in *Introspector) *IndexReader {
	return &IndexReader{conn: conn, in: in}
}

func (r *IndexReader) GetIndexes(ctx context.Context, table string) []IndexDefinition {
	return r.in.GetIndexes(ctx, r.conn, table)
}

// Some drivers hand numeric dictionary values back as text.
func normalizeScalar(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func toNullInt(v any) null.Int {
	if v == nil {
		return null.Int{}
	}
	n, err := cast.ToInt64E(normalizeScalar(v))
	if err != nil {
		return null.Int{}
	}
	return null.IntFrom(n)
}

func isNullable(v any) bool {
	s := strings.ToUpper(strings.TrimSpace(cast.ToString(v)))
	return s == "Y" || s == "YES"
}

func splitColumns(list string) []string {
	var cols []string
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}
