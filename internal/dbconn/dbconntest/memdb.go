// Package dbconntest provides an in-memory dbconn.Conn for tests. It speaks
// the Oracle dialect's dictionary queries and understands the DDL and DML the
// migration engine generates.
package dbconntest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"table-migrator/internal/dbconn"
	"table-migrator/internal/dialect"
)

// Column mirrors one USER_TAB_COLUMNS row. Length, CharLength, Precision and
// Scale hold nil or an int64, the way the driver reports them. Length is
// DATA_LENGTH in bytes; CharLength is CHAR_LENGTH in characters.
type Column struct {
	Name       string
	Type       string
	Length     any
	CharLength any
	Precision  any
	Scale      any
	Nullable   bool
}

// nationalBytes is the AL16UTF16 byte width of one national character.
const nationalBytes = 2

func isNational(typ string) bool { return typ == "NVARCHAR2" || typ == "NCHAR" }

type Index struct {
	Name       string
	Columns    []string
	Unique     bool
	Tablespace string
}

type Table struct {
	Columns []Column
	Rows    []dbconn.Row
	Indexes []Index
}

// InsertCall records one InsertBatch invocation.
type InsertCall struct {
	Stmt string
	Rows []dbconn.Row
}

// MemDB is not safe for concurrent use, like the connections it stands in for.
type MemDB struct {
	Tables map[string]*Table
	// Queries maps custom SELECT text to the rows it yields.
	Queries map[string][]dbconn.Row

	ConnectErr error
	FailQuery  func(query string) error
	FailExec   func(stmt string) error
	FailInsert func(table string, batch int) error

	Connected     bool
	Execs         []string
	Inserts       []InsertCall
	CursorsOpened int
	CursorsClosed int
	FetchCalls    int

	dialect dialect.Dialect
	batches map[string]int
}

func New() *MemDB {
	return &MemDB{
		Tables:  make(map[string]*Table),
		Queries: make(map[string][]dbconn.Row),
		dialect: &dialect.OracleDialect{},
		batches: make(map[string]int),
	}
}

// Int returns n the way the driver reports numeric dictionary values.
func Int(n int) any { return int64(n) }

var _ dbconn.Conn = (*MemDB)(nil)

func (m *MemDB) Dialect() dialect.Dialect { return m.dialect }

func (m *MemDB) Connect(ctx context.Context) error {
	if m.ConnectErr != nil {
		return m.ConnectErr
	}
	m.Connected = true
	return nil
}

func (m *MemDB) Disconnect() error {
	m.Connected = false
	return nil
}

// RowCount returns the number of rows stored in table, or -1 if it does not exist.
func (m *MemDB) RowCount(table string) int {
	t, ok := m.Tables[strings.ToUpper(table)]
	if !ok {
		return -1
	}
	return len(t.Rows)
}

func (m *MemDB) Query(ctx context.Context, query string, args ...any) ([]dbconn.Row, error) {
	if m.FailQuery != nil {
		if err := m.FailQuery(query); err != nil {
			return nil, err
		}
	}

	switch query {
	case m.dialect.TableExistsQuery():
		if _, ok := m.Tables[argName(args)]; ok {
			return []dbconn.Row{{int64(1)}}, nil
		}
		return []dbconn.Row{{int64(0)}}, nil

	case m.dialect.ColumnsQuery():
		t, ok := m.Tables[argName(args)]
		if !ok {
			return nil, nil
		}
		rows := make([]dbconn.Row, 0, len(t.Columns))
		for _, c := range t.Columns {
			nullable := "N"
			if c.Nullable {
				nullable = "Y"
			}
			length := c.Length
			if isNational(c.Type) {
				length = c.CharLength
			}
			rows = append(rows, dbconn.Row{c.Name, c.Type, length, c.Precision, c.Scale, nullable})
		}
		return rows, nil

	case m.dialect.IndexesQuery():
		name := argName(args)
		t, ok := m.Tables[name]
		if !ok {
			return nil, nil
		}
		rows := make([]dbconn.Row, 0, len(t.Indexes))
		for _, idx := range t.Indexes {
			uniqueness := "NONUNIQUE"
			if idx.Unique {
				uniqueness = "UNIQUE"
			}
			var tablespace any
			if idx.Tablespace != "" {
				tablespace = idx.Tablespace
			}
			rows = append(rows, dbconn.Row{idx.Name, name, uniqueness, tablespace, strings.Join(idx.Columns, ",")})
		}
		return rows, nil
	}

	if strings.HasPrefix(query, "SELECT COUNT(*) FROM (") && strings.HasSuffix(query, ")") {
		inner := strings.TrimSuffix(strings.TrimPrefix(query, "SELECT COUNT(*) FROM ("), ")")
		rows, err := m.resolve(inner)
		if err != nil {
			return nil, err
		}
		return []dbconn.Row{{int64(len(rows))}}, nil
	}

	return m.resolve(query)
}

func (m *MemDB) Exec(ctx context.Context, stmt string, args ...any) error {
	m.Execs = append(m.Execs, stmt)
	if m.FailExec != nil {
		if err := m.FailExec(stmt); err != nil {
			return err
		}
	}

	switch {
	case strings.HasPrefix(stmt, "DROP TABLE "):
		name := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(stmt, "DROP TABLE ")))
		if _, ok := m.Tables[name]; !ok {
			return fmt.Errorf("ORA-00942: table or view does not exist: %s", name)
		}
		delete(m.Tables, name)
		return nil

	case strings.HasPrefix(stmt, "TRUNCATE TABLE "):
		name := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(stmt, "TRUNCATE TABLE ")))
		t, ok := m.Tables[name]
		if !ok {
			return fmt.Errorf("ORA-00942: table or view does not exist: %s", name)
		}
		t.Rows = nil
		return nil

	case strings.HasPrefix(stmt, "CREATE TABLE "):
		name, cols, err := parseCreateTable(stmt)
		if err != nil {
			return err
		}
		if _, ok := m.Tables[name]; ok {
			return fmt.Errorf("ORA-00955: name is already used by an existing object: %s", name)
		}
		m.Tables[name] = &Table{Columns: cols}
		return nil

	case strings.HasPrefix(stmt, "CREATE INDEX "), strings.HasPrefix(stmt, "CREATE UNIQUE INDEX "):
		return m.createIndex(stmt)
	}

	return fmt.Errorf("unsupported statement: %s", stmt)
}

func (m *MemDB) InsertBatch(ctx context.Context, stmt string, rows []dbconn.Row) error {
	name, err := insertTable(stmt)
	if err != nil {
		return err
	}
	m.batches[name]++
	if m.FailInsert != nil {
		if err := m.FailInsert(name, m.batches[name]); err != nil {
			return err
		}
	}
	t, ok := m.Tables[name]
	if !ok {
		return fmt.Errorf("ORA-00942: table or view does not exist: %s", name)
	}

	copied := make([]dbconn.Row, len(rows))
	for i, r := range rows {
		if len(r) != len(t.Columns) {
			return fmt.Errorf("ORA-00947: not enough values for %s", name)
		}
		copied[i] = append(dbconn.Row(nil), r...)
	}
	t.Rows = append(t.Rows, copied...)
	m.Inserts = append(m.Inserts, InsertCall{Stmt: stmt, Rows: copied})
	return nil
}

func (m *MemDB) OpenCursor(ctx context.Context, query string) (dbconn.Cursor, error) {
	rows, err := m.resolve(query)
	if err != nil {
		return nil, err
	}
	m.CursorsOpened++
	return &memCursor{db: m, rows: rows, fetchSize: dbconn.DefaultFetchSize}, nil
}

func (m *MemDB) resolve(query string) ([]dbconn.Row, error) {
	if rows, ok := m.Queries[query]; ok {
		return rows, nil
	}
	if strings.HasPrefix(query, "SELECT * FROM ") {
		name := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(query, "SELECT * FROM ")))
		t, ok := m.Tables[name]
		if !ok {
			return nil, fmt.Errorf("ORA-00942: table or view does not exist: %s", name)
		}
		return t.Rows, nil
	}
	return nil, fmt.Errorf("unsupported query: %s", query)
}

func (m *MemDB) createIndex(stmt string) error {
	unique := strings.HasPrefix(stmt, "CREATE UNIQUE INDEX ")
	rest := strings.TrimPrefix(strings.TrimPrefix(stmt, "CREATE UNIQUE INDEX "), "CREATE INDEX ")

	name, rest, ok := strings.Cut(rest, " ON ")
	if !ok {
		return fmt.Errorf("malformed index statement: %s", stmt)
	}
	table, cols, ok := strings.Cut(rest, " (")
	if !ok {
		return fmt.Errorf("malformed index statement: %s", stmt)
	}
	table = strings.ToUpper(table)
	t, ok := m.Tables[table]
	if !ok {
		return fmt.Errorf("ORA-00942: table or view does not exist: %s", table)
	}
	for _, other := range m.Tables {
		for _, idx := range other.Indexes {
			if idx.Name == name {
				return fmt.Errorf("ORA-00955: name is already used by an existing object: %s", name)
			}
		}
	}

	var columns []string
	for _, c := range strings.Split(strings.TrimSuffix(cols, ")"), ",") {
		columns = append(columns, strings.TrimSpace(c))
	}
	t.Indexes = append(t.Indexes, Index{Name: name, Columns: columns, Unique: unique})
	return nil
}

type memCursor struct {
	db        *MemDB
	rows      []dbconn.Row
	pos       int
	fetchSize int
	closed    bool
}

func (c *memCursor) SetFetchSize(n int) {
	if n > 0 {
		c.fetchSize = n
	}
}

func (c *memCursor) Fetch(ctx context.Context) ([]dbconn.Row, error) {
	if c.closed {
		return nil, errors.New("cursor is closed")
	}
	c.db.FetchCalls++
	end := c.pos + c.fetchSize
	if end > len(c.rows) {
		end = len(c.rows)
	}
	batch := c.rows[c.pos:end]
	c.pos = end
	return batch, nil
}

func (c *memCursor) Close() error {
	if !c.closed {
		c.closed = true
		c.db.CursorsClosed++
	}
	return nil
}

func argName(args []any) string {
	if len(args) == 0 {
		return ""
	}
	s, _ := args[0].(string)
	return strings.ToUpper(s)
}

func insertTable(stmt string) (string, error) {
	rest, ok := strings.CutPrefix(stmt, "INSERT INTO ")
	if !ok {
		return "", fmt.Errorf("unsupported insert: %s", stmt)
	}
	name, _, ok := strings.Cut(rest, " (")
	if !ok {
		return "", fmt.Errorf("unsupported insert: %s", stmt)
	}
	return strings.ToUpper(name), nil
}

// parseCreateTable understands the layout produced by the DDL generator:
// one "NAME TYPE[(size)][ NOT NULL]" clause per line.
func parseCreateTable(stmt string) (string, []Column, error) {
	rest := strings.TrimPrefix(stmt, "CREATE TABLE ")
	open := strings.Index(rest, "(")
	closing := strings.LastIndex(rest, ")")
	if open < 0 || closing < open {
		return "", nil, fmt.Errorf("malformed create statement: %s", stmt)
	}
	name := strings.ToUpper(strings.TrimSpace(rest[:open]))

	var cols []Column
	for _, clause := range strings.Split(rest[open+1:closing], ",\n") {
		fields := strings.Fields(clause)
		if len(fields) < 2 {
			return "", nil, fmt.Errorf("malformed column clause %q", clause)
		}
		col := Column{Name: fields[0], Type: fields[1], Nullable: !strings.Contains(clause, "NOT NULL")}

		base, size, sized := strings.Cut(fields[1], "(")
		size = strings.TrimSuffix(size, ")")
		switch {
		case sized && base == "NUMBER":
			col.Type = base
			p, s, hasScale := strings.Cut(size, ",")
			col.Precision = atoi(p)
			col.Scale = int64(0)
			if hasScale {
				col.Scale = atoi(s)
			}
		case sized && (base == "VARCHAR2" || base == "CHAR" || base == "RAW"):
			col.Type = base
			col.Length = atoi(size)
		case sized && isNational(base):
			col.Type = base
			col.CharLength = atoi(size)
			if n, ok := col.CharLength.(int64); ok {
				col.Length = n * nationalBytes
			}
		}
		cols = append(cols, col)
	}
	return name, cols, nil
}

func atoi(s string) any {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return int64(n)
}
