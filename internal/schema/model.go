package schema

import (
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v4"

	"table-migrator/internal/dialect"
)

// DataType is the engine's view of a column type, independent of the
// dictionary spelling.
type DataType int

const (
	Other DataType = iota
	Numeric
	VarChar
	FixedChar
	Date
	Timestamp
	Clob
	Blob
	RawBinary
	LongText
)

func (t DataType) String() string {
	switch t {
	case Numeric:
		return "NUMERIC"
	case VarChar:
		return "VARCHAR"
	case FixedChar:
		return "CHAR"
	case Date:
		return "DATE"
	case Timestamp:
		return "TIMESTAMP"
	case Clob:
		return "CLOB"
	case Blob:
		return "BLOB"
	case RawBinary:
		return "RAW"
	case LongText:
		return "LONG"
	default:
		return "OTHER"
	}
}

// IsCharacter reports whether values of this type are bound as strings.
func (t DataType) IsCharacter() bool {
	return t == VarChar || t == FixedChar
}

// ParseDataType maps a dialect type class to a DataType.
func ParseDataType(class string) DataType {
	switch class {
	case dialect.TypeNumeric:
		return Numeric
	case dialect.TypeVarChar:
		return VarChar
	case dialect.TypeChar:
		return FixedChar
	case dialect.TypeDate:
		return Date
	case dialect.TypeTimestamp:
		return Timestamp
	case dialect.TypeClob:
		return Clob
	case dialect.TypeBlob:
		return Blob
	case dialect.TypeRaw:
		return RawBinary
	case dialect.TypeLong:
		return LongText
	default:
		return Other
	}
}

// ColumnDefinition is comparable. Two definitions are structurally equal
// when Equal reports true; Nullable does not take part.
type ColumnDefinition struct {
	Name      string
	Type      DataType
	TypeName  string // declared type as reported by the dictionary, e.g. "TIMESTAMP(6)"
	Length    null.Int
	Precision null.Int
	Scale     null.Int
	Nullable  bool
}

func (c ColumnDefinition) Equal(o ColumnDefinition) bool {
	return c.Name == o.Name &&
		c.TypeName == o.TypeName &&
		c.Length == o.Length &&
		c.Precision == o.Precision &&
		c.Scale == o.Scale
}

// TimestampPrecision returns the fractional second precision declared in
// TypeName, if any.
func (c ColumnDefinition) TimestampPrecision() (int, bool) {
	if c.Type != Timestamp {
		return 0, false
	}
	open := strings.Index(c.TypeName, "(")
	closing := strings.Index(c.TypeName, ")")
	if open < 0 || closing < open {
		return 0, false
	}
	p, err := strconv.Atoi(c.TypeName[open+1 : closing])
	if err != nil {
		return 0, false
	}
	return p, true
}

// TableSchema lists columns in physical order. That order drives the
// positional INSERT.
type TableSchema []ColumnDefinition

func (s TableSchema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

func (s TableSchema) Equal(o TableSchema) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

type IndexDefinition struct {
	Name       string
	OwnerTable string
	Columns    []string // key order
	IsUnique   bool
	Tablespace null.String
}
