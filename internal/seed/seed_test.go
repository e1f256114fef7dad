package seed

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/guregu/null.v4"

	"table-migrator/internal/dbconn/dbconntest"
	"table-migrator/internal/schema"
)

func TestMeaning(t *testing.T) {
	tests := map[string]string{
		"ID":         MeaningID,
		"EMP_ID":     MeaningID,
		"CUST_NM":    MeaningName,
		"EMAIL_ADDR": MeaningEmail,
		"TEL_NO":     MeaningPhone,
		"HOME_ADDR":  MeaningAddress,
		"ZIP_CD":     MeaningZipcode,
		"USE_YN":     MeaningYesNo,
		"BOARD_TIT":  MeaningTitle,
		"ORDER_AMT":  MeaningPrice,
		"STOCK_QTY":  MeaningCount,
		"CREATED":    MeaningNone,
	}
	for col, want := range tests {
		assert.Equal(t, want, Meaning(col), "Meaning(%q)", col)
	}
}

func TestDecode(t *testing.T) {
	assert.Equal(t, "employee phone number", Decode("EMP_TEL_NO"))
}

func TestGenerator_RespectsTypesAndLengths(t *testing.T) {
	g := NewGenerator(42)
	s := schema.TableSchema{
		{Name: "ID", Type: schema.Numeric, TypeName: "NUMBER", Precision: null.IntFrom(10), Scale: null.IntFrom(0)},
		{Name: "CUST_NM", Type: schema.VarChar, TypeName: "VARCHAR2", Length: null.IntFrom(8)},
		{Name: "USE_YN", Type: schema.FixedChar, TypeName: "CHAR", Length: null.IntFrom(1)},
		{Name: "PRICE", Type: schema.Numeric, TypeName: "NUMBER", Precision: null.IntFrom(6), Scale: null.IntFrom(2)},
		{Name: "HIRED_AT", Type: schema.Timestamp, TypeName: "TIMESTAMP(6)"},
		{Name: "TOKEN", Type: schema.RawBinary, TypeName: "RAW", Length: null.IntFrom(8)},
	}

	for seq := int64(1); seq <= 50; seq++ {
		row := g.Row(s, seq)
		require.Len(t, row, len(s))

		assert.Equal(t, seq, row[0])

		name, ok := row[1].(string)
		require.True(t, ok)
		assert.LessOrEqual(t, utf8.RuneCountInString(name), 8)

		assert.Contains(t, []string{"Y", "N"}, row[2])

		price, ok := row[3].(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, price, 0.0)
		assert.Less(t, price, 10000.0)

		_, ok = row[4].(time.Time)
		assert.True(t, ok)

		assert.Len(t, row[5], 8)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	s := schema.TableSchema{{Name: "EMAIL", Type: schema.VarChar, TypeName: "VARCHAR2", Length: null.IntFrom(100)}}
	assert.Equal(t, NewGenerator(7).Row(s, 1), NewGenerator(7).Row(s, 1))
}

func customers() *dbconntest.Table {
	return &dbconntest.Table{Columns: []dbconntest.Column{
		{Name: "ID", Type: "NUMBER", Precision: dbconntest.Int(10), Scale: dbconntest.Int(0)},
		{Name: "CUST_NM", Type: "VARCHAR2", Length: dbconntest.Int(40), Nullable: true},
		{Name: "EMAIL", Type: "VARCHAR2", Length: dbconntest.Int(80), Nullable: true},
	}}
}

func TestSeed_InsertsAndVerifies(t *testing.T) {
	db := dbconntest.New()
	db.Tables["CUSTOMERS"] = customers()
	s := NewSeeder(db, NewGenerator(1), 4, nil, zaptest.NewLogger(t))

	res := s.Seed(context.Background(), "CUSTOMERS", 10)

	require.NoError(t, res.Err)
	assert.True(t, res.OK())
	assert.Equal(t, int64(10), res.Actual)
	assert.Len(t, db.Inserts, 3)
	assert.Equal(t, "INSERT INTO CUSTOMERS (ID, CUST_NM, EMAIL) VALUES (:1, :2, :3)", db.Inserts[0].Stmt)
	assert.Equal(t, int64(1), db.Tables["CUSTOMERS"].Rows[0][0])
	assert.Equal(t, int64(10), db.Tables["CUSTOMERS"].Rows[9][0])
}

func TestSeed_PartialFailure(t *testing.T) {
	db := dbconntest.New()
	db.Tables["CUSTOMERS"] = customers()
	db.FailInsert = func(table string, batch int) error {
		if batch == 2 {
			return errors.New("ORA-00001: unique constraint violated")
		}
		return nil
	}
	s := NewSeeder(db, NewGenerator(1), 5, nil, zaptest.NewLogger(t))

	res := s.Seed(context.Background(), "CUSTOMERS", 10)

	assert.Error(t, res.Err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, int64(5), res.Actual)
}

func TestSeed_MissingTable(t *testing.T) {
	s := NewSeeder(dbconntest.New(), NewGenerator(1), 0, nil, zaptest.NewLogger(t))
	res := s.Seed(context.Background(), "NOPE", 3)
	assert.ErrorIs(t, res.Err, ErrNoColumns)
}

func TestClean(t *testing.T) {
	db := dbconntest.New()
	db.Tables["CUSTOMERS"] = customers()
	db.Tables["CUSTOMERS"].Rows = append(db.Tables["CUSTOMERS"].Rows, []any{int64(1), "a", "b"})
	db.Tables["ORDERS"] = customers()

	cleaned, errs := Clean(context.Background(), db, []string{"CUSTOMERS", "MISSING", "ORDERS"}, zaptest.NewLogger(t))

	assert.Equal(t, 2, cleaned)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "MISSING")
	assert.Equal(t, 0, db.RowCount("CUSTOMERS"))
	assert.Equal(t, []string{"TRUNCATE TABLE ORDERS", "TRUNCATE TABLE MISSING", "TRUNCATE TABLE CUSTOMERS"}, db.Execs)
}
