package seed

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"table-migrator/internal/dbconn"
	"table-migrator/internal/schema"
)

// Generator produces plausible values for a column from its type and the
// meaning of its name. The same seed yields the same rows.
type Generator struct {
	faker *gofakeit.Faker
	now   time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed), now: time.Now()}
}

// Row builds one row in schema order. seq numbers the row and feeds id columns.
func (g *Generator) Row(s schema.TableSchema, seq int64) dbconn.Row {
	row := make(dbconn.Row, len(s))
	for i, col := range s {
		row[i] = g.Value(col, seq)
	}
	return row
}

func (g *Generator) Value(col schema.ColumnDefinition, seq int64) any {
	meaning := Meaning(col.Name)

	switch col.Type {
	case schema.Numeric:
		return g.number(col, meaning, seq)
	case schema.VarChar, schema.FixedChar:
		return truncate(g.text(meaning, col.Length.ValueOrZero(), seq), col.Length.ValueOrZero())
	case schema.Clob, schema.LongText:
		return g.faker.Sentence(20)
	case schema.Date, schema.Timestamp:
		return g.faker.DateRange(g.now.AddDate(-1, 0, 0), g.now)
	case schema.Blob, schema.RawBinary:
		n := col.Length.ValueOrZero()
		if n <= 0 || n > 16 {
			n = 16
		}
		return []byte(g.faker.LetterN(uint(n)))
	default:
		if col.Nullable {
			return nil
		}
		return truncate(g.faker.Word(), col.Length.ValueOrZero())
	}
}

func (g *Generator) number(col schema.ColumnDefinition, meaning string, seq int64) any {
	if meaning == MeaningID {
		return seq
	}
	if meaning == MeaningYesNo {
		return int64(g.faker.Number(0, 1))
	}
	if meaning == MeaningYear {
		return int64(g.faker.Number(2000, g.now.Year()))
	}

	precision := col.Precision.ValueOrZero()
	scale := col.Scale.ValueOrZero()
	if scale > 0 {
		digits := precision - scale
		if digits <= 0 || digits > 6 {
			digits = 6
		}
		upper := math.Pow10(int(digits)) - 1
		v := g.faker.Float64Range(0, upper)
		unit := math.Pow10(int(scale))
		return math.Round(v*unit) / unit
	}

	maxVal := 50000
	if precision > 0 && precision < 5 {
		maxVal = int(math.Pow10(int(precision))) - 1
	}
	return int64(g.faker.Number(1, maxVal))
}

func (g *Generator) text(meaning string, length, seq int64) string {
	switch meaning {
	case MeaningID:
		return fmt.Sprintf("%d", seq)
	case MeaningEmail:
		return g.faker.Email()
	case MeaningPhone:
		return g.faker.Phone()
	case MeaningName:
		if length > 0 && length < 4 {
			return strings.ToUpper(g.faker.LetterN(uint(length)))
		}
		return g.faker.Name()
	case MeaningAddress:
		return g.faker.Street()
	case MeaningZipcode:
		return g.faker.Zip()
	case MeaningCity:
		return g.faker.City()
	case MeaningCountry:
		return g.faker.Country()
	case MeaningYesNo:
		if g.faker.Bool() {
			return "Y"
		}
		return "N"
	case MeaningYear:
		return fmt.Sprintf("%d", g.faker.Number(2000, g.now.Year()))
	case MeaningTitle:
		return g.faker.Sentence(3)
	case MeaningDescription:
		return g.faker.Sentence(10)
	case MeaningCode:
		return strings.ToUpper(g.faker.LetterN(3))
	}

	if length > 0 && length < 20 {
		return g.faker.Word()
	}
	return g.faker.Sentence(5)
}

func truncate(s string, limit int64) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if int64(len(runes)) > limit {
		return string(runes[:limit])
	}
	return s
}
