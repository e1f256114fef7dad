package seed

import "strings"

// Column meanings recognised by the generator.
const (
	MeaningNone        = ""
	MeaningID          = "id"
	MeaningName        = "name"
	MeaningEmail       = "email"
	MeaningPhone       = "phone"
	MeaningAddress     = "address"
	MeaningZipcode     = "zipcode"
	MeaningCity        = "city"
	MeaningCountry     = "country"
	MeaningYesNo       = "yesno"
	MeaningYear        = "year"
	MeaningTitle       = "title"
	MeaningDescription = "description"
	MeaningPrice       = "price"
	MeaningCount       = "count"
	MeaningCode        = "code"
)

var abbreviations = map[string]string{
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "hp": "phone", "ph": "phone", "mobile": "phone",
	"zip": "zipcode", "post": "zipcode", "postal": "zipcode",
	"msg": "message", "txt": "text", "tit": "title", "subj": "subject",
	"usr": "user", "emp": "employee", "dept": "department", "cat": "category",
	"yn": "yesno", "is": "yesno", "use": "yesno", "flg": "flag", "active": "yesno",
	"stat": "status", "sts": "status", "typ": "type",
	"mid": "id", "uid": "id", "pid": "id", "seq": "id",
	"yr": "year",
}

// keywords are checked in order against the decoded column name.
var keywords = []struct {
	word    string
	meaning string
}{
	{"email", MeaningEmail},
	{"mail", MeaningEmail},
	{"phone", MeaningPhone},
	{"fax", MeaningPhone},
	{"zipcode", MeaningZipcode},
	{"address", MeaningAddress},
	{"street", MeaningAddress},
	{"city", MeaningCity},
	{"country", MeaningCountry},
	{"yesno", MeaningYesNo},
	{"flag", MeaningYesNo},
	{"year", MeaningYear},
	{"title", MeaningTitle},
	{"subject", MeaningTitle},
	{"description", MeaningDescription},
	{"comment", MeaningDescription},
	{"message", MeaningDescription},
	{"text", MeaningDescription},
	{"price", MeaningPrice},
	{"amount", MeaningPrice},
	{"cost", MeaningPrice},
	{"salary", MeaningPrice},
	{"count", MeaningCount},
	{"quantity", MeaningCount},
	{"code", MeaningCode},
	{"name", MeaningName},
	{"first", MeaningName},
	{"last", MeaningName},
}

// Decode expands the abbreviations in a snake_case column name:
// "EMP_TEL_NO" becomes "employee phone number".
func Decode(colName string) string {
	parts := strings.Split(strings.ToLower(colName), "_")
	for i, p := range parts {
		if full, ok := abbreviations[p]; ok {
			parts[i] = full
		}
	}
	return strings.Join(parts, " ")
}

// Meaning guesses what a column holds from its name.
func Meaning(colName string) string {
	decoded := Decode(colName)
	words := strings.Fields(decoded)
	if len(words) > 0 && words[len(words)-1] == "id" {
		return MeaningID
	}
	for _, k := range keywords {
		if strings.Contains(decoded, k.word) {
			return k.meaning
		}
	}
	return MeaningNone
}
