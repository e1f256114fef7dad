package dialect

import (
	"fmt"
	"strings"
)

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// defaultInsertQuery renders a positional INSERT; column order is the bind order.
func defaultInsertQuery(table string, cols []string, placeholderFunc func(int) string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(cols, ", "),
		GeneratePlaceholders(len(cols), placeholderFunc))
}

// aliasedCountQuery wraps a query for engines that require a derived-table alias.
func aliasedCountQuery(query string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM (%s) src", query)
}

// baseType strips any "(size)" suffix and upper-cases the type name.
func baseType(sqlType string) string {
	t := strings.ToUpper(strings.TrimSpace(sqlType))
	if i := strings.Index(t, "("); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}
