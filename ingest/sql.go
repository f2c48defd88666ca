package ingest

import (
	"fmt"
	"strings"
)

// CreateTableSQL builds the CREATE TABLE statement for a set of sanitized
// column names and their inferred types. Every column is nullable.
func CreateTableSQL(tableName string, columns []string, types []ColumnType) string {
	var b strings.Builder
	b.Grow(len(tableName) + len(columns)*24)

	b.WriteString("CREATE TABLE ")
	b.WriteString(tableName)
	b.WriteString(" (")
	for i, name := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteByte(' ')
		b.WriteString(types[i].String())
	}
	b.WriteByte(')')
	return b.String()
}

// DropTableSQL builds the statement that clears a previous import of the
// same source.
func DropTableSQL(tableName string) string {
	return "DROP TABLE IF EXISTS " + tableName
}

// InsertSQL builds a parameterized INSERT for the given columns. Values are
// always bound through placeholders, never spliced into the statement.
func InsertSQL(tableName string, columns []string) (string, error) {
	if tableName == "" || len(columns) == 0 {
		return "", fmt.Errorf("table name and columns are required")
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		tableName,
		strings.Join(columns, ", "),
		strings.Repeat("?, ", len(columns)-1)+"?",
	), nil
}
