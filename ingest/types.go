package ingest

import (
	"strconv"
	"strings"
)

// ColumnType is the SQLite storage class assigned to an imported column.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeInteger
	TypeReal
)

// String returns the SQL type name used in CREATE TABLE statements.
func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// InferColumnType picks the narrowest type that can hold every non-empty
// value in the column without losing information. Empty cells are skipped;
// a column with no non-empty cells stays TEXT.
func InferColumnType(values []string) ColumnType {
	sawValue := false
	allInt := true
	allNum := true

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		sawValue = true

		if allInt && !isIntegerToken(v) {
			allInt = false
		}
		if !isNumericToken(v) {
			allNum = false
			break
		}
	}

	switch {
	case !sawValue:
		return TypeText
	case allNum && allInt:
		return TypeInteger
	case allNum:
		return TypeReal
	default:
		return TypeText
	}
}

// InferColumnTypes runs inference over every column of a row set. Rows
// shorter than numCols contribute empty cells for the missing columns.
func InferColumnTypes(rows [][]string, numCols int) []ColumnType {
	types := make([]ColumnType, numCols)
	column := make([]string, 0, len(rows))
	for i := 0; i < numCols; i++ {
		column = column[:0]
		for _, row := range rows {
			if i < len(row) {
				column = append(column, row[i])
			}
		}
		types[i] = InferColumnType(column)
	}
	return types
}

// isIntegerToken reports whether v is a plain base-10 integer that fits in
// int64. A leading zero disqualifies it ("02138" must stay text or the zero
// is gone after a round trip); "0" and "-0" are still integers.
func isIntegerToken(v string) bool {
	if !isIntegerShaped(v) {
		return false
	}
	if hasLeadingZeroIntPart(v) {
		return false
	}
	_, err := strconv.ParseInt(v, 10, 64)
	return err == nil
}

// isIntegerShaped reports whether v is an optional sign followed by digits
// only.
func isIntegerShaped(v string) bool {
	s := v
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isNumericToken reports whether v parses as a floating point literal.
// ParseFloat also accepts "NaN" and "Inf" spellings, which are words in a
// CSV, so the first character has to look numeric. Tokens whose integer
// part carries a leading zero ("02138", "007") are rejected as well: REAL
// storage would shed the zeros just like INTEGER would. The same goes for
// integer tokens too large for int64: a float stores them approximated, so
// the digits only survive as text.
func isNumericToken(v string) bool {
	c := v[0]
	if c != '+' && c != '-' && c != '.' && (c < '0' || c > '9') {
		return false
	}
	if strings.ContainsAny(v, "xXpP") {
		// hex float literals
		return false
	}
	if hasLeadingZeroIntPart(v) {
		return false
	}
	if isIntegerShaped(v) {
		_, err := strconv.ParseInt(v, 10, 64)
		return err == nil
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

// hasLeadingZeroIntPart reports whether the digits before any decimal point
// or exponent start with a superfluous zero. "0", "-0" and "0.5" are fine;
// "02138" and "007.5" are not.
func hasLeadingZeroIntPart(v string) bool {
	s := v
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	end := len(s)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == 'e' || s[i] == 'E' {
			end = i
			break
		}
	}
	intPart := s[:end]
	return len(intPart) > 1 && intPart[0] == '0'
}

// CoerceValue converts a raw cell into the Go value bound for a column of
// the given type. An empty cell becomes NULL; text cells are otherwise
// stored exactly as read, so a whitespace-only cell stays whitespace.
func CoerceValue(raw string, t ColumnType) (interface{}, error) {
	if t == TypeText {
		if raw == "" {
			return nil, nil
		}
		return raw, nil
	}

	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}
	if t == TypeInteger {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}
