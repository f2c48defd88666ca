package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const columnPrefix = "col"

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	disallowed = regexp.MustCompile(`[^a-zA-Z0-9 _]+`)
)

// NamingError reports a source identifier that cannot be turned into a
// usable table name.
type NamingError struct {
	Source string
	Reason string
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("cannot derive table name from %q: %s", e.Source, e.Reason)
}

// sanitizeIdentifier applies the shared normalization: trim, strip
// disallowed characters, collapse whitespace to underscores, lowercase.
func sanitizeIdentifier(raw string) string {
	s := strings.TrimSpace(raw)
	s = disallowed.ReplaceAllString(s, "")
	s = spaceRun.ReplaceAllString(s, "_")
	return strings.ToLower(s)
}

// TableNameFor derives the table name for a source identifier. The source
// may be a bare name or a file path; any extension is dropped first. A name
// that sanitizes to nothing, starts with a digit after sanitizing, or lands
// on a SQLite keyword is a NamingError rather than silently renamed.
func TableNameFor(source string) (string, error) {
	base := filepath.Base(source)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}

	name := sanitizeIdentifier(base)
	if name == "" {
		return "", &NamingError{Source: source, Reason: "empty after normalization"}
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "", &NamingError{Source: source, Reason: "starts with a digit"}
	}
	if isKeyword(name) {
		return "", &NamingError{Source: source, Reason: "reserved SQLite keyword"}
	}
	return name, nil
}

// ColumnNames sanitizes raw header cells into usable column names, in
// header order. Unlike table names, junk headers are recoverable: an empty
// or reserved result falls back to col<idx>, a digit prefix gets the same
// treatment, and duplicates pick up a collision counter.
func ColumnNames(rawHeaders []string) []string {
	names := make([]string, len(rawHeaders))
	counter := map[string]int{}

	for idx, raw := range rawHeaders {
		name := sanitizeIdentifier(raw)
		if isKeyword(name) {
			name = fmt.Sprintf("%s%d", columnPrefix, idx)
		}
		if name == "" {
			names[idx] = fmt.Sprintf("%s%d", columnPrefix, idx)
			continue
		}
		if name[0] >= '0' && name[0] <= '9' {
			name = fmt.Sprintf("%s%d_%s", columnPrefix, idx, name)
		}

		counter[name]++
		if counter[name] == 1 {
			names[idx] = name
			continue
		}

		// A suffixed candidate can itself collide with a literal header
		// ("a", "a2", "a"), so keep bumping until the name is free.
		candidate := fmt.Sprintf("%s%d", name, counter[name])
		for counter[candidate] > 0 {
			counter[name]++
			candidate = fmt.Sprintf("%s%d", name, counter[name])
		}
		counter[candidate]++
		names[idx] = candidate
	}
	return names
}

func isKeyword(name string) bool {
	_, ok := sqliteKeywords[name]
	return ok
}

// sqliteKeywords is the keyword set recognized by SQLite, lowercased.
// Identifiers matching one of these would need quoting everywhere, so the
// sanitizer routes around them instead.
// https://sqlite.org/lang_keywords.html
var sqliteKeywords = func() map[string]struct{} {
	words := []string{
		"abort", "action", "add", "after", "all", "alter", "always", "analyze", "and", "as",
		"asc", "attach", "autoincrement", "before", "begin", "between", "by", "cascade", "case", "cast",
		"check", "collate", "column", "commit", "conflict", "constraint", "create", "cross", "current", "current_date",
		"current_time", "current_timestamp", "database", "default", "deferrable", "deferred", "delete", "desc", "detach", "distinct",
		"do", "drop", "each", "else", "end", "escape", "except", "exclude", "exclusive", "exists",
		"explain", "fail", "filter", "first", "following", "for", "foreign", "from", "full", "generated",
		"glob", "group", "groups", "having", "if", "ignore", "immediate", "in", "index", "indexed",
		"initially", "inner", "insert", "instead", "intersect", "into", "is", "isnull", "join", "key",
		"last", "left", "like", "limit", "match", "materialized", "natural", "no", "not", "nothing",
		"notnull", "null", "nulls", "of", "offset", "on", "or", "order", "others", "outer",
		"over", "partition", "plan", "pragma", "preceding", "primary", "query", "raise", "range", "recursive",
		"references", "regexp", "reindex", "release", "rename", "replace", "restrict", "returning", "right", "rollback",
		"row", "rows", "savepoint", "select", "set", "table", "temp", "temporary", "then", "ties",
		"to", "transaction", "trigger", "unbounded", "union", "unique", "update", "using", "vacuum", "values",
		"view", "virtual", "when", "where", "window", "with", "without",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
