package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Source is a tabular input ready for import: a name the table name derives
// from, a sanitized header, and the full row set. Rows are fully materialized
// so type inference can see every value before the first insert.
type Source interface {
	Name() string
	Header() []string
	Rows() [][]string
}

// OpenSource builds the sources contained in a file, dispatching on the
// extension. Delimited text yields exactly one source; an Excel workbook
// yields one per sheet.
func OpenSource(path string, r io.Reader) ([]Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		src, err := NewCSVSource(path, r)
		if err != nil {
			return nil, err
		}
		return []Source{src}, nil
	case ".xlsx", ".xls":
		return NewExcelSources(path, r)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", filepath.Ext(path))
	}
}

// DetectDelimiter picks the delimiter that splits a sample line into the
// most fields. Defaults to comma.
func DetectDelimiter(line string) rune {
	if line == "" {
		return ','
	}

	delimiters := []rune{',', '\t', ';', '|'}
	maxCount := -1
	winner := ','

	for _, delim := range delimiters {
		count := strings.Count(line, string(delim))
		if count > maxCount {
			maxCount = count
			winner = delim
		}
	}

	return winner
}

// padRow pads or truncates a row to the target length.
func padRow(row []string, targetLen int) []string {
	if len(row) < targetLen {
		row = append(row, make([]string, targetLen-len(row))...)
	} else if len(row) > targetLen {
		row = row[:targetLen]
	}
	return row
}
