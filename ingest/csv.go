package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVSource reads a delimited text stream with a header row. The delimiter
// is detected from the first line unless set explicitly.
type CSVSource struct {
	name      string
	header    []string
	rows      [][]string
	Delimiter rune
}

var _ Source = (*CSVSource)(nil)

// NewCSVSource reads the whole stream up front: header first, then every
// data row, padded or truncated to the header width.
func NewCSVSource(name string, r io.Reader) (*CSVSource, error) {
	return newCSVSource(name, r, 0)
}

// NewCSVSourceWithDelimiter is NewCSVSource with a fixed delimiter instead
// of detection.
func NewCSVSourceWithDelimiter(name string, r io.Reader, delimiter rune) (*CSVSource, error) {
	return newCSVSource(name, r, delimiter)
}

func newCSVSource(name string, r io.Reader, delimiter rune) (*CSVSource, error) {
	br := bufio.NewReaderSize(r, 65536)

	if delimiter == 0 {
		peekBytes, _ := br.Peek(2048)
		sample := string(peekBytes)
		if idx := strings.IndexAny(sample, "\r\n"); idx != -1 {
			sample = sample[:idx]
		}
		delimiter = DetectDelimiter(sample)
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	rawHeader, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("source %s is empty", name)
		}
		return nil, fmt.Errorf("failed to read header from %s: %w", name, err)
	}
	header := ColumnNames(rawHeader)

	var rows [][]string
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read row %d from %s: %w", len(rows)+2, name, err)
		}
		rows = append(rows, padRow(row, len(header)))
	}

	return &CSVSource{
		name:      name,
		header:    header,
		rows:      rows,
		Delimiter: delimiter,
	}, nil
}

// Name implements Source.
func (c *CSVSource) Name() string { return c.name }

// Header implements Source.
func (c *CSVSource) Header() []string { return c.header }

// Rows implements Source.
func (c *CSVSource) Rows() [][]string { return c.rows }
