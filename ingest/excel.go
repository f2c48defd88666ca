package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelSource is one sheet of a workbook. A single-sheet workbook maps to
// the workbook's own name; with multiple sheets each table is named
// <workbook>_<sheet>.
type ExcelSource struct {
	name   string
	header []string
	rows   [][]string
}

var _ Source = (*ExcelSource)(nil)

// NewExcelSources reads every sheet of a workbook into a source. Sheets
// without a header row are skipped.
func NewExcelSources(name string, r io.Reader) ([]Source, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in %s", name)
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))

	var sources []Source
	for _, sheetName := range sheets {
		sourceName := name
		if len(sheets) > 1 {
			sourceName = base + "_" + sheetName
		}

		src, err := readSheet(f, sheetName, sourceName)
		if err != nil {
			return nil, err
		}
		if src != nil {
			sources = append(sources, src)
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no sheet in %s has a header row", name)
	}
	return sources, nil
}

func readSheet(f *excelize.File, sheetName, sourceName string) (*ExcelSource, error) {
	iter, err := f.Rows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate sheet %s: %w", sheetName, err)
	}
	defer iter.Close()

	if !iter.Next() {
		return nil, nil // empty sheet
	}
	rawHeader, err := iter.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of sheet %s: %w", sheetName, err)
	}
	if len(rawHeader) == 0 {
		return nil, nil
	}
	header := ColumnNames(rawHeader)

	var rows [][]string
	for iter.Next() {
		cols, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d of sheet %s: %w", len(rows)+2, sheetName, err)
		}
		rows = append(rows, padRow(cols, len(header)))
	}

	return &ExcelSource{
		name:   sourceName,
		header: header,
		rows:   rows,
	}, nil
}

// Name implements Source.
func (e *ExcelSource) Name() string { return e.name }

// Header implements Source.
func (e *ExcelSource) Header() []string { return e.header }

// Rows implements Source.
func (e *ExcelSource) Rows() [][]string { return e.rows }
