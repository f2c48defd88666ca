// Package ingest turns delimited text and Excel sources into typed SQLite
// tables. Column types are inferred from the data, table and column names
// are sanitized into valid identifiers, and every import is a single
// drop-and-replace transaction.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// auditTable records one row per completed import run.
const auditTable = "_import_log"

// ImportError reports a data row that could not be written: a cell that
// fails coercion into its column's inferred type, or a row that does not
// match the header width. Row is the 1-based data row index (the header is
// row 0).
type ImportError struct {
	Source string
	Table  string
	Row    int
	Column string
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import of %s failed at row %d, column %s: %v", e.Source, e.Row, e.Column, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// Summary describes a completed import.
type Summary struct {
	TableName string `json:"table_name"`
	RowCount  int    `json:"row_count"`
}

// Importer writes sources into an SQLite store. The store handle is owned
// by the caller; Importer never closes it.
type Importer struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// NewImporter returns an Importer over the given store handle.
func NewImporter(db *sql.DB, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{DB: db, Logger: logger}
}

// Import replaces the table derived from the source's name with the
// source's current contents. The drop, create, and every insert run in one
// transaction: on any failure the previous table survives untouched.
func (im *Importer) Import(ctx context.Context, src Source) (Summary, error) {
	tableName, err := TableNameFor(src.Name())
	if err != nil {
		return Summary{}, err
	}

	header := src.Header()
	if len(header) == 0 {
		return Summary{}, fmt.Errorf("source %s has no columns", src.Name())
	}
	rows := src.Rows()
	types := InferColumnTypes(rows, len(header))

	insertSQL, err := InsertSQL(tableName, header)
	if err != nil {
		return Summary{}, err
	}

	tx, err := im.DB.BeginTx(ctx, nil)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, DropTableSQL(tableName)); err != nil {
		return Summary{}, fmt.Errorf("failed to drop previous table %s: %w", tableName, err)
	}
	if _, err := tx.ExecContext(ctx, CreateTableSQL(tableName, header, types)); err != nil {
		return Summary{}, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to prepare insert for table %s: %w", tableName, err)
	}
	defer stmt.Close()

	values := make([]interface{}, len(header))
	for rowIdx, row := range rows {
		if len(row) != len(header) {
			col := header[len(header)-1]
			if len(row) < len(header) {
				col = header[len(row)]
			}
			return Summary{}, &ImportError{
				Source: src.Name(),
				Table:  tableName,
				Row:    rowIdx + 1,
				Column: col,
				Err:    fmt.Errorf("row has %d cells, want %d", len(row), len(header)),
			}
		}
		for colIdx := range header {
			v, err := CoerceValue(row[colIdx], types[colIdx])
			if err != nil {
				return Summary{}, &ImportError{
					Source: src.Name(),
					Table:  tableName,
					Row:    rowIdx + 1,
					Column: header[colIdx],
					Err:    err,
				}
			}
			values[colIdx] = v
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return Summary{}, &ImportError{
				Source: src.Name(),
				Table:  tableName,
				Row:    rowIdx + 1,
				Column: header[0],
				Err:    err,
			}
		}
	}

	if err := im.logRun(ctx, tx, src.Name(), tableName, len(rows)); err != nil {
		return Summary{}, err
	}

	if err := tx.Commit(); err != nil {
		return Summary{}, fmt.Errorf("failed to commit import of %s: %w", tableName, err)
	}

	im.Logger.Info("import complete",
		"source", src.Name(),
		"table", tableName,
		"rows", len(rows),
	)
	return Summary{TableName: tableName, RowCount: len(rows)}, nil
}

// logRun appends an audit row for this import inside the same transaction,
// so a rolled-back import leaves no trace.
func (im *Importer) logRun(ctx context.Context, tx *sql.Tx, source, tableName string, rowCount int) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+auditTable+` (
		id TEXT PRIMARY KEY,
		source TEXT,
		table_name TEXT,
		row_count INTEGER,
		imported_at TEXT
	)`)
	if err != nil {
		return fmt.Errorf("failed to create audit table: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO `+auditTable+` (id, source, table_name, row_count, imported_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), source, tableName, rowCount, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record import run: %w", err)
	}
	return nil
}
