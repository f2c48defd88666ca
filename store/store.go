// Package store owns the embedded SQLite handle and answers schema
// questions: which tables exist, what columns they carry, and which measure
// names the health-rankings table currently knows.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// The two tables the query path depends on, with the columns the join
// touches. Imports create the full CSV schema; these are just the
// load-bearing columns.
const (
	ZipCountyTable      = "zip_county"
	HealthRankingsTable = "county_health_rankings"
)

var requiredColumns = map[string][]string{
	ZipCountyTable:      {"zip", "county_code"},
	HealthRankingsTable: {"fipscode", "measure_name"},
}

// Open opens (or creates) the SQLite database at path. A single connection
// avoids writer lock contention; the busy timeout covers the rest.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000; PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set PRAGMAs: %w", err)
	}
	return db, nil
}

// TableExists reports whether a table of the given name exists.
func TableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return count > 0, nil
}

// TableColumns returns the column names of a table in declaration order.
func TableColumns(ctx context.Context, db *sql.DB, name string) ([]string, error) {
	exists, err := TableExists(ctx, db, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("table %s does not exist", name)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid        int
			colName    string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info of %s: %w", name, err)
		}
		columns = append(columns, colName)
	}
	return columns, rows.Err()
}

// RequireSchema verifies that the zip-to-county and health-rankings tables
// exist and carry the columns the query path joins on. Call it before
// serving lookups; a store populated from the wrong CSVs fails here instead
// of at query time.
func RequireSchema(ctx context.Context, db *sql.DB) error {
	for table, required := range requiredColumns {
		columns, err := TableColumns(ctx, db, table)
		if err != nil {
			return err
		}

		have := make(map[string]bool, len(columns))
		for _, c := range columns {
			have[c] = true
		}
		for _, c := range required {
			if !have[c] {
				return fmt.Errorf("table %s is missing column %s", table, c)
			}
		}
	}
	return nil
}

// MeasureNames returns the distinct measure names present in the
// health-rankings table. The validator checks requests against this live
// set, so repopulating the store changes what is accepted.
func MeasureNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		fmt.Sprintf(`SELECT DISTINCT measure_name FROM %s WHERE measure_name IS NOT NULL ORDER BY measure_name`, HealthRankingsTable),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list measure names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan measure name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Stats summarizes the populated store for the stats endpoint.
type Stats struct {
	TotalZipCodes      int `json:"total_zip_codes"`
	TotalCounties      int `json:"total_counties"`
	TotalHealthRecords int `json:"total_health_records"`
	TotalMeasures      int `json:"total_measures"`
}

// LoadStats computes row and distinct counts over the two core tables.
func LoadStats(ctx context.Context, db *sql.DB) (Stats, error) {
	var s Stats

	queries := []struct {
		dest  *int
		query string
	}{
		{&s.TotalZipCodes, `SELECT COUNT(DISTINCT zip) FROM ` + ZipCountyTable},
		{&s.TotalCounties, `SELECT COUNT(DISTINCT county_code) FROM ` + ZipCountyTable},
		{&s.TotalHealthRecords, `SELECT COUNT(*) FROM ` + HealthRankingsTable},
		{&s.TotalMeasures, `SELECT COUNT(DISTINCT measure_name) FROM ` + HealthRankingsTable},
	}
	for _, q := range queries {
		if err := db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return Stats{}, fmt.Errorf("failed to load stats: %w", err)
		}
	}
	return s, nil
}
