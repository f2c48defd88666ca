package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/countyhealth/countyd/store"
)

// ErrZipNotFound marks a well-formed ZIP with no row in the zip-to-county
// table. Distinct from a known ZIP with no data for a measure, which is a
// successful empty result.
var ErrZipNotFound = errors.New("zip not found")

// countyDataSQL joins health rankings to the counties a ZIP maps to. A ZIP
// mapping to several counties returns the rankings for all of them. Both
// filters are bound parameters.
var countyDataSQL = fmt.Sprintf(`
SELECT chr.*
FROM %s AS chr
JOIN %s AS zc ON zc.county_code = chr.fipscode
WHERE zc.zip = ? AND chr.measure_name = ?`,
	store.HealthRankingsTable, store.ZipCountyTable)

// QueryEngine runs read-only lookups against the populated store.
type QueryEngine struct {
	DB *sql.DB
}

// CountyData returns every health-ranking row for the counties associated
// with zip, filtered to the given measure. Row order is whatever the join
// produces for the current store state.
func (q *QueryEngine) CountyData(ctx context.Context, zip, measure string) ([]map[string]interface{}, error) {
	var known int
	err := q.DB.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE zip = ?`, store.ZipCountyTable), zip,
	).Scan(&known)
	if err != nil {
		return nil, fmt.Errorf("failed to look up zip: %w", err)
	}
	if known == 0 {
		return nil, ErrZipNotFound
	}

	rows, err := q.DB.QueryContext(ctx, countyDataSQL, zip, measure)
	if err != nil {
		return nil, fmt.Errorf("county data query failed: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// searchSQL matches counties by name or state abbreviation. The term is a
// bound parameter wrapped in LIKE wildcards, never spliced in.
var searchSQL = fmt.Sprintf(`
SELECT DISTINCT county, state_abbreviation, county_code
FROM %s
WHERE county LIKE ? OR state_abbreviation LIKE ?
ORDER BY county`, store.ZipCountyTable)

// Search returns the distinct counties whose name or state abbreviation
// contains term.
func (q *QueryEngine) Search(ctx context.Context, term string) ([]map[string]interface{}, error) {
	pattern := "%" + term + "%"
	rows, err := q.DB.QueryContext(ctx, searchSQL, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Pagination bounds for the rankings listing.
const (
	defaultPerPage = 20
	maxPerPage     = 50
)

// RankingsPage selects one page of the health-rankings listing. County and
// State are exact-match filters; empty means unfiltered. Page and PerPage
// are clamped into range, with PerPage capped at 50.
type RankingsPage struct {
	County  string
	State   string
	Page    int
	PerPage int
}

func (p *RankingsPage) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
}

// HealthRankings returns one page of health-ranking rows plus the total row
// count under the same filters.
func (q *QueryEngine) HealthRankings(ctx context.Context, page RankingsPage) ([]map[string]interface{}, int, error) {
	page.normalize()

	where := ""
	var conds []string
	var args []interface{}
	if page.County != "" {
		conds = append(conds, "county = ?")
		args = append(args, page.County)
	}
	if page.State != "" {
		conds = append(conds, "state = ?")
		args = append(args, page.State)
	}
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	err := q.DB.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s%s", store.HealthRankingsTable, where), args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count rankings: %w", err)
	}

	listSQL := fmt.Sprintf("SELECT * FROM %s%s LIMIT ? OFFSET ?", store.HealthRankingsTable, where)
	args = append(args, page.PerPage, (page.Page-1)*page.PerPage)
	rows, err := q.DB.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("rankings listing failed: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// scanRecords reads all rows into column-name keyed records without knowing
// the schema ahead of time. The CSV headers decide the schema, so the query
// path has to discover columns at scan time.
func scanRecords(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	records := make([]map[string]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		record := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
