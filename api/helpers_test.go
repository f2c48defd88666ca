package api_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/countyhealth/countyd/ingest"
	"github.com/countyhealth/countyd/store"
)

// Fixtures mirror the real data's shape: ZIP codes keep leading zeros, the
// join runs over county_code = fipscode, and one ZIP's county has rows for
// two measures.
const zipCountyCSV = "zip,default_state,county,state_abbreviation,county_code\n" +
	"02138,MA,Middlesex County,MA,25017\n" +
	"02139,MA,Middlesex County,MA,25017\n" +
	"10001,NY,New York County,NY,36061\n"

const rankingsCSV = "state,county,state_code,county_code,year_span,measure_name,numerator,denominator,raw_value,data_release_year,fipscode\n" +
	"MA,Middlesex County,25,17,2009,Adult obesity,60771.02,295641.77,0.21,2012,25017\n" +
	"MA,Middlesex County,25,17,2010,Adult obesity,62000,296000,0.22,2013,25017\n" +
	"NY,New York County,36,61,2009,Adult obesity,,,0.18,2012,36061\n" +
	"MA,Middlesex County,25,17,2009,Unemployment,,,0.06,2012,25017\n"

func openPopulated(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	importer := ingest.NewImporter(db, nil)
	for name, content := range map[string]string{
		"zip_county.csv":             zipCountyCSV,
		"county_health_rankings.csv": rankingsCSV,
	} {
		src, err := ingest.NewCSVSource(name, strings.NewReader(content))
		require.NoError(t, err)
		_, err = importer.Import(context.Background(), src)
		require.NoError(t, err)
	}

	require.NoError(t, store.RequireSchema(context.Background(), db))
	return db
}

func rowCount(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))
	return count
}
