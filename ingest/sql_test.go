package ingest

import (
	"strings"
	"testing"
)

func TestCreateTableSQL(t *testing.T) {
	got := CreateTableSQL("zip_county",
		[]string{"zip", "county", "county_code"},
		[]ColumnType{TypeText, TypeText, TypeInteger},
	)
	want := "CREATE TABLE zip_county (zip TEXT, county TEXT, county_code INTEGER)"
	if got != want {
		t.Errorf("CreateTableSQL = %q, want %q", got, want)
	}
}

func TestInsertSQL(t *testing.T) {
	got, err := InsertSQL("zip_county", []string{"zip", "county"})
	if err != nil {
		t.Fatalf("InsertSQL failed: %v", err)
	}
	want := "INSERT INTO zip_county (zip, county) VALUES (?, ?)"
	if got != want {
		t.Errorf("InsertSQL = %q, want %q", got, want)
	}

	if strings.Count(got, "?") != 2 {
		t.Errorf("expected 2 placeholders, got %d", strings.Count(got, "?"))
	}
}

func TestInsertSQLRequiresColumns(t *testing.T) {
	if _, err := InsertSQL("t", nil); err == nil {
		t.Error("expected error for empty column list")
	}
	if _, err := InsertSQL("", []string{"a"}); err == nil {
		t.Error("expected error for empty table name")
	}
}

func TestDropTableSQL(t *testing.T) {
	if got := DropTableSQL("zip_county"); got != "DROP TABLE IF EXISTS zip_county" {
		t.Errorf("DropTableSQL = %q", got)
	}
}
