package ingest

import (
	"strings"
	"testing"
)

func TestCSVDelimiterDetection(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected rune
		cols     int
	}{
		{
			name:     "Comma",
			content:  "col1,col2,col3\nval1,val2,val3",
			expected: ',',
			cols:     3,
		},
		{
			name:     "Tab",
			content:  "col1\tcol2\tcol3\nval1\tval2\tval3",
			expected: '\t',
			cols:     3,
		},
		{
			name:     "Pipe",
			content:  "col1|col2|col3\nval1|val2|val3",
			expected: '|',
			cols:     3,
		},
		{
			name:     "Semicolon",
			content:  "col1;col2;col3\nval1;val2;val3",
			expected: ';',
			cols:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewCSVSource("test.csv", strings.NewReader(tt.content))
			if err != nil {
				t.Fatalf("Failed to create source: %v", err)
			}

			if src.Delimiter != tt.expected {
				t.Errorf("Detected delimiter %q, want %q", src.Delimiter, tt.expected)
			}
			if len(src.Header()) != tt.cols {
				t.Errorf("Detected %d headers, want %d", len(src.Header()), tt.cols)
			}
		})
	}
}

func TestCSVSourceReadsAllRows(t *testing.T) {
	content := "Name,Age,City\nJohn,25,New York\nJane,30,Boston\n"
	src, err := NewCSVSource("people.csv", strings.NewReader(content))
	if err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}

	wantHeader := []string{"name", "age", "city"}
	for i, h := range wantHeader {
		if src.Header()[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, src.Header()[i], h)
		}
	}

	rows := src.Rows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1][2] != "Boston" {
		t.Errorf("rows[1][2] = %q, want Boston", rows[1][2])
	}
}

func TestCSVSourceRaggedRows(t *testing.T) {
	content := "Name,Age,City\nJohn,25,New York,Extra\nJane,30\n"
	src, err := NewCSVSource("ragged.csv", strings.NewReader(content))
	if err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}

	rows := src.Rows()
	for i, row := range rows {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, want 3", i, len(row))
		}
	}
	if rows[1][2] != "" {
		t.Errorf("short row should be padded with empty cells, got %q", rows[1][2])
	}
}

func TestCSVSourceQuotedFields(t *testing.T) {
	content := "ID,Name,Notes\n1,\"Test & Co\",\"Quoted, comma\"\n2,Smith's Store,Contains 'quotes'\n"
	src, err := NewCSVSource("special.csv", strings.NewReader(content))
	if err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}

	rows := src.Rows()
	if rows[0][2] != "Quoted, comma" {
		t.Errorf("quoted field = %q, want %q", rows[0][2], "Quoted, comma")
	}
	if rows[1][1] != "Smith's Store" {
		t.Errorf("field with apostrophe = %q, want %q", rows[1][1], "Smith's Store")
	}
}

func TestCSVSourceEmptyInput(t *testing.T) {
	_, err := NewCSVSource("empty.csv", strings.NewReader(""))
	if err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestCSVSourceHeaderOnly(t *testing.T) {
	src, err := NewCSVSource("header_only.csv", strings.NewReader("Name,Age,City\n"))
	if err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}
	if len(src.Rows()) != 0 {
		t.Errorf("got %d rows, want 0", len(src.Rows()))
	}
}

func TestCSVSourceFixedDelimiter(t *testing.T) {
	content := "a;b\n1;2\n"
	src, err := NewCSVSourceWithDelimiter("fixed.csv", strings.NewReader(content), ';')
	if err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}
	if len(src.Header()) != 2 {
		t.Errorf("got %d headers, want 2", len(src.Header()))
	}
}
