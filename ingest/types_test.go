package ingest

import (
	"testing"
)

func TestInferColumnType(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   ColumnType
	}{
		{
			name:   "AllIntegers",
			values: []string{"1", "42", "-7", "+13", "0"},
			want:   TypeInteger,
		},
		{
			name:   "AllReals",
			values: []string{"1.5", "0.21", "-3.25"},
			want:   TypeReal,
		},
		{
			name:   "MixedIntAndReal",
			values: []string{"1", "2.5", "3"},
			want:   TypeReal,
		},
		{
			name:   "Exponent",
			values: []string{"1e3", "2.5e-2"},
			want:   TypeReal,
		},
		{
			name:   "Alphanumeric",
			values: []string{"1", "two", "3"},
			want:   TypeText,
		},
		{
			name:   "EmptiesIgnored",
			values: []string{"", "7", "", "9"},
			want:   TypeInteger,
		},
		{
			name:   "AllEmpty",
			values: []string{"", "", ""},
			want:   TypeText,
		},
		{
			name:   "NoValues",
			values: nil,
			want:   TypeText,
		},
		{
			name:   "LeadingZeroZip",
			values: []string{"02138", "10001"},
			want:   TypeText,
		},
		{
			name:   "LeadingZeroReal",
			values: []string{"007.5", "1.5"},
			want:   TypeText,
		},
		{
			name:   "ZeroIsInteger",
			values: []string{"0", "10"},
			want:   TypeInteger,
		},
		{
			name:   "ZeroPointFiveIsReal",
			values: []string{"0.5", "0.25"},
			want:   TypeReal,
		},
		{
			name:   "NaNIsText",
			values: []string{"NaN", "1.5"},
			want:   TypeText,
		},
		{
			name:   "Int64OverflowIsText",
			values: []string{"99999999999999999999999999"},
			want:   TypeText,
		},
		{
			name:   "Int64OverflowMixedIsText",
			values: []string{"1", "99999999999999999999999999"},
			want:   TypeText,
		},
		{
			name:   "NegativeInt64OverflowIsText",
			values: []string{"-99999999999999999999999999"},
			want:   TypeText,
		},
		{
			name:   "WhitespaceTrimmed",
			values: []string{" 12 ", "\t34"},
			want:   TypeInteger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferColumnType(tt.values)
			if got != tt.want {
				t.Errorf("InferColumnType(%v) = %s, want %s", tt.values, got, tt.want)
			}
		})
	}
}

func TestInferColumnTypes(t *testing.T) {
	rows := [][]string{
		{"John Doe", "25", "50000.50"},
		{"Jane Smith", "30", "60000"},
		{"Bob", "", "55000.25"},
	}
	got := InferColumnTypes(rows, 3)
	want := []ColumnType{TypeText, TypeInteger, TypeReal}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestInferColumnTypesShortRows(t *testing.T) {
	rows := [][]string{
		{"1"},
		{"2", "3.5"},
	}
	got := InferColumnTypes(rows, 2)
	if got[0] != TypeInteger {
		t.Errorf("column 0 = %s, want INTEGER", got[0])
	}
	if got[1] != TypeReal {
		t.Errorf("column 1 = %s, want REAL", got[1])
	}
}

func TestColumnTypeString(t *testing.T) {
	if TypeInteger.String() != "INTEGER" || TypeReal.String() != "REAL" || TypeText.String() != "TEXT" {
		t.Errorf("unexpected SQL type names: %s %s %s", TypeInteger, TypeReal, TypeText)
	}
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		typ     ColumnType
		want    interface{}
		wantErr bool
	}{
		{name: "EmptyIsNull", raw: "", typ: TypeInteger, want: nil},
		{name: "EmptyTextIsNull", raw: "", typ: TypeText, want: nil},
		{name: "WhitespaceTextIsKept", raw: "  ", typ: TypeText, want: "  "},
		{name: "WhitespaceNumericIsNull", raw: "  ", typ: TypeInteger, want: nil},
		{name: "Integer", raw: "42", typ: TypeInteger, want: int64(42)},
		{name: "Real", raw: "0.21", typ: TypeReal, want: 0.21},
		{name: "IntegerIntoReal", raw: "3", typ: TypeReal, want: 3.0},
		{name: "Text", raw: "Adult obesity", typ: TypeText, want: "Adult obesity"},
		{name: "BadInteger", raw: "abc", typ: TypeInteger, wantErr: true},
		{name: "BadReal", raw: "1.2.3", typ: TypeReal, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceValue(tt.raw, tt.typ)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("CoerceValue(%q, %s) expected error, got %v", tt.raw, tt.typ, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("CoerceValue(%q, %s) failed: %v", tt.raw, tt.typ, err)
			}
			if got != tt.want {
				t.Errorf("CoerceValue(%q, %s) = %v, want %v", tt.raw, tt.typ, got, tt.want)
			}
		})
	}
}
