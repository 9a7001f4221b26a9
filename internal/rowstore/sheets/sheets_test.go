package sheets

import (
	"reflect"
	"testing"
)

// TestCellToString проверяет приведение ячеек Sheets API к строкам.
func TestCellToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"строка", "Jane", "Jane"},
		{"целое число", float64(42), "42"},
		{"дробное число", 1.5, "1.5"},
		{"bool", true, "true"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellToString(tt.in); got != tt.want {
				t.Errorf("cellToString(%v) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestCellsToStrings проверяет преобразование строки значений целиком.
func TestCellsToStrings(t *testing.T) {
	got := cellsToStrings([]any{"1", float64(555), "Jane", nil})
	want := []string{"1", "555", "Jane", ""}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("cellsToStrings = %v, ожидалось %v", got, want)
	}
}

// TestRowRange проверяет построение диапазона одной строки (13 столбцов A..M).
func TestRowRange(t *testing.T) {
	if got := rowRange("CallLog", 7); got != "CallLog!A7:M7" {
		t.Errorf("rowRange = %q, ожидалось %q", got, "CallLog!A7:M7")
	}
}

// TestClientOptions_MissingCredentials проверяет ошибку при пустых учётных данных.
func TestClientOptions_MissingCredentials(t *testing.T) {
	_, err := clientOptions(t.Context(), Credentials{})
	if err == nil {
		t.Fatal("ожидалась ошибка при отсутствии учётных данных")
	}
}
