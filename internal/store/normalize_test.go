package store

import "testing"

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jiří", "Jiri"},
		{"Průša", "Prusa"},
		{"Ana", "Ana"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := RemoveDiacritics(tt.input); got != tt.expected {
			t.Errorf("RemoveDiacritics(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jiří Novák", "jiri novak"},
		{"  Ana   Kovac  ", "ana kovac"},
		{"BO CHEN", "bo chen"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.input); got != tt.expected {
			t.Errorf("NormalizeName(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
