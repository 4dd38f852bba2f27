package hrf

import (
	"reflect"
	"testing"
)

func TestValidateHeaders(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		expected []string
	}{
		{
			name:     "No duplicates",
			headers:  []string{"ts_ch1", "std_ch1"},
			expected: []string{"ts_ch1", "std_ch1"},
		},
		{
			name:     "With duplicates",
			headers:  []string{"ts_ch1", "ts_ch1", "ts_ch1"},
			expected: []string{"ts_ch1", "ts_ch1_1", "ts_ch1_2"},
		},
		{
			name:     "Suffix already taken",
			headers:  []string{"a", "a_1", "a"},
			expected: []string{"a", "a_1", "a_2"},
		},
		{
			name:     "Empty headers",
			headers:  []string{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateHeaders(tt.headers)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("ValidateHeaders() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestNormalizeHeaders(t *testing.T) {
	got := normalizeHeaders([]string{"\ufefftime", " ts_ch1 ", ""})
	want := []string{"time", "ts_ch1", "column_3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeHeaders() = %v, want %v", got, want)
	}
}

func TestIsLikelyHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"Empty string", "", false},
		{"Channel mean", "ts_ch12", true},
		{"Channel std", "std_ch3", true},
		{"Number", "0.000012", false},
		{"Scientific", "-4.5e-05", false},
		{"Only special chars", "###", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isLikelyHeader(tt.input); got != tt.want {
				t.Errorf("isLikelyHeader(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHeaderLooksLikeData(t *testing.T) {
	if !headerLooksLikeData([]string{"1", "2", "3"}) {
		t.Error("numeric row should look like data")
	}
	if headerLooksLikeData([]string{"time", "ts_ch1", "std_ch1"}) {
		t.Error("named row should look like a header")
	}
}
