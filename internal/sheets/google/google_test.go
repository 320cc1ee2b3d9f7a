package google

import "testing"

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		name string
		base string
		year int
		want string
	}{
		{"plain base", "Forecast", 2025, "2025 Forecast"},
		{"already prefixed", "2024 Forecast", 2025, "2024 Forecast"},
		{"empty", "", 2025, ""},
		{"whitespace trimmed", "  Forecast  ", 2025, "2025 Forecast"},
		{"short base", "Fc", 2025, "2025 Fc"},
		{"numeric but not year", "1234x Forecast", 2025, "2025 1234x Forecast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
				t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
			}
		})
	}
}
