package cli

import (
	"testing"
	"time"
)

func TestParsePlayedDate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"2024-06-01", "2024-06-01", false},
		{"  2024-06-01 ", "2024-06-01", false},
		{"Jun 01 2024", "2024-06-01", false},
		{"Jun 1 2024", "2024-06-01", false},
		{"Jun 1, 2024", "2024-06-01", false},
		{"06/01/2024", "2024-06-01", false},
		{"6/1/2024", "2024-06-01", false},
		{"06/01/24", "2024-06-01", false},
		{"6.1.24", "2024-06-01", false},
		{"Jun 14", "2025-06-14", false},
		{"Jun 4", "2025-06-04", false},
		{"yesterday", "", true},
		{"2024-13-01", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePlayedDate(tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePlayedDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parsePlayedDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
