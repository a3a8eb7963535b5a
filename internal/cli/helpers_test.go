package cli

import "testing"

// TestParseSetArg covers the WEIGHTxREPS argument format and its limits.
func TestParseSetArg(t *testing.T) {
	tests := []struct {
		in      string
		weight  float64
		reps    int
		wantErr bool
	}{
		{"100x5", 100, 5, false},
		{"62.5x8", 62.5, 8, false},
		{" 80X3 ", 80, 3, false},
		{"100", 0, 0, true},
		{"ax5", 0, 0, true},
		{"100xb", 0, 0, true},
		{"100.3x5", 0, 0, true}, // off the half-kilo grid
		{"0x5", 0, 0, true},
		{"100x0", 0, 0, true},
		{"100x51", 0, 0, true},
	}
	for _, tt := range tests {
		weight, reps, err := parseSetArg(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseSetArg(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSetArg(%q): %v", tt.in, err)
			continue
		}
		if weight != tt.weight || reps != tt.reps {
			t.Errorf("parseSetArg(%q) = %.1f, %d, want %.1f, %d", tt.in, weight, reps, tt.weight, tt.reps)
		}
	}
}

// TestParseID rejects non-numeric and non-positive identifiers.
func TestParseID(t *testing.T) {
	if id, err := parseID("goal id", " 42 "); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "abc", "0", "-7", "1.5"} {
		if _, err := parseID("goal id", bad); err == nil {
			t.Errorf("parseID(%q) expected error", bad)
		}
	}
}
