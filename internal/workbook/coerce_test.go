package workbook

import "testing"

func TestNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"  ", 0},
		{"12", 12},
		{"12.5", 12.5},
		{" 7 ", 7},
		{"abc", 0},
		{"1e3", 1000},
	}
	for _, c := range cases {
		if got := Number(c.in); got != c.want {
			t.Errorf("Number(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCanonicalCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1024", "1024"},
		{"1024.0", "1024"},
		{" 1024.0 ", "1024"},
		{"500", "500"},
		{"A-17", "A-17"},
		{"10.5", "10.5"}, // fractional, not an integer code
		{"", ""},
	}
	for _, c := range cases {
		if got := CanonicalCode(c.in); got != c.want {
			t.Errorf("CanonicalCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDateSerial(t *testing.T) {
	// Serial 2 is two days past the quirk-adjusted epoch.
	if got := DateSerial("2"); got != "01/01/1900" {
		t.Errorf("DateSerial(2) = %q, want 01/01/1900", got)
	}
	// A known modern serial: 45292 = 01/01/2024.
	if got := DateSerial("45292"); got != "01/01/2024" {
		t.Errorf("DateSerial(45292) = %q, want 01/01/2024", got)
	}
	// Already-formatted strings pass through unchanged.
	if got := DateSerial("15/03/2024"); got != "15/03/2024" {
		t.Errorf("DateSerial(string) = %q, want pass-through", got)
	}
	if got := DateSerial(""); got != "" {
		t.Errorf("DateSerial(empty) = %q, want empty", got)
	}
}

func TestDateSortKey(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"15/03/2024", 20240315},
		{"15.03.2024", 20240315},
		{"15-03-2024", 20240315},
		{"1/2/2025", 20250201},
		{"garbage", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := DateSortKey(c.in); got != c.want {
			t.Errorf("DateSortKey(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
