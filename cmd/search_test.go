package cmd

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a very long product name indeed", 10, "a very ..."},
		{"ताजा केला रोबस्टा 1 किलो", 10, "ताजा के..."},
		{"₹₹₹₹₹₹₹₹₹₹₹₹", 6, "₹₹₹..."},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
