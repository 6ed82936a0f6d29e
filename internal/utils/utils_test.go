package utils

import "testing"

func TestIsAreaCode(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"110001", true},
		{"400003", true},
		{"11000", false},
		{"1100011", false},
		{"11000a", false},
		{"", false},
		{" 110001", false},
	}
	for _, tc := range tests {
		if got := IsAreaCode(tc.in); got != tc.want {
			t.Errorf("IsAreaCode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
