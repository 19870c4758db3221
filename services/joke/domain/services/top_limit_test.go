package services

import "testing"

func TestClampTopLimit(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero defaults", 0, DefaultTopLimit},
		{"negative defaults", -3, DefaultTopLimit},
		{"one passes", 1, 1},
		{"mid-range passes", 25, 25},
		{"max passes", 50, 50},
		{"above max clamps", 51, MaxTopLimit},
		{"far above max clamps", 100, MaxTopLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampTopLimit(tt.in); got != tt.want {
				t.Fatalf("ClampTopLimit(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
