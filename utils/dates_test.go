package utils

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"disjoint", 1, 5, 10, 15, false},
		{"contained", 1, 10, 3, 5, true},
		{"partial", 1, 5, 4, 8, true},
		{"identical", 1, 5, 1, 5, true},
		{"checkout day equals next check-in", 1, 5, 5, 8, false},
		{"check-in day equals previous checkout", 5, 8, 1, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd))
			if got != tt.want {
				t.Errorf("RangesOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNightsBetween(t *testing.T) {
	if got := NightsBetween(day(1), day(5)); got != 4 {
		t.Errorf("NightsBetween = %d, want 4", got)
	}
	if got := NightsBetween(day(1), day(1)); got != 0 {
		t.Errorf("same-day NightsBetween = %d, want 0", got)
	}
	if got := NightsBetween(day(5), day(1)); got != 0 {
		t.Errorf("inverted NightsBetween = %d, want 0", got)
	}
}
