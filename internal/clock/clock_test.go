package clock

import (
	"testing"
	"time"
)

func TestDay(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"KST morning", time.Date(2025, 3, 15, 9, 0, 0, 0, KST), "2025-03-15"},
		{"UTC evening is next day in Seoul", time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC), "2025-03-15"},
		{"UTC just before KST midnight", time.Date(2025, 3, 14, 14, 59, 59, 0, time.UTC), "2025-03-14"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Day(tt.in)
			if got.Format(time.DateOnly) != tt.want {
				t.Errorf("Day() = %s, want %s", got.Format(time.DateOnly), tt.want)
			}
			if got.Hour() != 0 || got.Location() != KST {
				t.Errorf("Day() = %v, want midnight KST", got)
			}
		})
	}
}

func TestFixed(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFixed(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", c.Now(), start)
	}
	c.Advance(90 * time.Minute)
	if want := start.Add(90 * time.Minute); !c.Now().Equal(want) {
		t.Errorf("after Advance Now() = %v, want %v", c.Now(), want)
	}
	c.Set(start)
	if !c.Now().Equal(start) {
		t.Errorf("after Set Now() = %v, want %v", c.Now(), start)
	}
}
