package format

import (
	"testing"
	"time"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0%"},
		{in: 42.5, want: "42.5%"},
		{in: 60, want: "60%"},
		{in: 100, want: "100%"},
	}

	for _, tt := range tests {
		if got := Percent(tt.in); got != tt.want {
			t.Errorf("Percent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 1400 * time.Millisecond, want: "1s"},
		{in: 65 * time.Second, want: "1m05s"},
		{in: 2*time.Hour + 3*time.Minute, want: "2h03m"},
	}

	for _, tt := range tests {
		if got := Elapsed(tt.in); got != tt.want {
			t.Errorf("Elapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   time.Time
		want string
	}{
		{in: now.Add(time.Minute), want: "now"},
		{in: now, want: "now"},
		{in: now.Add(-30 * time.Second), want: "30 seconds ago"},
		{in: now.Add(-5 * time.Minute), want: "5 minutes ago"},
		{in: now.Add(-3 * time.Hour), want: "3 hours ago"},
		{in: now.Add(-50 * time.Hour), want: "2 days ago"},
	}

	for _, tt := range tests {
		if got := TimeAgo(tt.in, now); got != tt.want {
			t.Errorf("TimeAgo(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
