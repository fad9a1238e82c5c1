package attendance

import (
	"testing"
	"time"
)

func TestStatusForCheckIn(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	onTime := day.Add(8*time.Hour + 45*time.Minute)
	if got := StatusForCheckIn(onTime); got != StatusPresent {
		t.Fatalf("expected present for 08:45, got %s", got)
	}

	exact := day.Add(9 * time.Hour)
	if got := StatusForCheckIn(exact); got != StatusPresent {
		t.Fatalf("expected present for 09:00 sharp, got %s", got)
	}

	late := day.Add(9*time.Hour + time.Minute)
	if got := StatusForCheckIn(late); got != StatusLate {
		t.Fatalf("expected late for 09:01, got %s", got)
	}
}

func TestComputeHours(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	work, overtime := ComputeHours(in, in.Add(8*time.Hour))
	if work != 8.0 || overtime != 0 {
		t.Fatalf("expected 8h/0h, got %v/%v", work, overtime)
	}

	work, overtime = ComputeHours(in, in.Add(9*time.Hour+30*time.Minute))
	if work != 9.5 || overtime != 1.5 {
		t.Fatalf("expected 9.5h/1.5h, got %v/%v", work, overtime)
	}

	work, overtime = ComputeHours(in, in.Add(7*time.Hour+20*time.Minute))
	if work != 7.33 || overtime != 0 {
		t.Fatalf("expected 7.33h/0h, got %v/%v", work, overtime)
	}

	work, overtime = ComputeHours(in, in.Add(-time.Hour))
	if work != 0 || overtime != 0 {
		t.Fatalf("expected 0/0 for inverted pair, got %v/%v", work, overtime)
	}
}
