package attendance

import (
	"math"
	"time"
)

// Work-day policy. A check-in after LateHour:LateMinute is marked late, and
// hours beyond WorkDayHours count as overtime.
const (
	LateHour     = 9
	LateMinute   = 0
	WorkDayHours = 8.0
)

// StatusForCheckIn derives present/late from the check-in instant.
func StatusForCheckIn(t time.Time) string {
	threshold := time.Date(t.Year(), t.Month(), t.Day(), LateHour, LateMinute, 0, 0, t.Location())
	if t.After(threshold) {
		return StatusLate
	}
	return StatusPresent
}

// ComputeHours returns worked and overtime hours for a check-in/out pair,
// both rounded to two decimals. Overtime is zero until the work day is
// exceeded.
func ComputeHours(checkIn, checkOut time.Time) (work, overtime float64) {
	if checkOut.Before(checkIn) {
		return 0, 0
	}
	work = round2(checkOut.Sub(checkIn).Hours())
	if work > WorkDayHours {
		overtime = round2(work - WorkDayHours)
	}
	return work, overtime
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
