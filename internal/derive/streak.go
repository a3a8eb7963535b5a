package derive

import "time"

// recentDatesWindow caps how many distinct workout dates the current-streak
// walk inspects. A streak longer than this is beyond what the recent-dates
// query returns anyway.
const recentDatesWindow = 30

// CurrentStreak counts consecutive calendar days with a workout, walking
// backward from today. Dates must be distinct and sorted newest first; only
// the most recent 30 are considered. A workout dated yesterday still anchors
// a streak ending today; any gap wider than one day stops the walk.
func CurrentStreak(dates []time.Time, today time.Time) int {
	if len(dates) > recentDatesWindow {
		dates = dates[:recentDatesWindow]
	}
	prev := truncateDay(today)
	streak := 0
	for _, d := range dates {
		d = truncateDay(d)
		gap := int(prev.Sub(d).Hours() / 24)
		if gap < 0 || gap > 1 {
			break
		}
		streak++
		prev = d
	}
	return streak
}

// MaxStreak finds the longest run of calendar-consecutive workout dates.
// Dates must be distinct and sorted ascending.
func MaxStreak(dates []time.Time) int {
	longest, run := 0, 0
	var prev time.Time
	for i, d := range dates {
		d = truncateDay(d)
		if i > 0 && int(d.Sub(prev).Hours()/24) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = d
	}
	return longest
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
