// Package derive holds the pure derivation functions of the tracker:
// one-rep-max estimation, streak counting, period-bucketed progress series
// and body-composition goal progress. Nothing in this package touches the
// store; callers pass query results in and persist results themselves.
package derive

// OneRepMax estimates the single-repetition maximum from a performed set
// using the Epley formula. A single rep needs no extrapolation and returns
// the weight unchanged. The estimate is computed and stored at insert time
// so historical rows stay stable even if the constant ever changes.
//
// Callers must validate weight > 0 and reps >= 1 before calling.
func OneRepMax(weight float64, reps int) float64 {
	if reps == 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}

// GrowthRate returns the percentage change from previous to current,
// or 0 when there is no previous value to compare against.
func GrowthRate(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
