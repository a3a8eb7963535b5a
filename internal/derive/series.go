package derive

import (
	"sort"
	"time"
)

// SetSample is the slice of a stored set the series functions need.
type SetSample struct {
	Date   time.Time
	Weight float64
	Reps   int
	OneRM  float64
}

// SeriesPoint is one dated value in a progress series.
type SeriesPoint struct {
	Date  time.Time
	Value float64
}

// WeightPoint carries both the max and average weight lifted on a date.
type WeightPoint struct {
	Date time.Time
	Max  float64
	Avg  float64
}

// OneRMSeries buckets samples by date and keeps the maximum stored
// one-rep-max per date, ascending by date.
func OneRMSeries(samples []SetSample) []SeriesPoint {
	byDate := map[time.Time]float64{}
	for _, s := range samples {
		d := truncateDay(s.Date)
		if s.OneRM > byDate[d] {
			byDate[d] = s.OneRM
		}
	}
	return sortedPoints(byDate)
}

// WeightSeries buckets samples by date, tracking the max and average weight
// per date, ascending by date.
func WeightSeries(samples []SetSample) []WeightPoint {
	type acc struct {
		max   float64
		sum   float64
		count int
	}
	byDate := map[time.Time]*acc{}
	for _, s := range samples {
		d := truncateDay(s.Date)
		a, ok := byDate[d]
		if !ok {
			a = &acc{}
			byDate[d] = a
		}
		if s.Weight > a.max {
			a.max = s.Weight
		}
		a.sum += s.Weight
		a.count++
	}
	points := make([]WeightPoint, 0, len(byDate))
	for d, a := range byDate {
		points = append(points, WeightPoint{Date: d, Max: a.max, Avg: a.sum / float64(a.count)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// VolumeSeries buckets samples by date and sums weight*reps per date,
// ascending by date.
func VolumeSeries(samples []SetSample) []SeriesPoint {
	byDate := map[time.Time]float64{}
	for _, s := range samples {
		d := truncateDay(s.Date)
		byDate[d] += s.Weight * float64(s.Reps)
	}
	return sortedPoints(byDate)
}

// TotalVolume sums weight*reps across all samples.
func TotalVolume(samples []SetSample) float64 {
	var total float64
	for _, s := range samples {
		total += s.Weight * float64(s.Reps)
	}
	return total
}

// WeekdayCounts remaps per-weekday counts from the store's native Sunday=0
// convention to Monday=0 .. Sunday=6, always returning all 7 buckets.
func WeekdayCounts(sundayBased map[int]int) [7]int {
	var out [7]int
	for w, n := range sundayBased {
		if w < 0 || w > 6 {
			continue
		}
		out[(w+6)%7] += n
	}
	return out
}

func sortedPoints(byDate map[time.Time]float64) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(byDate))
	for d, v := range byDate {
		points = append(points, SeriesPoint{Date: d, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}
