package analysis

import (
	"sort"
	"time"
)

// Sample is one raw timed measurement from the sample source
type Sample struct {
	Time  time.Time
	Value float64
}

// DayValue is one day's normalized value
type DayValue struct {
	Date  time.Time // local calendar day, midnight
	Value float64
}

// DailyMeans groups samples by local calendar day and reduces each day
// with at least one sample to its arithmetic mean, oldest day first.
// Days with no samples produce no entry: absence propagates as missing
// data, never as a false zero reading.
func DailyMeans(samples []Sample, loc *time.Location) []DayValue {
	if len(samples) == 0 {
		return nil
	}

	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)

	for _, s := range samples {
		day := DayOf(s.Time, loc)
		sums[day] += s.Value
		counts[day]++
	}

	values := make([]DayValue, 0, len(sums))
	for day, sum := range sums {
		values = append(values, DayValue{
			Date:  day,
			Value: sum / float64(counts[day]),
		})
	}

	sort.Slice(values, func(i, j int) bool {
		return values[i].Date.Before(values[j].Date)
	})

	return values
}

// DayOf returns the local calendar day containing t, as midnight in loc.
// Taking the location explicitly keeps grouping deterministic and
// testable regardless of the process's default timezone.
func DayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
