package analysis

import (
	"math"

	"mend/internal/store"
)

// DayMetrics holds the target day's normalized metrics. A missing key
// means that metric had no data for the day.
type DayMetrics map[store.MetricType]float64

// Baselines holds the trailing-window values per metric type, oldest
// first. An empty or absent window is allowed.
type Baselines map[store.MetricType][]float64

// Component weights for the overall score, in percent. When a component's
// metric is missing its weight is redistributed proportionally among the
// present components, so a day is never penalized just because one sensor
// had no reading.
const (
	weightHeartRate = 20.0
	weightHRV       = 30.0
	weightSleep     = 30.0
	weightTraining  = 10.0
	weightStress    = 10.0
)

// The sleep component blends the duration and quality sub-scores
const (
	sleepDurationShare = 0.4
	sleepQualityShare  = 0.6
)

// Stress proxy penalties: bpm of resting-HR elevation over baseline, and
// training-load overshoot beyond the baseline mean.
const (
	stressHRPenaltyPerBpm   = 5.0
	stressLoadOvershootCost = 50.0
)

// Snapshot is one computed recovery result. Component pointers are nil
// when the underlying metric was missing for the day.
type Snapshot struct {
	Overall    int
	OverallRaw float64
	HeartRate  *int
	HRV        *int
	Sleep      *int
	Training   *int
	Stress     *int
}

// ComputeRecovery combines the day's metrics against their baselines into
// the overall 0-100 recovery score plus per-component sub-scores. It is a
// pure function: the same inputs always produce the same snapshot.
func ComputeRecovery(day DayMetrics, baselines Baselines, bands ReferenceBands) Snapshot {
	var snap Snapshot
	var weightSum, weighted float64

	add := func(weight, score float64) *int {
		score = Clamp(score, 0, 100)
		weightSum += weight
		weighted += weight * score
		rounded := int(math.Round(score))
		return &rounded
	}

	if v, ok := day[store.MetricHeartRate]; ok {
		snap.HeartRate = add(weightHeartRate, MetricSubScore(store.MetricHeartRate, v, baselines[store.MetricHeartRate], bands))
	}

	if v, ok := day[store.MetricHRV]; ok {
		snap.HRV = add(weightHRV, MetricSubScore(store.MetricHRV, v, baselines[store.MetricHRV], bands))
	}

	if score, ok := sleepComponent(day, baselines, bands); ok {
		snap.Sleep = add(weightSleep, score)
	}

	if v, ok := day[store.MetricTrainingLoad]; ok {
		snap.Training = add(weightTraining, MetricSubScore(store.MetricTrainingLoad, v, baselines[store.MetricTrainingLoad], bands))
	}

	if score, ok := stressComponent(day, baselines); ok {
		snap.Stress = add(weightStress, score)
	}

	if weightSum > 0 {
		snap.OverallRaw = Clamp(weighted/weightSum, 0, 100)
	}
	snap.Overall = int(math.Round(snap.OverallRaw))

	return snap
}

// sleepComponent blends the duration and quality sub-scores. The sleep
// aggregator emits both metrics together, but if only one made it through
// it stands alone rather than dragging the component down.
func sleepComponent(day DayMetrics, baselines Baselines, bands ReferenceBands) (float64, bool) {
	duration, hasDuration := day[store.MetricSleepDuration]
	quality, hasQuality := day[store.MetricSleepQuality]

	switch {
	case hasDuration && hasQuality:
		d := MetricSubScore(store.MetricSleepDuration, duration, baselines[store.MetricSleepDuration], bands)
		q := MetricSubScore(store.MetricSleepQuality, quality, baselines[store.MetricSleepQuality], bands)
		return sleepDurationShare*d + sleepQualityShare*q, true
	case hasDuration:
		return MetricSubScore(store.MetricSleepDuration, duration, baselines[store.MetricSleepDuration], bands), true
	case hasQuality:
		return MetricSubScore(store.MetricSleepQuality, quality, baselines[store.MetricSleepQuality], bands), true
	default:
		return 0, false
	}
}

// stressComponent derives a physiological stress proxy from resting-HR
// elevation over its baseline and training-load overshoot. It needs a
// heart-rate reading for the day; without one the component is missing
// and its weight redistributes.
func stressComponent(day DayMetrics, baselines Baselines) (float64, bool) {
	hr, ok := day[store.MetricHeartRate]
	if !ok {
		return 0, false
	}

	penalty := 0.0

	if hrBaseline := baselines[store.MetricHeartRate]; len(hrBaseline) > 0 {
		if elevation := hr - Mean(hrBaseline); elevation > 0 {
			penalty += elevation * stressHRPenaltyPerBpm
		}
	}

	if load, ok := day[store.MetricTrainingLoad]; ok {
		if mean := Mean(baselines[store.MetricTrainingLoad]); mean > 0 {
			if overshoot := load/mean - 1; overshoot > 0 {
				penalty += overshoot * stressLoadOvershootCost
			}
		}
	}

	return Clamp(100-penalty, 0, 100), true
}
