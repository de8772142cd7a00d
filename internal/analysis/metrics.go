package analysis

import "mend/internal/store"

// MetricInfo describes how one metric type is displayed and how its delta
// against the baseline should be read. Keeping this as data replaces
// per-call-site string matching on titles.
type MetricInfo struct {
	Title         string
	Unit          string
	LowerIsBetter bool
}

// Info returns display and polarity metadata for a metric type
func Info(t store.MetricType) MetricInfo {
	switch t {
	case store.MetricHeartRate:
		return MetricInfo{Title: "Resting Heart Rate", Unit: "bpm", LowerIsBetter: true}
	case store.MetricHRV:
		return MetricInfo{Title: "Heart Rate Variability", Unit: "ms"}
	case store.MetricSleepDuration:
		return MetricInfo{Title: "Sleep Duration", Unit: "h"}
	case store.MetricSleepQuality:
		return MetricInfo{Title: "Sleep Quality", Unit: ""}
	case store.MetricTrainingLoad:
		return MetricInfo{Title: "Training Load", Unit: ""}
	default:
		return MetricInfo{Title: string(t)}
	}
}

// ReferenceBands holds the physiologic reference bands used to map raw
// metric values onto 0-100 scores. Values outside a band clamp to the
// band edge.
type ReferenceBands struct {
	RestingHRLow  float64 // bpm scoring 100
	RestingHRHigh float64 // bpm scoring 0
	HRVLow        float64 // ms scoring 0
	HRVHigh       float64 // ms scoring 100
}

// DefaultBands returns sensible defaults if not configured
func DefaultBands() ReferenceBands {
	return ReferenceBands{
		RestingHRLow:  40,
		RestingHRHigh: 90,
		HRVLow:        20,
		HRVHigh:       120,
	}
}

// Deltas smaller than this are reported as "no change" rather than as an
// improvement or decline.
const neutralDeltaBand = 0.1

// Training loads this far above the baseline mean stop counting as a
// positive trend: more is only better inside the target band.
const trainingTargetBandRatio = 1.5

// Neutral score when a metric has no baseline to compare against
const neutralScore = 50.0

// MetricSubScore maps one day's metric value onto a 0-100 score.
// Resting heart rate maps inversely against its band, HRV directly;
// sleep duration scores against the 8-hour reference; sleep quality is
// already a 0-100 score from the aggregator; training load scores by
// deviation from the baseline mean, peaking at the mean and falling off
// toward both detraining and overtraining.
func MetricSubScore(t store.MetricType, value float64, baseline []float64, bands ReferenceBands) float64 {
	switch t {
	case store.MetricHeartRate:
		span := bands.RestingHRHigh - bands.RestingHRLow
		if span <= 0 {
			return neutralScore
		}
		return Clamp((bands.RestingHRHigh-value)/span*100, 0, 100)

	case store.MetricHRV:
		span := bands.HRVHigh - bands.HRVLow
		if span <= 0 {
			return neutralScore
		}
		return Clamp((value-bands.HRVLow)/span*100, 0, 100)

	case store.MetricSleepDuration:
		return Clamp(value/referenceSleepHours*100, 0, 100)

	case store.MetricSleepQuality:
		return Clamp(value, 0, 100)

	case store.MetricTrainingLoad:
		mean := Mean(baseline)
		if mean <= 0 {
			return neutralScore
		}
		deviation := Clamp((value-mean)/mean, -1, 1)
		return Clamp(100*(1-deviation*deviation), 0, 100)

	default:
		return neutralScore
	}
}

// Trend is a metric's movement against its baseline window
type Trend struct {
	Delta    float64 // current value minus baseline mean
	Positive bool
	Neutral  bool // |delta| within the no-change band, or no baseline
}

// TrendAgainstBaseline computes the delta from the baseline mean and
// classifies it with the metric's polarity rule. An empty baseline yields
// a zero delta and a neutral classification.
func TrendAgainstBaseline(t store.MetricType, value float64, baseline []float64) Trend {
	if len(baseline) == 0 {
		return Trend{Neutral: true}
	}

	mean := Mean(baseline)
	delta := value - mean

	if delta > -neutralDeltaBand && delta < neutralDeltaBand {
		return Trend{Delta: delta, Neutral: true}
	}

	var positive bool
	switch t {
	case store.MetricHeartRate:
		positive = delta < 0
	case store.MetricTrainingLoad:
		// rising load is only good while it stays inside the target band
		positive = delta > 0 && value <= mean*trainingTargetBandRatio
	default:
		positive = delta > 0
	}

	return Trend{Delta: delta, Positive: positive}
}

// Mean returns the arithmetic mean, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
