package analysis

import "mend/internal/store"

// Intensity classification thresholds. Calories per minute is preferred;
// raw duration is the fallback when the workout carries no energy data.
const (
	highKcalPerMinute     = 10.0
	moderateKcalPerMinute = 5.0

	highDurationSeconds     = 3600.0
	moderateDurationSeconds = 1800.0
)

// ClassifyIntensity classifies a workout from its duration and optional
// energy burn.
func ClassifyIntensity(durationSeconds float64, energyKcal *float64) store.Intensity {
	if energyKcal != nil && durationSeconds > 0 {
		perMinute := *energyKcal / (durationSeconds / 60)
		switch {
		case perMinute > highKcalPerMinute:
			return store.IntensityHigh
		case perMinute > moderateKcalPerMinute:
			return store.IntensityModerate
		default:
			return store.IntensityLow
		}
	}

	switch {
	case durationSeconds > highDurationSeconds:
		return store.IntensityHigh
	case durationSeconds > moderateDurationSeconds:
		return store.IntensityModerate
	default:
		return store.IntensityLow
	}
}

// TrainingLoadScore converts a workout into its numeric training-load
// contribution: minutes scaled by an intensity factor and, when heart-rate
// data exists, by average HR relative to 100 bpm.
func TrainingLoadScore(durationSeconds float64, intensity store.Intensity, avgHeartRate *float64) float64 {
	minutes := durationSeconds / 60

	hrFactor := 1.0
	if avgHeartRate != nil && *avgHeartRate > 0 {
		hrFactor = *avgHeartRate / 100
	}

	return minutes * intensityFactor(intensity) * hrFactor
}

func intensityFactor(intensity store.Intensity) float64 {
	switch intensity {
	case store.IntensityHigh:
		return 3.0
	case store.IntensityModerate:
		return 2.0
	default:
		return 1.0
	}
}
