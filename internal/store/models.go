package store

import "time"

// DateKey is the format used for calendar-day keys in the database.
const DateKey = "2006-01-02"

// MetricType identifies one normalized daily measurement stream.
// Each type carries its own scoring rules in the analysis package;
// the store only persists the tag.
type MetricType string

const (
	MetricHeartRate     MetricType = "heart_rate"
	MetricHRV           MetricType = "hrv"
	MetricSleepDuration MetricType = "sleep_duration"
	MetricSleepQuality  MetricType = "sleep_quality"
	MetricTrainingLoad  MetricType = "training_load"
)

// MetricTypes lists all metric types in a stable order.
var MetricTypes = []MetricType{
	MetricHeartRate,
	MetricHRV,
	MetricSleepDuration,
	MetricSleepQuality,
	MetricTrainingLoad,
}

// Intensity classifies a workout's effort level.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// DailyMetric is one normalized (date, metric type) measurement derived
// from raw samples. One row per (date, metric_type); re-deriving from the
// same samples overwrites with an identical value.
type DailyMetric struct {
	Date       time.Time  `db:"date"` // local calendar day, midnight
	MetricType MetricType `db:"metric_type"`
	Value      float64    `db:"value"`
}

// Activity is a workout as observed from the sample source. The ID is the
// provider's stable identifier and is never regenerated, so the counted
// ledger can recognize a workout across scoring passes.
type Activity struct {
	ID                string    `db:"id"`
	Date              time.Time `db:"date"` // local calendar day of the start
	DurationSeconds   int       `db:"duration_seconds"`
	AverageHeartRate  *float64  `db:"average_heartrate"` // nullable
	EnergyKcal        *float64  `db:"energy_kcal"`       // nullable
	Intensity         Intensity `db:"intensity"`
	TrainingLoadScore float64   `db:"training_load_score"`
}

// RecoveryScore is one computed readiness snapshot. Component scores are
// nil when that metric had no data for the day and its weight was
// redistributed. OverallRaw keeps the unrounded value so downstream delta
// math does not compound display rounding.
type RecoveryScore struct {
	Date       time.Time `db:"date"`
	TimeOfDay  string    `db:"time_of_day"` // "morning", "afternoon", "evening"
	Overall    int       `db:"overall"`
	OverallRaw float64   `db:"overall_raw"`
	HeartRate  *int      `db:"heart_rate_score"`
	HRV        *int      `db:"hrv_score"`
	Sleep      *int      `db:"sleep_score"`
	Training   *int      `db:"training_score"`
	Stress     *int      `db:"stress_score"`
	ComputedAt time.Time `db:"computed_at"`
}

// Auth represents OAuth tokens for the health gateway
type Auth struct {
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}
