package service

import "time"

const (
	// Plausibility bounds for raw samples; readings outside are dropped
	// before normalization
	MinValidHeartRate = 25.0
	MaxValidHeartRate = 250.0
	MinValidHRV       = 5.0
	MaxValidHRV       = 300.0

	// Per-fetch timeout within a scoring pass
	FetchTimeout = 30 * time.Second

	// Workouts fetched per pass
	WorkoutFetchLimit = 50
	// Trailing days of workouts considered per pass
	WorkoutFetchDays = 7

	// Trailing window for baselines when none is configured
	DefaultBaselineWindowDays = 7

	// Query limits
	ScoreHistoryLimit     = 14
	RecentActivitiesLimit = 10
)

// sync_state key recording when the last scoring pass completed
const lastPassKey = "last_scoring_pass"

// Time-of-day bucket boundaries, local hours
const (
	morningEndHour   = 12
	afternoonEndHour = 18
)

// TimeOfDay buckets a local clock time into the snapshot slot it belongs
// to. Passes in different buckets produce distinct history entries;
// passes in the same bucket overwrite each other.
func TimeOfDay(t time.Time) string {
	switch {
	case t.Hour() < morningEndHour:
		return "morning"
	case t.Hour() < afternoonEndHour:
		return "afternoon"
	default:
		return "evening"
	}
}
