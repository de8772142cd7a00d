package service

import (
	"errors"
	"math"
	"time"

	"mend/internal/analysis"
	"mend/internal/config"
	"mend/internal/store"
)

// QueryService provides read-only queries over stored metrics and scores
type QueryService struct {
	store      *store.DB
	bands      analysis.ReferenceBands
	windowDays int
}

// NewQueryService creates a query service
func NewQueryService(db *store.DB, cfg *config.Config) *QueryService {
	windowDays := cfg.Scoring.BaselineWindowDays
	if windowDays == 0 {
		windowDays = DefaultBaselineWindowDays
	}
	return &QueryService{
		store: db,
		bands: analysis.ReferenceBands{
			RestingHRLow:  cfg.Athlete.RestingHRLow,
			RestingHRHigh: cfg.Athlete.RestingHRHigh,
			HRVLow:        cfg.Athlete.HRVLow,
			HRVHigh:       cfg.Athlete.HRVHigh,
		},
		windowDays: windowDays,
	}
}

// MetricScore is one metric's contribution to a day, with its movement
// against the trailing baseline
type MetricScore struct {
	MetricType       store.MetricType
	Title            string
	Unit             string
	Value            float64
	Score            int
	DeltaFromAverage float64
	IsPositiveDelta  bool
	IsNeutralDelta   bool
	DailyData        []store.DailyMetric // trailing window plus the day itself, oldest first
}

// MetricScores returns the per-metric breakdown for one day. Metric types
// with no value for the day are omitted rather than reported as zero.
func (q *QueryService) MetricScores(day time.Time) ([]MetricScore, error) {
	var scores []MetricScore

	for _, t := range store.MetricTypes {
		m, err := q.store.GetDailyMetric(day, t)
		if errors.Is(err, store.ErrMetricNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		baseline, err := q.store.BaselineValues(t, day, q.windowDays)
		if err != nil {
			return nil, err
		}

		from := day.AddDate(0, 0, -q.windowDays)
		daily, err := q.store.ListDailyMetrics(t, from, day)
		if err != nil {
			return nil, err
		}

		info := analysis.Info(t)
		trend := analysis.TrendAgainstBaseline(t, m.Value, baseline)
		subScore := analysis.MetricSubScore(t, m.Value, baseline, q.bands)

		scores = append(scores, MetricScore{
			MetricType:       t,
			Title:            info.Title,
			Unit:             info.Unit,
			Value:            m.Value,
			Score:            int(math.Round(subScore)),
			DeltaFromAverage: trend.Delta,
			IsPositiveDelta:  trend.Positive,
			IsNeutralDelta:   trend.Neutral,
			DailyData:        daily,
		})
	}

	return scores, nil
}

// ScoreHistory returns the most recent recovery snapshots, newest first
func (q *QueryService) ScoreHistory(limit int) ([]store.RecoveryScore, error) {
	if limit <= 0 {
		limit = ScoreHistoryLimit
	}
	return q.store.ListRecoveryScores(limit)
}

// RecentActivities returns the most recent stored workouts
func (q *QueryService) RecentActivities(limit int) ([]store.Activity, error) {
	if limit <= 0 {
		limit = RecentActivitiesLimit
	}
	return q.store.ListActivities(limit)
}

// LastPassTime returns when the last scoring pass completed, or the zero
// time if none has run
func (q *QueryService) LastPassTime() (time.Time, error) {
	value, err := q.store.GetSyncState(lastPassKey)
	if err != nil || value == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}
