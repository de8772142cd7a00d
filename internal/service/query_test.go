package service

import (
	"math"
	"testing"
	"time"

	"mend/internal/analysis"
	"mend/internal/store"
)

func newTestQueryService(db *store.DB) *QueryService {
	return &QueryService{
		store:      db,
		bands:      analysis.DefaultBands(),
		windowDays: DefaultBaselineWindowDays,
	}
}

func TestMetricScores(t *testing.T) {
	db := setupTestStore(t)
	q := newTestQueryService(db)

	seed := []store.DailyMetric{
		{Date: testDay.AddDate(0, 0, -2), MetricType: store.MetricHeartRate, Value: 60},
		{Date: testDay.AddDate(0, 0, -1), MetricType: store.MetricHeartRate, Value: 60},
		{Date: testDay, MetricType: store.MetricHeartRate, Value: 59},
		{Date: testDay, MetricType: store.MetricSleepDuration, Value: 7.5},
	}
	for i := range seed {
		if err := db.UpsertDailyMetric(&seed[i]); err != nil {
			t.Fatalf("seeding metric: %v", err)
		}
	}

	scores, err := q.MetricScores(testDay)
	if err != nil {
		t.Fatalf("MetricScores failed: %v", err)
	}

	// Only the two metric types with a value for the day appear
	if len(scores) != 2 {
		t.Fatalf("len(scores) = %d, want 2", len(scores))
	}

	var hr *MetricScore
	for i := range scores {
		if scores[i].MetricType == store.MetricHeartRate {
			hr = &scores[i]
		}
	}
	if hr == nil {
		t.Fatal("heart rate missing from breakdown")
	}

	if hr.Title != "Resting Heart Rate" {
		t.Errorf("Title = %q, want Resting Heart Rate", hr.Title)
	}
	// (90 - 59) / 50 * 100 = 62
	if hr.Score != 62 {
		t.Errorf("Score = %d, want 62", hr.Score)
	}
	// 59 against a baseline mean of 60: dropping resting HR is positive
	if math.Abs(hr.DeltaFromAverage-(-1)) > 1e-9 {
		t.Errorf("DeltaFromAverage = %v, want -1", hr.DeltaFromAverage)
	}
	if !hr.IsPositiveDelta || hr.IsNeutralDelta {
		t.Errorf("delta classification = positive %v neutral %v, want positive", hr.IsPositiveDelta, hr.IsNeutralDelta)
	}
	// Window plus the day itself
	if len(hr.DailyData) != 3 {
		t.Errorf("len(DailyData) = %d, want 3", len(hr.DailyData))
	}
}

func TestMetricScores_EmptyDay(t *testing.T) {
	db := setupTestStore(t)
	q := newTestQueryService(db)

	scores, err := q.MetricScores(testDay)
	if err != nil {
		t.Fatalf("MetricScores failed: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("len(scores) = %d, want 0 for an empty day", len(scores))
	}
}

func TestScoreHistory(t *testing.T) {
	db := setupTestStore(t)
	q := newTestQueryService(db)

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		s := store.RecoveryScore{
			Date:       testDay.AddDate(0, 0, -i),
			TimeOfDay:  "morning",
			Overall:    70 - i,
			OverallRaw: float64(70 - i),
			ComputedAt: now,
		}
		if err := db.SaveRecoveryScore(&s); err != nil {
			t.Fatalf("seeding score: %v", err)
		}
	}

	history, err := q.ScoreHistory(2)
	if err != nil {
		t.Fatalf("ScoreHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Overall != 70 || history[1].Overall != 69 {
		t.Errorf("history order = [%d, %d], want [70, 69]", history[0].Overall, history[1].Overall)
	}
}

func TestRecentActivities(t *testing.T) {
	db := setupTestStore(t)
	q := newTestQueryService(db)

	for i, id := range []string{"w-1", "w-2"} {
		a := store.Activity{
			ID:              id,
			Date:            testDay.AddDate(0, 0, -i),
			DurationSeconds: 1800,
			Intensity:       store.IntensityLow,
		}
		if err := db.UpsertActivity(&a); err != nil {
			t.Fatalf("seeding activity: %v", err)
		}
	}

	activities, err := q.RecentActivities(10)
	if err != nil {
		t.Fatalf("RecentActivities failed: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("len(activities) = %d, want 2", len(activities))
	}
	if activities[0].ID != "w-1" {
		t.Errorf("newest activity = %s, want w-1", activities[0].ID)
	}
}
