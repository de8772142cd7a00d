package store

import (
	"errors"
	"math"
	"testing"
)

func TestUpsertDailyMetric_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	d := day(t, "2024-03-10")

	m := &DailyMetric{Date: d, MetricType: MetricHeartRate, Value: 58.5}

	for i := 0; i < 3; i++ {
		if err := db.UpsertDailyMetric(m); err != nil {
			t.Fatalf("UpsertDailyMetric failed on attempt %d: %v", i+1, err)
		}
	}

	fetched, err := db.GetDailyMetric(d, MetricHeartRate)
	if err != nil {
		t.Fatalf("GetDailyMetric failed: %v", err)
	}
	if fetched.Value != 58.5 {
		t.Errorf("Value = %v, want 58.5", fetched.Value)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM daily_metrics").Scan(&count); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1 after repeated upserts", count)
	}
}

func TestUpsertDailyMetric_ReplacesValue(t *testing.T) {
	db := setupTestDB(t)
	d := day(t, "2024-03-10")

	if err := db.UpsertDailyMetric(&DailyMetric{Date: d, MetricType: MetricHRV, Value: 60}); err != nil {
		t.Fatalf("UpsertDailyMetric failed: %v", err)
	}
	if err := db.UpsertDailyMetric(&DailyMetric{Date: d, MetricType: MetricHRV, Value: 72}); err != nil {
		t.Fatalf("UpsertDailyMetric failed: %v", err)
	}

	fetched, err := db.GetDailyMetric(d, MetricHRV)
	if err != nil {
		t.Fatalf("GetDailyMetric failed: %v", err)
	}
	if fetched.Value != 72 {
		t.Errorf("Value = %v, want 72", fetched.Value)
	}
}

func TestGetDailyMetric_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetDailyMetric(day(t, "2024-03-10"), MetricSleepQuality)
	if !errors.Is(err, ErrMetricNotFound) {
		t.Errorf("err = %v, want ErrMetricNotFound", err)
	}
}

func TestBaselineValues_ExcludesTargetDay(t *testing.T) {
	db := setupTestDB(t)

	days := map[string]float64{
		"2024-03-05": 55,
		"2024-03-06": 57,
		"2024-03-07": 56,
		"2024-03-10": 80, // target day itself, must not appear
	}
	for ds, v := range days {
		if err := db.UpsertDailyMetric(&DailyMetric{Date: day(t, ds), MetricType: MetricHeartRate, Value: v}); err != nil {
			t.Fatalf("UpsertDailyMetric failed: %v", err)
		}
	}

	values, err := db.BaselineValues(MetricHeartRate, day(t, "2024-03-10"), 7)
	if err != nil {
		t.Fatalf("BaselineValues failed: %v", err)
	}

	want := []float64{55, 57, 56}
	if len(values) != len(want) {
		t.Fatalf("len(values) = %d, want %d (%v)", len(values), len(want), values)
	}
	for i := range want {
		if math.Abs(values[i]-want[i]) > 1e-9 {
			t.Errorf("values[%d] = %v, want %v", i, values[i], want[i])
		}
	}
}

func TestBaselineValues_WindowBound(t *testing.T) {
	db := setupTestDB(t)

	// One value just inside the 7-day window, one just outside
	inside := day(t, "2024-03-03")
	outside := day(t, "2024-03-02")

	if err := db.UpsertDailyMetric(&DailyMetric{Date: inside, MetricType: MetricHRV, Value: 65}); err != nil {
		t.Fatalf("UpsertDailyMetric failed: %v", err)
	}
	if err := db.UpsertDailyMetric(&DailyMetric{Date: outside, MetricType: MetricHRV, Value: 40}); err != nil {
		t.Fatalf("UpsertDailyMetric failed: %v", err)
	}

	values, err := db.BaselineValues(MetricHRV, day(t, "2024-03-10"), 7)
	if err != nil {
		t.Fatalf("BaselineValues failed: %v", err)
	}

	if len(values) != 1 || values[0] != 65 {
		t.Errorf("values = %v, want [65]", values)
	}
}

func TestBaselineValues_IgnoresOtherTypes(t *testing.T) {
	db := setupTestDB(t)

	if err := db.UpsertDailyMetric(&DailyMetric{Date: day(t, "2024-03-08"), MetricType: MetricHeartRate, Value: 58}); err != nil {
		t.Fatalf("UpsertDailyMetric failed: %v", err)
	}

	values, err := db.BaselineValues(MetricHRV, day(t, "2024-03-10"), 7)
	if err != nil {
		t.Fatalf("BaselineValues failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("values = %v, want empty", values)
	}
}

func TestListDailyMetrics_OrderedAscending(t *testing.T) {
	db := setupTestDB(t)

	for _, ds := range []string{"2024-03-09", "2024-03-07", "2024-03-08"} {
		if err := db.UpsertDailyMetric(&DailyMetric{Date: day(t, ds), MetricType: MetricSleepDuration, Value: 7.5}); err != nil {
			t.Fatalf("UpsertDailyMetric failed: %v", err)
		}
	}

	metrics, err := db.ListDailyMetrics(MetricSleepDuration, day(t, "2024-03-01"), day(t, "2024-03-10"))
	if err != nil {
		t.Fatalf("ListDailyMetrics failed: %v", err)
	}

	if len(metrics) != 3 {
		t.Fatalf("len(metrics) = %d, want 3", len(metrics))
	}
	for i := 1; i < len(metrics); i++ {
		if !metrics[i-1].Date.Before(metrics[i].Date) {
			t.Errorf("metrics not in ascending date order: %v before %v", metrics[i-1].Date, metrics[i].Date)
		}
	}
}
