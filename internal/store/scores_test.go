package store

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestSaveRecoveryScore_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	d := day(t, "2024-03-10")

	score := &RecoveryScore{
		Date:       d,
		TimeOfDay:  "morning",
		Overall:    73,
		OverallRaw: 73.4,
		HeartRate:  intPtr(60),
		HRV:        intPtr(50),
		Sleep:      intPtr(88),
		Training:   nil, // no workouts that day
		Stress:     intPtr(100),
		ComputedAt: time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC),
	}

	if err := db.SaveRecoveryScore(score); err != nil {
		t.Fatalf("SaveRecoveryScore failed: %v", err)
	}

	fetched, err := db.GetRecoveryScore(d, "morning")
	if err != nil {
		t.Fatalf("GetRecoveryScore failed: %v", err)
	}

	if fetched.Overall != 73 {
		t.Errorf("Overall = %d, want 73", fetched.Overall)
	}
	if math.Abs(fetched.OverallRaw-73.4) > 1e-9 {
		t.Errorf("OverallRaw = %v, want 73.4", fetched.OverallRaw)
	}
	if fetched.Training != nil {
		t.Errorf("Training = %v, want nil", *fetched.Training)
	}
	if fetched.Sleep == nil || *fetched.Sleep != 88 {
		t.Errorf("Sleep = %v, want 88", fetched.Sleep)
	}
	if !fetched.ComputedAt.Equal(score.ComputedAt) {
		t.Errorf("ComputedAt = %v, want %v", fetched.ComputedAt, score.ComputedAt)
	}
}

func TestSaveRecoveryScore_ReplacesSameSlot(t *testing.T) {
	db := setupTestDB(t)
	d := day(t, "2024-03-10")

	first := &RecoveryScore{Date: d, TimeOfDay: "morning", Overall: 70, OverallRaw: 70, ComputedAt: time.Now().UTC()}
	second := &RecoveryScore{Date: d, TimeOfDay: "morning", Overall: 75, OverallRaw: 75.2, ComputedAt: time.Now().UTC()}

	if err := db.SaveRecoveryScore(first); err != nil {
		t.Fatalf("SaveRecoveryScore failed: %v", err)
	}
	if err := db.SaveRecoveryScore(second); err != nil {
		t.Fatalf("SaveRecoveryScore failed: %v", err)
	}

	fetched, err := db.GetRecoveryScore(d, "morning")
	if err != nil {
		t.Fatalf("GetRecoveryScore failed: %v", err)
	}
	if fetched.Overall != 75 {
		t.Errorf("Overall = %d, want 75 after replacement", fetched.Overall)
	}

	scores, err := db.ListRecoveryScores(10)
	if err != nil {
		t.Fatalf("ListRecoveryScores failed: %v", err)
	}
	if len(scores) != 1 {
		t.Errorf("len(scores) = %d, want 1 (same slot replaced)", len(scores))
	}
}

func TestGetRecoveryScore_DistinctTimeOfDay(t *testing.T) {
	db := setupTestDB(t)
	d := day(t, "2024-03-10")

	morning := &RecoveryScore{Date: d, TimeOfDay: "morning", Overall: 70, OverallRaw: 70, ComputedAt: time.Now().UTC()}
	evening := &RecoveryScore{Date: d, TimeOfDay: "evening", Overall: 64, OverallRaw: 63.8, ComputedAt: time.Now().UTC()}

	if err := db.SaveRecoveryScore(morning); err != nil {
		t.Fatalf("SaveRecoveryScore failed: %v", err)
	}
	if err := db.SaveRecoveryScore(evening); err != nil {
		t.Fatalf("SaveRecoveryScore failed: %v", err)
	}

	fetched, err := db.GetRecoveryScore(d, "evening")
	if err != nil {
		t.Fatalf("GetRecoveryScore failed: %v", err)
	}
	if fetched.Overall != 64 {
		t.Errorf("Overall = %d, want 64", fetched.Overall)
	}
}

func TestGetRecoveryScore_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetRecoveryScore(day(t, "2024-03-10"), "morning")
	if !errors.Is(err, ErrScoreNotFound) {
		t.Errorf("err = %v, want ErrScoreNotFound", err)
	}
}

func TestListRecoveryScores_NewestFirst(t *testing.T) {
	db := setupTestDB(t)

	now := time.Now().UTC()
	inserts := []RecoveryScore{
		{Date: day(t, "2024-03-09"), TimeOfDay: "evening", Overall: 60, OverallRaw: 60, ComputedAt: now},
		{Date: day(t, "2024-03-10"), TimeOfDay: "morning", Overall: 70, OverallRaw: 70, ComputedAt: now},
		{Date: day(t, "2024-03-10"), TimeOfDay: "evening", Overall: 65, OverallRaw: 65, ComputedAt: now},
		{Date: day(t, "2024-03-08"), TimeOfDay: "morning", Overall: 55, OverallRaw: 55, ComputedAt: now},
	}
	for i := range inserts {
		if err := db.SaveRecoveryScore(&inserts[i]); err != nil {
			t.Fatalf("SaveRecoveryScore failed: %v", err)
		}
	}

	scores, err := db.ListRecoveryScores(10)
	if err != nil {
		t.Fatalf("ListRecoveryScores failed: %v", err)
	}

	wantOverall := []int{65, 70, 60, 55} // 03-10 evening, 03-10 morning, 03-09, 03-08
	if len(scores) != len(wantOverall) {
		t.Fatalf("len(scores) = %d, want %d", len(scores), len(wantOverall))
	}
	for i, want := range wantOverall {
		if scores[i].Overall != want {
			t.Errorf("scores[%d].Overall = %d, want %d", i, scores[i].Overall, want)
		}
	}
}
