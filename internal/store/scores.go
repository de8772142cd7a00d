package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveRecoveryScore inserts a snapshot, replacing any earlier snapshot for
// the same (date, time of day). Recomputing from unchanged inputs writes
// identical values, so a replay leaves the history bit-for-bit the same.
func (db *DB) SaveRecoveryScore(s *RecoveryScore) error {
	_, err := db.Exec(`
		INSERT INTO recovery_scores (
			date, time_of_day, overall, overall_raw,
			heart_rate_score, hrv_score, sleep_score, training_score, stress_score,
			computed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, time_of_day) DO UPDATE SET
			overall = excluded.overall,
			overall_raw = excluded.overall_raw,
			heart_rate_score = excluded.heart_rate_score,
			hrv_score = excluded.hrv_score,
			sleep_score = excluded.sleep_score,
			training_score = excluded.training_score,
			stress_score = excluded.stress_score,
			computed_at = excluded.computed_at
	`,
		s.Date.Format(DateKey), s.TimeOfDay, s.Overall, s.OverallRaw,
		intPtrToNull(s.HeartRate), intPtrToNull(s.HRV), intPtrToNull(s.Sleep),
		intPtrToNull(s.Training), intPtrToNull(s.Stress),
		s.ComputedAt.Format(time.RFC3339),
	)
	return err
}

// GetRecoveryScore retrieves the snapshot for one (date, time of day)
func (db *DB) GetRecoveryScore(date time.Time, timeOfDay string) (*RecoveryScore, error) {
	row := db.QueryRow(`
		SELECT date, time_of_day, overall, overall_raw,
			heart_rate_score, hrv_score, sleep_score, training_score, stress_score,
			computed_at
		FROM recovery_scores
		WHERE date = ? AND time_of_day = ?
	`, date.Format(DateKey), timeOfDay)

	s, err := scanRecoveryScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScoreNotFound
	}
	return s, err
}

// ListRecoveryScores returns the most recent snapshots ordered by date then
// time of day, newest first
func (db *DB) ListRecoveryScores(limit int) ([]RecoveryScore, error) {
	rows, err := db.Query(`
		SELECT date, time_of_day, overall, overall_raw,
			heart_rate_score, hrv_score, sleep_score, training_score, stress_score,
			computed_at
		FROM recovery_scores
		ORDER BY date DESC,
			CASE time_of_day
				WHEN 'morning' THEN 0
				WHEN 'afternoon' THEN 1
				ELSE 2
			END DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []RecoveryScore
	for rows.Next() {
		var s RecoveryScore
		var dateStr, computedAt string
		var hr, hrv, sleep, training, stress sql.NullInt64

		err := rows.Scan(
			&dateStr, &s.TimeOfDay, &s.Overall, &s.OverallRaw,
			&hr, &hrv, &sleep, &training, &stress, &computedAt,
		)
		if err != nil {
			return nil, err
		}

		s.Date, err = time.Parse(DateKey, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", dateStr, err)
		}
		s.ComputedAt, err = time.Parse(time.RFC3339, computedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing computed_at %q: %w", computedAt, err)
		}

		s.HeartRate = nullToIntPtr(hr)
		s.HRV = nullToIntPtr(hrv)
		s.Sleep = nullToIntPtr(sleep)
		s.Training = nullToIntPtr(training)
		s.Stress = nullToIntPtr(stress)

		scores = append(scores, s)
	}

	return scores, rows.Err()
}

// scanRecoveryScore scans a single snapshot from a row
func scanRecoveryScore(row *sql.Row) (*RecoveryScore, error) {
	var s RecoveryScore
	var dateStr, computedAt string
	var hr, hrv, sleep, training, stress sql.NullInt64

	err := row.Scan(
		&dateStr, &s.TimeOfDay, &s.Overall, &s.OverallRaw,
		&hr, &hrv, &sleep, &training, &stress, &computedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Date, err = time.Parse(DateKey, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", dateStr, err)
	}
	s.ComputedAt, err = time.Parse(time.RFC3339, computedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing computed_at %q: %w", computedAt, err)
	}

	s.HeartRate = nullToIntPtr(hr)
	s.HRV = nullToIntPtr(hrv)
	s.Sleep = nullToIntPtr(sleep)
	s.Training = nullToIntPtr(training)
	s.Stress = nullToIntPtr(stress)

	return &s, nil
}

func intPtrToNull(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func nullToIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
