package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertActivity inserts or updates an activity
func (db *DB) UpsertActivity(a *Activity) error {
	_, err := db.Exec(`
		INSERT INTO activities (
			id, date, duration_seconds, average_heartrate, energy_kcal,
			intensity, training_load_score, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			duration_seconds = excluded.duration_seconds,
			average_heartrate = excluded.average_heartrate,
			energy_kcal = excluded.energy_kcal,
			intensity = excluded.intensity,
			training_load_score = excluded.training_load_score,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.Date.Format(DateKey), a.DurationSeconds, a.AverageHeartRate,
		a.EnergyKcal, string(a.Intensity), a.TrainingLoadScore,
	)
	return err
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(id string) (*Activity, error) {
	row := db.QueryRow(`
		SELECT id, date, duration_seconds, average_heartrate, energy_kcal,
			intensity, training_load_score
		FROM activities
		WHERE id = ?
	`, id)

	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	return a, err
}

// ListActivities returns activities ordered by date descending
func (db *DB) ListActivities(limit int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT id, date, duration_seconds, average_heartrate, energy_kcal,
			intensity, training_load_score
		FROM activities
		ORDER BY date DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		var dateStr, intensity string

		err := rows.Scan(
			&a.ID, &dateStr, &a.DurationSeconds, &a.AverageHeartRate,
			&a.EnergyKcal, &intensity, &a.TrainingLoadScore,
		)
		if err != nil {
			return nil, err
		}

		a.Date, err = time.Parse(DateKey, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", dateStr, err)
		}
		a.Intensity = Intensity(intensity)

		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// scanActivity scans a single activity from a row
func scanActivity(row *sql.Row) (*Activity, error) {
	var a Activity
	var dateStr, intensity string

	err := row.Scan(
		&a.ID, &dateStr, &a.DurationSeconds, &a.AverageHeartRate,
		&a.EnergyKcal, &intensity, &a.TrainingLoadScore,
	)
	if err != nil {
		return nil, err
	}

	a.Date, err = time.Parse(DateKey, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", dateStr, err)
	}
	a.Intensity = Intensity(intensity)

	return &a, nil
}
