package store

import (
	"database/sql"
	"errors"
	"time"
)

// The counted-activities ledger is what keeps training load honest:
// a workout's load is folded into a daily aggregate at most once, no
// matter how many times a scoring pass is re-run.

// WorkoutLoad is one workout's training-load contribution to its day
type WorkoutLoad struct {
	ID   string
	Date time.Time
	Load float64
}

// IsActivityCounted reports whether a workout ID has already been folded
// into training load.
func (db *DB) IsActivityCounted(id string) (bool, error) {
	var one int
	err := db.QueryRow(`
		SELECT 1 FROM counted_activities WHERE id = ?
	`, id).Scan(&one)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FoldTrainingLoads folds each workout's load into its day's training-load
// metric at most once, returning the IDs counted for the first time. The
// ledger insert doubles as the counted check: INSERT OR IGNORE reports
// whether the ID was new, and only new IDs contribute load. Check, fold
// and record run in one transaction, so an interrupted pass commits both
// writes or neither, and a replayed or concurrent pass cannot double
// count.
func (db *DB) FoldTrainingLoads(loads []WorkoutLoad) ([]string, error) {
	if len(loads) == 0 {
		return nil, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO counted_activities (id) VALUES (?)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var newIDs []string
	sums := make(map[string]float64)

	for _, l := range loads {
		res, err := stmt.Exec(l.ID)
		if err != nil {
			return nil, err
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if inserted == 0 {
			continue
		}
		newIDs = append(newIDs, l.ID)
		sums[l.Date.Format(DateKey)] += l.Load
	}

	for date, load := range sums {
		_, err := tx.Exec(`
			INSERT INTO daily_metrics (date, metric_type, value, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(date, metric_type) DO UPDATE SET
				value = value + excluded.value,
				updated_at = CURRENT_TIMESTAMP
		`, date, string(MetricTrainingLoad), load)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return newIDs, nil
}

// CountCountedActivities returns the number of ledger entries
func (db *DB) CountCountedActivities() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM counted_activities").Scan(&count)
	return count, err
}
