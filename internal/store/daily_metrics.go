package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertDailyMetric inserts or replaces the metric for one (date, type).
// Re-running a pass over the same raw samples writes the same value, which
// keeps derivation idempotent.
func (db *DB) UpsertDailyMetric(m *DailyMetric) error {
	_, err := db.Exec(`
		INSERT INTO daily_metrics (date, metric_type, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date, metric_type) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, m.Date.Format(DateKey), string(m.MetricType), m.Value)
	return err
}

// GetDailyMetric retrieves the metric for one (date, type)
func (db *DB) GetDailyMetric(date time.Time, t MetricType) (*DailyMetric, error) {
	row := db.QueryRow(`
		SELECT date, metric_type, value
		FROM daily_metrics
		WHERE date = ? AND metric_type = ?
	`, date.Format(DateKey), string(t))

	m, err := scanDailyMetric(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMetricNotFound
	}
	return m, err
}

// ListDailyMetrics returns metrics of one type within [from, to], oldest first
func (db *DB) ListDailyMetrics(t MetricType, from, to time.Time) ([]DailyMetric, error) {
	rows, err := db.Query(`
		SELECT date, metric_type, value
		FROM daily_metrics
		WHERE metric_type = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, string(t), from.Format(DateKey), to.Format(DateKey))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []DailyMetric
	for rows.Next() {
		var m DailyMetric
		var dateStr, typeStr string

		if err := rows.Scan(&dateStr, &typeStr, &m.Value); err != nil {
			return nil, err
		}

		m.Date, err = time.Parse(DateKey, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", dateStr, err)
		}
		m.MetricType = MetricType(typeStr)

		metrics = append(metrics, m)
	}

	return metrics, rows.Err()
}

// BaselineValues returns up to windowDays values of one metric type from
// the days strictly before date, oldest first. Days without a metric are
// simply absent; the caller decides how to treat a short window.
func (db *DB) BaselineValues(t MetricType, date time.Time, windowDays int) ([]float64, error) {
	from := date.AddDate(0, 0, -windowDays)

	rows, err := db.Query(`
		SELECT value
		FROM daily_metrics
		WHERE metric_type = ? AND date >= ? AND date < ?
		ORDER BY date ASC
	`, string(t), from.Format(DateKey), date.Format(DateKey))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

// scanDailyMetric scans a single daily metric from a row
func scanDailyMetric(row *sql.Row) (*DailyMetric, error) {
	var m DailyMetric
	var dateStr, typeStr string

	err := row.Scan(&dateStr, &typeStr, &m.Value)
	if err != nil {
		return nil, err
	}

	m.Date, err = time.Parse(DateKey, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", dateStr, err)
	}
	m.MetricType = MetricType(typeStr)

	return &m, nil
}
