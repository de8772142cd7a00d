package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Normalized per-day metrics (one row per date and metric type)
		`CREATE TABLE IF NOT EXISTS daily_metrics (
			date TEXT NOT NULL,
			metric_type TEXT NOT NULL,
			value REAL NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (date, metric_type)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_daily_metrics_type ON daily_metrics(metric_type, date)`,

		// Workouts observed from the sample source, keyed by provider ID
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL,
			average_heartrate REAL,
			energy_kcal REAL,
			intensity TEXT NOT NULL,
			training_load_score REAL NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date)`,

		// Ledger of workout IDs already folded into training load.
		// Append-only; rows are never updated or deleted.
		`CREATE TABLE IF NOT EXISTS counted_activities (
			id TEXT PRIMARY KEY,
			recorded_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Computed recovery snapshots, one per (date, time of day)
		`CREATE TABLE IF NOT EXISTS recovery_scores (
			id INTEGER PRIMARY KEY,
			date TEXT NOT NULL,
			time_of_day TEXT NOT NULL,
			overall INTEGER NOT NULL,
			overall_raw REAL NOT NULL,
			heart_rate_score INTEGER,
			hrv_score INTEGER,
			sleep_score INTEGER,
			training_score INTEGER,
			stress_score INTEGER,
			computed_at TEXT NOT NULL,
			UNIQUE (date, time_of_day)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_recovery_scores_date ON recovery_scores(date)`,

		// Sync State (key-value store for fetch tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
