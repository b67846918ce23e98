package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; ALTER TABLE
// duplicate-column errors from re-runs are tolerated.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS goals (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		time_scale TEXT NOT NULL
		           CHECK(time_scale IN ('daily','weekly','monthly','quarterly','yearly')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS success_criteria (
		id           TEXT PRIMARY KEY,
		goal_id      TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		target_count INTEGER NOT NULL DEFAULT 1 CHECK(target_count > 0),
		frequency    TEXT NOT NULL DEFAULT 'weekly'
		             CHECK(frequency IN ('daily','weekly','monthly','quarterly','yearly'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_success_criteria_goal ON success_criteria(goal_id)`,

	`CREATE TABLE IF NOT EXISTS goal_steps (
		goal_id     TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
		order_index INTEGER NOT NULL,
		title       TEXT NOT NULL,
		PRIMARY KEY (goal_id, order_index)
	)`,

	`CREATE TABLE IF NOT EXISTS calendar_events (
		id             TEXT PRIMARY KEY,
		title          TEXT NOT NULL DEFAULT '',
		start_at       TEXT NOT NULL,
		end_at         TEXT NOT NULL,
		rec_frequency  TEXT
		               CHECK(rec_frequency IS NULL OR rec_frequency IN ('daily','weekly','monthly','yearly')),
		rec_interval   INTEGER,
		rec_days       TEXT,
		rec_count      INTEGER,
		rec_end_date   TEXT,
		rec_exceptions TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS itinerary_items (
		id           TEXT PRIMARY KEY,
		type         TEXT NOT NULL
		             CHECK(type IN ('task','routine','event','project','one-time-task')),
		reference_id TEXT NOT NULL,
		criteria_id  TEXT NOT NULL DEFAULT '',
		title        TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'pending'
		             CHECK(status IN ('pending','completed','cancelled','ongoing')),
		due_date     TEXT,
		target_date  TEXT,
		sched_start  TEXT,
		sched_end    TEXT,
		sched_repeat TEXT
		             CHECK(sched_repeat IS NULL OR sched_repeat IN ('daily','weekly','monthly','quarterly','yearly')),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_itinerary_items_reference ON itinerary_items(reference_id)`,
	`CREATE INDEX IF NOT EXISTS idx_itinerary_items_status ON itinerary_items(status)`,

	`CREATE TABLE IF NOT EXISTS item_schedule_slots (
		item_id     TEXT NOT NULL REFERENCES itinerary_items(id) ON DELETE CASCADE,
		order_index INTEGER NOT NULL,
		day         INTEGER NOT NULL CHECK(day BETWEEN 0 AND 6),
		time        TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (item_id, order_index)
	)`,

	`CREATE TABLE IF NOT EXISTS criteria_instances (
		id           TEXT PRIMARY KEY,
		criteria_id  TEXT NOT NULL,
		goal_id      TEXT NOT NULL,
		date         TEXT NOT NULL,
		is_confirmed INTEGER NOT NULL DEFAULT 0,
		status       TEXT NOT NULL
		             CHECK(status IN ('pending','completed','failed','ongoing')),
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_criteria_instances_criteria ON criteria_instances(criteria_id)`,
	`CREATE INDEX IF NOT EXISTS idx_criteria_instances_date ON criteria_instances(date)`,

	`CREATE TABLE IF NOT EXISTS criteria_progress (
		id           TEXT PRIMARY KEY,
		criteria_id  TEXT NOT NULL,
		period_id    TEXT NOT NULL,
		target_count INTEGER NOT NULL DEFAULT 1,
		actual_count INTEGER NOT NULL DEFAULT 0,
		status       TEXT NOT NULL DEFAULT 'pending'
		             CHECK(status IN ('pending','completed','failed','ongoing')),
		updated_at   TEXT NOT NULL,
		UNIQUE (criteria_id, period_id)
	)`,

	`CREATE TABLE IF NOT EXISTS planning_periods (
		id                      TEXT PRIMARY KEY,
		start_date              TEXT NOT NULL,
		end_date                TEXT NOT NULL,
		type                    TEXT NOT NULL
		                        CHECK(type IN ('weekly','monthly','quarterly')),
		status                  TEXT NOT NULL DEFAULT 'pending'
		                        CHECK(status IN ('pending','completed')),
		carryover_from_previous INTEGER NOT NULL DEFAULT 0,
		created_at              TEXT NOT NULL,
		updated_at              TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_planning_periods_type_status ON planning_periods(type, status)`,

	`CREATE TABLE IF NOT EXISTS weekly_meeting (
		id             INTEGER PRIMARY KEY CHECK(id = 1),
		day_of_week    INTEGER NOT NULL DEFAULT 0 CHECK(day_of_week BETWEEN 0 AND 6),
		preferred_time TEXT NOT NULL DEFAULT '',
		last_completed TEXT,
		updated_at     TEXT NOT NULL
	)`,
}
