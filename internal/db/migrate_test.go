package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestMigrate_Idempotent(t *testing.T) {
	database := openTestDB(t)

	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	database := openTestDB(t)

	expected := []string{
		"goals", "success_criteria", "goal_steps", "calendar_events",
		"itinerary_items", "item_schedule_slots", "criteria_instances",
		"criteria_progress", "planning_periods", "weekly_meeting",
	}
	for _, table := range expected {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	database := openTestDB(t)

	expected := []string{
		"idx_success_criteria_goal",
		"idx_itinerary_items_reference",
		"idx_itinerary_items_status",
		"idx_criteria_instances_criteria",
		"idx_criteria_instances_date",
		"idx_planning_periods_type_status",
	}
	for _, index := range expected {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, index).Scan(&name)
		require.NoError(t, err, "index %s should exist", index)
	}
}

func TestMigrate_WeeklyMeetingIsSingleton(t *testing.T) {
	database := openTestDB(t)

	_, err := database.Exec(`INSERT INTO weekly_meeting (id, day_of_week, updated_at) VALUES (1, 0, '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = database.Exec(`INSERT INTO weekly_meeting (id, day_of_week, updated_at) VALUES (2, 3, '2024-01-01T00:00:00Z')`)
	assert.Error(t, err, "only row id=1 is allowed")
}
