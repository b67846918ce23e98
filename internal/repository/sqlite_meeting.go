package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/db"
	"github.com/alexanderramin/hearth/internal/domain"
)

// SQLiteMeetingRepo implements MeetingRepo over SQLite. The config is a
// single row with a fixed id.
type SQLiteMeetingRepo struct {
	db db.DBTX
}

func NewSQLiteMeetingRepo(db db.DBTX) *SQLiteMeetingRepo {
	return &SQLiteMeetingRepo{db: db}
}

func (r *SQLiteMeetingRepo) Get(ctx context.Context) (*domain.WeeklyMeeting, error) {
	query := `SELECT day_of_week, preferred_time, last_completed, updated_at
		FROM weekly_meeting WHERE id = 1`
	row := r.db.QueryRowContext(ctx, query)

	var m domain.WeeklyMeeting
	var lastStr sql.NullString
	var updatedStr string
	err := row.Scan(&m.DayOfWeek, &m.PreferredTime, &lastStr, &updatedStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("weekly meeting: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning weekly meeting: %w", err)
	}
	m.LastCompleted = parseNullableTime(lastStr, time.RFC3339)
	if m.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing meeting updated_at: %w", err)
	}
	return &m, nil
}

func (r *SQLiteMeetingRepo) Upsert(ctx context.Context, m *domain.WeeklyMeeting) error {
	query := `INSERT INTO weekly_meeting (id, day_of_week, preferred_time, last_completed, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			day_of_week = excluded.day_of_week,
			preferred_time = excluded.preferred_time,
			last_completed = excluded.last_completed,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		m.DayOfWeek,
		m.PreferredTime,
		nullableTimeToString(m.LastCompleted, time.RFC3339),
		m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting weekly meeting: %w", err)
	}
	return nil
}

// StampCompleted records the completion instant of a planning session.
func (r *SQLiteMeetingRepo) StampCompleted(ctx context.Context, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE weekly_meeting SET last_completed = ?, updated_at = ? WHERE id = 1`,
		at.Format(time.RFC3339), nowUTC())
	if err != nil {
		return fmt.Errorf("stamping meeting completion: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("weekly meeting: %w", ErrNotFound)
	}
	return nil
}
