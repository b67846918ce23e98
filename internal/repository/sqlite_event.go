package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/db"
	"github.com/alexanderramin/hearth/internal/domain"
)

const eventColumns = `id, title, start_at, end_at,
		rec_frequency, rec_interval, rec_days, rec_count, rec_end_date, rec_exceptions,
		created_at, updated_at`

// SQLiteEventRepo implements EventRepo over SQLite. Only defining events are
// stored; derived instances live and die with the query that produced them.
type SQLiteEventRepo struct {
	db db.DBTX
}

func NewSQLiteEventRepo(db db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: db}
}

func (r *SQLiteEventRepo) Create(ctx context.Context, e *domain.CalendarEvent) error {
	if e.IsDerived() {
		return fmt.Errorf("derived event instance %s cannot be persisted", e.ID)
	}
	query := `INSERT INTO calendar_events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := r.eventArgs(e)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting calendar event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepo) eventArgs(e *domain.CalendarEvent) []any {
	var freq interface{}
	var interval, count interface{}
	var days, endDate, exceptions interface{}
	if e.Recurrence != nil {
		freq = string(e.Recurrence.Frequency)
		interval = e.Recurrence.Interval
		days = encodeIntSlice(e.Recurrence.DaysOfWeek.Sorted())
		count = nullableIntToValue(e.Recurrence.Count)
		endDate = nullableTimeToString(e.Recurrence.EndDate, dateLayout)
		exceptions = encodeDateSlice(e.Recurrence.Exceptions)
	}
	return []any{
		e.ID,
		e.Title,
		e.Start.Format(time.RFC3339),
		e.End.Format(time.RFC3339),
		freq,
		interval,
		days,
		count,
		endDate,
		exceptions,
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	}
}

func (r *SQLiteEventRepo) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	e, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("calendar event: %w", ErrNotFound)
	}
	return e, err
}

func (r *SQLiteEventRepo) List(ctx context.Context) ([]*domain.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events ORDER BY start_at`
	return r.queryEvents(ctx, query)
}

// ListInRange returns defining events whose own span or recurrence could
// intersect [start, end]: single events overlapping the window plus every
// recurring event starting on or before the window's end.
func (r *SQLiteEventRepo) ListInRange(ctx context.Context, start, end time.Time) ([]*domain.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events
		WHERE (rec_frequency IS NULL AND end_at >= ? AND start_at <= ?)
		   OR (rec_frequency IS NOT NULL AND start_at <= ?)
		ORDER BY start_at`
	return r.queryEvents(ctx, query,
		start.Format(time.RFC3339), end.Format(time.RFC3339), end.Format(time.RFC3339))
}

func (r *SQLiteEventRepo) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing calendar events: %w", err)
	}
	defer rows.Close()

	var events []*domain.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendar events: %w", err)
	}
	return events, nil
}

func (r *SQLiteEventRepo) Update(ctx context.Context, e *domain.CalendarEvent) error {
	if e.IsDerived() {
		return fmt.Errorf("derived event instance %s cannot be persisted", e.ID)
	}
	query := `UPDATE calendar_events SET title = ?, start_at = ?, end_at = ?,
		rec_frequency = ?, rec_interval = ?, rec_days = ?, rec_count = ?, rec_end_date = ?, rec_exceptions = ?,
		updated_at = ?
		WHERE id = ?`
	var freq, interval, days, count, endDate, exceptions interface{}
	if e.Recurrence != nil {
		freq = string(e.Recurrence.Frequency)
		interval = e.Recurrence.Interval
		days = encodeIntSlice(e.Recurrence.DaysOfWeek.Sorted())
		count = nullableIntToValue(e.Recurrence.Count)
		endDate = nullableTimeToString(e.Recurrence.EndDate, dateLayout)
		exceptions = encodeDateSlice(e.Recurrence.Exceptions)
	}
	_, err := r.db.ExecContext(ctx, query,
		e.Title,
		e.Start.Format(time.RFC3339),
		e.End.Format(time.RFC3339),
		freq, interval, days, count, endDate, exceptions,
		e.UpdatedAt.Format(time.RFC3339),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating calendar event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting calendar event: %w", err)
	}
	return nil
}

func scanEvent(scan func(dest ...any) error) (*domain.CalendarEvent, error) {
	var e domain.CalendarEvent
	var startStr, endStr, createdStr, updatedStr string
	var freqStr, daysStr, endDateStr, exceptionsStr sql.NullString
	var intervalVal, countVal sql.NullInt64

	err := scan(
		&e.ID, &e.Title, &startStr, &endStr,
		&freqStr, &intervalVal, &daysStr, &countVal, &endDateStr, &exceptionsStr,
		&createdStr, &updatedStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning calendar event: %w", err)
	}

	if e.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return nil, fmt.Errorf("parsing event start: %w", err)
	}
	if e.End, err = time.Parse(time.RFC3339, endStr); err != nil {
		return nil, fmt.Errorf("parsing event end: %w", err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return nil, fmt.Errorf("parsing event created_at: %w", err)
	}
	if e.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing event updated_at: %w", err)
	}

	if freqStr.Valid && freqStr.String != "" {
		rule := &domain.RecurrenceRule{
			Frequency: domain.TimeScale(freqStr.String),
			Interval:  1,
		}
		if intervalVal.Valid {
			rule.Interval = int(intervalVal.Int64)
		}
		days, err := decodeIntSlice(daysStr)
		if err != nil {
			return nil, err
		}
		if len(days) > 0 {
			rule.DaysOfWeek = domain.NewWeekdaySet(days...)
		}
		if countVal.Valid {
			c := int(countVal.Int64)
			rule.Count = &c
		}
		rule.EndDate = parseNullableTime(endDateStr, dateLayout)
		exceptions, err := decodeDateSlice(exceptionsStr)
		if err != nil {
			return nil, err
		}
		rule.Exceptions = exceptions
		e.Recurrence = rule
	}

	return &e, nil
}
