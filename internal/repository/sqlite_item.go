package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/db"
	"github.com/alexanderramin/hearth/internal/domain"
)

const itemColumns = `id, type, reference_id, criteria_id, title, status,
		due_date, target_date, sched_start, sched_end, sched_repeat, created_at, updated_at`

// SQLiteItemRepo implements ItemRepo over SQLite. Schedule slots live in a
// child table keyed by item and position.
type SQLiteItemRepo struct {
	db db.DBTX
}

func NewSQLiteItemRepo(db db.DBTX) *SQLiteItemRepo {
	return &SQLiteItemRepo{db: db}
}

func (r *SQLiteItemRepo) Create(ctx context.Context, i *domain.ItineraryItem) error {
	query := `INSERT INTO itinerary_items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var schedStart, schedEnd, schedRepeat interface{}
	if i.Schedule != nil {
		schedStart = i.Schedule.StartDate.Format(time.RFC3339)
		schedEnd = nullableTimeToString(i.Schedule.EndDate, time.RFC3339)
		if i.Schedule.Repeat != nil {
			schedRepeat = string(*i.Schedule.Repeat)
		}
	}

	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		string(i.Type),
		i.ReferenceID,
		i.CriteriaID,
		i.Title,
		string(i.Status),
		nullableTimeToString(i.DueDate, dateLayout),
		nullableTimeToString(i.TargetDate, dateLayout),
		schedStart,
		schedEnd,
		schedRepeat,
		i.CreatedAt.Format(time.RFC3339),
		i.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting itinerary item: %w", err)
	}
	return r.writeSlots(ctx, i)
}

func (r *SQLiteItemRepo) writeSlots(ctx context.Context, i *domain.ItineraryItem) error {
	if i.Schedule == nil {
		return nil
	}
	for idx, slot := range i.Schedule.Slots {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO item_schedule_slots (item_id, order_index, day, time) VALUES (?, ?, ?, ?)`,
			i.ID, idx, slot.Day, slot.Time)
		if err != nil {
			return fmt.Errorf("inserting schedule slot: %w", err)
		}
	}
	return nil
}

func (r *SQLiteItemRepo) GetByID(ctx context.Context, id string) (*domain.ItineraryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM itinerary_items WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	item, err := scanItemRow(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("itinerary item: %w", ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadSlots(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *SQLiteItemRepo) List(ctx context.Context) ([]*domain.ItineraryItem, error) {
	return r.queryItems(ctx, `SELECT `+itemColumns+` FROM itinerary_items ORDER BY created_at`)
}

func (r *SQLiteItemRepo) ListByReference(ctx context.Context, referenceID string) ([]*domain.ItineraryItem, error) {
	return r.queryItems(ctx,
		`SELECT `+itemColumns+` FROM itinerary_items WHERE reference_id = ? ORDER BY created_at`,
		referenceID)
}

func (r *SQLiteItemRepo) queryItems(ctx context.Context, query string, args ...any) ([]*domain.ItineraryItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing itinerary items: %w", err)
	}
	defer rows.Close()

	var items []*domain.ItineraryItem
	for rows.Next() {
		item, err := scanItemRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating itinerary items: %w", err)
	}
	for _, item := range items {
		if err := r.loadSlots(ctx, item); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *SQLiteItemRepo) loadSlots(ctx context.Context, i *domain.ItineraryItem) error {
	if i.Schedule == nil {
		return nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT day, time FROM item_schedule_slots WHERE item_id = ? ORDER BY order_index`, i.ID)
	if err != nil {
		return fmt.Errorf("listing schedule slots: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var slot domain.ScheduleSlot
		if err := rows.Scan(&slot.Day, &slot.Time); err != nil {
			return fmt.Errorf("scanning schedule slot: %w", err)
		}
		i.Schedule.Slots = append(i.Schedule.Slots, slot)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating schedule slots: %w", err)
	}
	return nil
}

func (r *SQLiteItemRepo) Update(ctx context.Context, i *domain.ItineraryItem) error {
	query := `UPDATE itinerary_items SET type = ?, reference_id = ?, criteria_id = ?, title = ?, status = ?,
		due_date = ?, target_date = ?, sched_start = ?, sched_end = ?, sched_repeat = ?, updated_at = ?
		WHERE id = ?`

	var schedStart, schedEnd, schedRepeat interface{}
	if i.Schedule != nil {
		schedStart = i.Schedule.StartDate.Format(time.RFC3339)
		schedEnd = nullableTimeToString(i.Schedule.EndDate, time.RFC3339)
		if i.Schedule.Repeat != nil {
			schedRepeat = string(*i.Schedule.Repeat)
		}
	}

	_, err := r.db.ExecContext(ctx, query,
		string(i.Type),
		i.ReferenceID,
		i.CriteriaID,
		i.Title,
		string(i.Status),
		nullableTimeToString(i.DueDate, dateLayout),
		nullableTimeToString(i.TargetDate, dateLayout),
		schedStart,
		schedEnd,
		schedRepeat,
		i.UpdatedAt.Format(time.RFC3339),
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating itinerary item: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM item_schedule_slots WHERE item_id = ?`, i.ID); err != nil {
		return fmt.Errorf("clearing schedule slots: %w", err)
	}
	return r.writeSlots(ctx, i)
}

func (r *SQLiteItemRepo) UpdateStatus(ctx context.Context, id string, status domain.ItemStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE itinerary_items SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("itinerary item %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM itinerary_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting itinerary item: %w", err)
	}
	return nil
}

func scanItemRow(scan func(dest ...any) error) (*domain.ItineraryItem, error) {
	var i domain.ItineraryItem
	var typeStr, statusStr, createdStr, updatedStr string
	var dueStr, targetStr, schedStartStr, schedEndStr, schedRepeatStr sql.NullString

	err := scan(
		&i.ID, &typeStr, &i.ReferenceID, &i.CriteriaID, &i.Title, &statusStr,
		&dueStr, &targetStr, &schedStartStr, &schedEndStr, &schedRepeatStr,
		&createdStr, &updatedStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning itinerary item: %w", err)
	}

	i.Type = domain.ItemType(typeStr)
	i.Status = domain.ItemStatus(statusStr)
	i.DueDate = parseNullableTime(dueStr, dateLayout)
	i.TargetDate = parseNullableTime(targetStr, dateLayout)

	if schedStartStr.Valid && schedStartStr.String != "" {
		sched := &domain.Schedule{}
		start, err := time.Parse(time.RFC3339, schedStartStr.String)
		if err != nil {
			return nil, fmt.Errorf("parsing schedule start: %w", err)
		}
		sched.StartDate = start
		sched.EndDate = parseNullableTime(schedEndStr, time.RFC3339)
		if schedRepeatStr.Valid && schedRepeatStr.String != "" {
			repeat := domain.TimeScale(schedRepeatStr.String)
			sched.Repeat = &repeat
		}
		i.Schedule = sched
	}

	if i.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return nil, fmt.Errorf("parsing item created_at: %w", err)
	}
	if i.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing item updated_at: %w", err)
	}
	return &i, nil
}
