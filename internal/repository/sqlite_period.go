package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/db"
	"github.com/alexanderramin/hearth/internal/domain"
)

const periodColumns = `id, start_date, end_date, type, status, carryover_from_previous, created_at, updated_at`

// SQLitePeriodRepo implements PeriodRepo over SQLite.
type SQLitePeriodRepo struct {
	db db.DBTX
}

func NewSQLitePeriodRepo(db db.DBTX) *SQLitePeriodRepo {
	return &SQLitePeriodRepo{db: db}
}

func (r *SQLitePeriodRepo) Create(ctx context.Context, p *domain.PlanningPeriod) error {
	query := `INSERT INTO planning_periods (` + periodColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.StartDate.Format(time.RFC3339),
		p.EndDate.Format(time.RFC3339),
		string(p.Type),
		string(p.Status),
		boolToInt(p.CarryoverFromPrevious),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting planning period: %w", err)
	}
	return nil
}

func (r *SQLitePeriodRepo) GetByID(ctx context.Context, id string) (*domain.PlanningPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM planning_periods WHERE id = ?`
	return r.scanPeriod(r.db.QueryRowContext(ctx, query, id))
}

// GetPending returns the open period of the given type, if any. At most one
// pending period per type exists; session start reuses it instead of
// creating a duplicate.
func (r *SQLitePeriodRepo) GetPending(ctx context.Context, periodType domain.PeriodType) (*domain.PlanningPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM planning_periods
		WHERE type = ? AND status = 'pending'
		ORDER BY start_date DESC LIMIT 1`
	return r.scanPeriod(r.db.QueryRowContext(ctx, query, string(periodType)))
}

// SetCarryover records whether the period absorbed carryover from the one
// before it. Session restarts check this to avoid prompting twice.
func (r *SQLitePeriodRepo) SetCarryover(ctx context.Context, id string, carried bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE planning_periods SET carryover_from_previous = ?, updated_at = ? WHERE id = ?`,
		boolToInt(carried), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("setting period carryover flag: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("planning period %s: %w", id, ErrNotFound)
	}
	return nil
}

// Complete transitions pending → completed. Completing a missing or already
// completed period reports ErrNotFound so speculative calls stay harmless.
func (r *SQLitePeriodRepo) Complete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE planning_periods SET status = 'completed', updated_at = ? WHERE id = ? AND status = 'pending'`,
		nowUTC(), id)
	if err != nil {
		return fmt.Errorf("completing planning period: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("pending planning period %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLitePeriodRepo) List(ctx context.Context) ([]*domain.PlanningPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM planning_periods ORDER BY start_date DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing planning periods: %w", err)
	}
	defer rows.Close()

	var periods []*domain.PlanningPeriod
	for rows.Next() {
		p, err := scanPeriodRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating planning periods: %w", err)
	}
	return periods, nil
}

func (r *SQLitePeriodRepo) scanPeriod(row *sql.Row) (*domain.PlanningPeriod, error) {
	p, err := scanPeriodRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("planning period: %w", ErrNotFound)
	}
	return p, err
}

func scanPeriodRow(scan func(dest ...any) error) (*domain.PlanningPeriod, error) {
	var p domain.PlanningPeriod
	var startStr, endStr, typeStr, statusStr, createdStr, updatedStr string
	var carryoverInt int

	err := scan(&p.ID, &startStr, &endStr, &typeStr, &statusStr, &carryoverInt, &createdStr, &updatedStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning planning period: %w", err)
	}

	if p.StartDate, err = time.Parse(time.RFC3339, startStr); err != nil {
		return nil, fmt.Errorf("parsing period start_date: %w", err)
	}
	if p.EndDate, err = time.Parse(time.RFC3339, endStr); err != nil {
		return nil, fmt.Errorf("parsing period end_date: %w", err)
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return nil, fmt.Errorf("parsing period created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing period updated_at: %w", err)
	}
	p.Type = domain.PeriodType(typeStr)
	p.Status = domain.PeriodStatus(statusStr)
	p.CarryoverFromPrevious = intToBool(carryoverInt)
	return &p, nil
}
