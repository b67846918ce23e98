package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/db"
	"github.com/alexanderramin/hearth/internal/domain"
)

const instanceColumns = `id, criteria_id, goal_id, date, is_confirmed, status, created_at`

// SQLiteCriteriaRepo implements CriteriaRepo over SQLite. The instance log
// is append-only: there is no update or delete path for instances beyond
// flipping the confirmation flag during carryover review.
type SQLiteCriteriaRepo struct {
	db db.DBTX
}

func NewSQLiteCriteriaRepo(db db.DBTX) *SQLiteCriteriaRepo {
	return &SQLiteCriteriaRepo{db: db}
}

func (r *SQLiteCriteriaRepo) AppendInstance(ctx context.Context, inst *domain.CriteriaInstance) error {
	query := `INSERT INTO criteria_instances (` + instanceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		inst.ID,
		inst.CriteriaID,
		inst.GoalID,
		inst.Date.Format(time.RFC3339),
		boolToInt(inst.IsConfirmed),
		string(inst.Status),
		inst.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending criteria instance: %w", err)
	}
	return nil
}

func (r *SQLiteCriteriaRepo) ListInstances(ctx context.Context, criteriaID string) ([]domain.CriteriaInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM criteria_instances
		WHERE criteria_id = ? ORDER BY date, created_at`
	return r.queryInstances(ctx, query, criteriaID)
}

func (r *SQLiteCriteriaRepo) ListInstancesInRange(ctx context.Context, start, end time.Time) ([]domain.CriteriaInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM criteria_instances
		WHERE date >= ? AND date <= ? ORDER BY criteria_id, date`
	return r.queryInstances(ctx, query, start.Format(time.RFC3339), end.Format(time.RFC3339))
}

func (r *SQLiteCriteriaRepo) SetInstanceConfirmed(ctx context.Context, instanceID string, confirmed bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE criteria_instances SET is_confirmed = ? WHERE id = ?`,
		boolToInt(confirmed), instanceID)
	if err != nil {
		return fmt.Errorf("confirming criteria instance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("criteria instance %s: %w", instanceID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteCriteriaRepo) queryInstances(ctx context.Context, query string, args ...any) ([]domain.CriteriaInstance, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing criteria instances: %w", err)
	}
	defer rows.Close()

	var instances []domain.CriteriaInstance
	for rows.Next() {
		var inst domain.CriteriaInstance
		var dateStr, createdStr, statusStr string
		var confirmedInt int
		if err := rows.Scan(&inst.ID, &inst.CriteriaID, &inst.GoalID, &dateStr, &confirmedInt, &statusStr, &createdStr); err != nil {
			return nil, fmt.Errorf("scanning criteria instance: %w", err)
		}
		if inst.Date, err = time.Parse(time.RFC3339, dateStr); err != nil {
			return nil, fmt.Errorf("parsing instance date: %w", err)
		}
		if inst.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
			return nil, fmt.Errorf("parsing instance created_at: %w", err)
		}
		inst.IsConfirmed = intToBool(confirmedInt)
		inst.Status = domain.CriteriaStatus(statusStr)
		instances = append(instances, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating criteria instances: %w", err)
	}
	return instances, nil
}

func (r *SQLiteCriteriaRepo) GetProgress(ctx context.Context, criteriaID, periodID string) (*domain.CriteriaProgress, error) {
	query := `SELECT id, criteria_id, period_id, target_count, actual_count, status, updated_at
		FROM criteria_progress WHERE criteria_id = ? AND period_id = ?`
	row := r.db.QueryRowContext(ctx, query, criteriaID, periodID)

	var p domain.CriteriaProgress
	var statusStr, updatedStr string
	err := row.Scan(&p.ID, &p.CriteriaID, &p.PeriodID, &p.TargetCount, &p.ActualCount, &statusStr, &updatedStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("criteria progress: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning criteria progress: %w", err)
	}
	p.Status = domain.CriteriaStatus(statusStr)
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing progress updated_at: %w", err)
	}
	return &p, nil
}

func (r *SQLiteCriteriaRepo) ListProgressByPeriod(ctx context.Context, periodID string) ([]*domain.CriteriaProgress, error) {
	query := `SELECT id, criteria_id, period_id, target_count, actual_count, status, updated_at
		FROM criteria_progress WHERE period_id = ? ORDER BY criteria_id`
	rows, err := r.db.QueryContext(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("listing criteria progress: %w", err)
	}
	defer rows.Close()

	var out []*domain.CriteriaProgress
	for rows.Next() {
		var p domain.CriteriaProgress
		var statusStr, updatedStr string
		if err := rows.Scan(&p.ID, &p.CriteriaID, &p.PeriodID, &p.TargetCount, &p.ActualCount, &statusStr, &updatedStr); err != nil {
			return nil, fmt.Errorf("scanning criteria progress row: %w", err)
		}
		p.Status = domain.CriteriaStatus(statusStr)
		if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
			return nil, fmt.Errorf("parsing progress updated_at: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating criteria progress: %w", err)
	}
	return out, nil
}

// UpsertProgress writes the aggregate, keyed by (criteria, period). The
// caller always recomputes the aggregate from the instance log before
// writing, so a blind overwrite is safe here.
func (r *SQLiteCriteriaRepo) UpsertProgress(ctx context.Context, p *domain.CriteriaProgress) error {
	query := `INSERT INTO criteria_progress (id, criteria_id, period_id, target_count, actual_count, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (criteria_id, period_id) DO UPDATE SET
			target_count = excluded.target_count,
			actual_count = excluded.actual_count,
			status = excluded.status,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.CriteriaID,
		p.PeriodID,
		p.TargetCount,
		p.ActualCount,
		string(p.Status),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting criteria progress: %w", err)
	}
	return nil
}
