package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/hearth/internal/db"
	"github.com/alexanderramin/hearth/internal/domain"
)

// SQLiteGoalRepo implements GoalRepo over SQLite. Success criteria and steps
// are stored in child tables and loaded with their goal.
type SQLiteGoalRepo struct {
	db db.DBTX
}

func NewSQLiteGoalRepo(db db.DBTX) *SQLiteGoalRepo {
	return &SQLiteGoalRepo{db: db}
}

func (r *SQLiteGoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	query := `INSERT INTO goals (id, title, time_scale, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.Title,
		string(g.TimeScale),
		g.CreatedAt.Format(time.RFC3339),
		g.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting goal: %w", err)
	}
	if err := r.writeChildren(ctx, g); err != nil {
		return err
	}
	return nil
}

func (r *SQLiteGoalRepo) writeChildren(ctx context.Context, g *domain.Goal) error {
	for _, c := range g.Criteria {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO success_criteria (id, goal_id, title, target_count, frequency)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID, g.ID, c.Title, c.TargetCount, string(c.Frequency))
		if err != nil {
			return fmt.Errorf("inserting success criterion: %w", err)
		}
	}
	for i, step := range g.Steps {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO goal_steps (goal_id, order_index, title) VALUES (?, ?, ?)`,
			g.ID, i, step)
		if err != nil {
			return fmt.Errorf("inserting goal step: %w", err)
		}
	}
	return nil
}

func (r *SQLiteGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	query := `SELECT id, title, time_scale, created_at, updated_at FROM goals WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	g, err := scanGoalRow(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("goal: %w", ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadChildren(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *SQLiteGoalRepo) List(ctx context.Context) ([]*domain.Goal, error) {
	return r.queryGoals(ctx, `SELECT id, title, time_scale, created_at, updated_at FROM goals ORDER BY created_at`)
}

// ListByTimeScales returns goals whose cycle matches any of the given
// scales, e.g. the weekly set plus whichever larger scales a session should
// surface this week.
func (r *SQLiteGoalRepo) ListByTimeScales(ctx context.Context, scales []domain.TimeScale) ([]*domain.Goal, error) {
	if len(scales) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(scales)), ", ")
	query := `SELECT id, title, time_scale, created_at, updated_at FROM goals
		WHERE time_scale IN (` + placeholders + `) ORDER BY created_at`
	args := make([]any, len(scales))
	for i, s := range scales {
		args[i] = string(s)
	}
	return r.queryGoals(ctx, query, args...)
}

func (r *SQLiteGoalRepo) queryGoals(ctx context.Context, query string, args ...any) ([]*domain.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		g, err := scanGoalRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}
	for _, g := range goals {
		if err := r.loadChildren(ctx, g); err != nil {
			return nil, err
		}
	}
	return goals, nil
}

func (r *SQLiteGoalRepo) loadChildren(ctx context.Context, g *domain.Goal) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, goal_id, title, target_count, frequency FROM success_criteria WHERE goal_id = ? ORDER BY id`,
		g.ID)
	if err != nil {
		return fmt.Errorf("listing success criteria: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.SuccessCriterion
		var freqStr string
		if err := rows.Scan(&c.ID, &c.GoalID, &c.Title, &c.TargetCount, &freqStr); err != nil {
			return fmt.Errorf("scanning success criterion: %w", err)
		}
		c.Frequency = domain.TimeScale(freqStr)
		g.Criteria = append(g.Criteria, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating success criteria: %w", err)
	}

	stepRows, err := r.db.QueryContext(ctx,
		`SELECT title FROM goal_steps WHERE goal_id = ? ORDER BY order_index`, g.ID)
	if err != nil {
		return fmt.Errorf("listing goal steps: %w", err)
	}
	defer stepRows.Close()
	for stepRows.Next() {
		var step string
		if err := stepRows.Scan(&step); err != nil {
			return fmt.Errorf("scanning goal step: %w", err)
		}
		g.Steps = append(g.Steps, step)
	}
	if err := stepRows.Err(); err != nil {
		return fmt.Errorf("iterating goal steps: %w", err)
	}
	return nil
}

func (r *SQLiteGoalRepo) Update(ctx context.Context, g *domain.Goal) error {
	query := `UPDATE goals SET title = ?, time_scale = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		g.Title, string(g.TimeScale), g.UpdatedAt.Format(time.RFC3339), g.ID)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}
	// Children are replaced wholesale; goals carry few of either.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM success_criteria WHERE goal_id = ?`, g.ID); err != nil {
		return fmt.Errorf("clearing success criteria: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM goal_steps WHERE goal_id = ?`, g.ID); err != nil {
		return fmt.Errorf("clearing goal steps: %w", err)
	}
	return r.writeChildren(ctx, g)
}

func (r *SQLiteGoalRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	return nil
}

func scanGoalRow(scan func(dest ...any) error) (*domain.Goal, error) {
	var g domain.Goal
	var scaleStr, createdStr, updatedStr string
	err := scan(&g.ID, &g.Title, &scaleStr, &createdStr, &updatedStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning goal: %w", err)
	}
	g.TimeScale = domain.TimeScale(scaleStr)
	if g.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return nil, fmt.Errorf("parsing goal created_at: %w", err)
	}
	if g.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing goal updated_at: %w", err)
	}
	return &g, nil
}
