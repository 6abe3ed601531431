package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Aishakabeer/todolist/pkg/models"
)

const taskColumns = `id, title, description, due_date, completed, created_at, updated_at`

// CreateTask inserts a new task into the database.
// If t.ID is empty, a new UUID is generated. CreatedAt and UpdatedAt are
// always set by the store.
func (db *DB) CreateTask(ctx context.Context, t *models.Task) error {
	if err := db.createTask(ctx, db.DB, t); err != nil {
		return err
	}

	db.triggerChange(ctx)
	return nil
}

func (db *DB) createTask(ctx context.Context, exec executor, t *models.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	now := db.timestamp()
	query := `
		INSERT INTO tasks (id, title, description, due_date, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := exec.ExecContext(ctx, query,
		t.ID, t.Title, t.Description, t.DueDate, boolToInt(t.Completed), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// SaveTask creates t when it has no ID yet and updates it otherwise.
func (db *DB) SaveTask(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		return db.CreateTask(ctx, t)
	}
	return db.UpdateTask(ctx, t)
}

// GetTask retrieves a task by its ID. It returns ErrTaskNotFound when no
// such task exists.
func (db *DB) GetTask(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// ListTasks returns all tasks, latest due date first, optionally filtered by
// completion state.
func (db *DB) ListTasks(ctx context.Context, completed *bool) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	args := []any{}

	if completed != nil {
		query += " AND completed = ?"
		args = append(args, boolToInt(*completed))
	}

	query += " ORDER BY due_date DESC, created_at ASC, rowid ASC"

	return db.queryTasks(ctx, query, args...)
}

// FindByDueDateRange returns the tasks due within [start, end] inclusive,
// ordered by due date with ties kept in insertion order.
func (db *DB) FindByDueDateRange(ctx context.Context, start, end models.Date) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE due_date BETWEEN ? AND ?
		ORDER BY due_date ASC, rowid ASC
	`
	return db.queryTasks(ctx, query, start, end)
}

// CountTasks returns the total number of tasks and how many are completed.
func (db *DB) CountTasks(ctx context.Context) (total, completed int, err error) {
	query := `SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM tasks`
	if err := db.QueryRowContext(ctx, query).Scan(&total, &completed); err != nil {
		return 0, 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return total, completed, nil
}

// queryTasks is a helper to execute a query that returns a list of tasks.
func (db *DB) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	var completed int
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.DueDate, &completed, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Completed = completed == 1
	return t, nil
}

// UpdateTask writes the user-editable fields of an existing task and bumps
// UpdatedAt. CreatedAt is never changed.
func (db *DB) UpdateTask(ctx context.Context, t *models.Task) error {
	now := db.timestamp()
	query := `
		UPDATE tasks
		SET title = ?, description = ?, due_date = ?, completed = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := db.ExecContext(ctx, query,
		t.Title, t.Description, t.DueDate, boolToInt(t.Completed), now, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, t.ID)
	}

	t.UpdatedAt = now
	db.triggerChange(ctx)
	return nil
}

// DeleteTask deletes a task by its ID.
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	db.triggerChange(ctx)
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
