package db

import (
	"context"
	"fmt"

	"github.com/Aishakabeer/todolist/pkg/models"
)

// CreateTasks inserts all tasks in one transaction. Either every task is
// stored or none is, and the change hook fires once.
func (db *DB) CreateTasks(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, t := range tasks {
		if err := db.createTask(ctx, tx, t); err != nil {
			return fmt.Errorf("failed to create task %d (%s): %w", i, t.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.triggerChange(ctx)
	return nil
}
