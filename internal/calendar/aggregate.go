package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/Aishakabeer/todolist/pkg/models"
)

// RangeQuery returns every task due within [start, end] inclusive, ordered by
// due date and then creation order.
type RangeQuery func(ctx context.Context, start, end models.Date) ([]*models.Task, error)

// AggregateByDate fetches the tasks due in month and groups them by the ISO
// form of their due date. Days without tasks have no key.
func AggregateByDate(ctx context.Context, year int, month time.Month, query RangeQuery) (map[string][]*models.Task, error) {
	start, end := MonthRange(year, month)
	tasks, err := query(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for %04d-%02d: %w", year, int(month), err)
	}

	byDate := make(map[string][]*models.Task)
	for _, t := range tasks {
		key := t.DueDate.String()
		byDate[key] = append(byDate[key], t)
	}
	return byDate, nil
}
