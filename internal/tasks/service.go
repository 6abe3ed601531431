// Package tasks implements the task lifecycle on top of a Repository: form
// validation, create, edit, toggle, delete, listing and the month view that
// combines the calendar grid with the tasks due in that month.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/Aishakabeer/todolist/internal/calendar"
	"github.com/Aishakabeer/todolist/internal/db"
	"github.com/Aishakabeer/todolist/pkg/models"
)

// ErrNotFound is returned for operations on a task id that does not exist.
// Repositories report missing tasks by wrapping it.
var ErrNotFound = db.ErrTaskNotFound

// Repository is the persistence the service needs.
type Repository interface {
	FindByDueDateRange(ctx context.Context, start, end models.Date) ([]*models.Task, error)
	ListTasks(ctx context.Context, completed *bool) ([]*models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	SaveTask(ctx context.Context, t *models.Task) error
	CreateTasks(ctx context.Context, tasks []*models.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// Filter selects tasks by completion state for List.
type Filter string

const (
	FilterAll       Filter = ""
	FilterCompleted Filter = "true"
	FilterPending   Filter = "false"
)

// ParseFilter maps the completed query value onto a Filter. Unknown values
// list everything.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterCompleted, FilterPending:
		return Filter(s)
	default:
		return FilterAll
	}
}

// MonthView is everything a calendar page needs for one month.
type MonthView struct {
	Grid        calendar.MonthGrid
	Weekdays    []string
	TasksByDate map[string][]*models.Task
}

// TasksOn returns the tasks due on date, or nil.
func (v MonthView) TasksOn(date models.Date) []*models.Task {
	return v.TasksByDate[date.String()]
}

type Service struct {
	repo     Repository
	calendar calendar.Builder
}

func NewService(repo Repository, builder calendar.Builder) *Service {
	return &Service{repo: repo, calendar: builder}
}

// Clock returns the clock used for "today".
func (s *Service) Clock() calendar.Clock {
	if s.calendar.Clock == nil {
		return calendar.SystemClock{}
	}
	return s.calendar.Clock
}

// Today is the current date according to the service clock.
func (s *Service) Today() models.Date {
	return calendar.Today(s.Clock())
}

// ParseMonth resolves optional year/month request values against today.
func (s *Service) ParseMonth(year, month string) (int, time.Month) {
	return calendar.ParseYearMonth(year, month, s.Clock().Now())
}

// Month builds the grid for the month and the tasks due in it.
func (s *Service) Month(ctx context.Context, year int, month time.Month) (*MonthView, error) {
	byDate, err := calendar.AggregateByDate(ctx, year, month, s.repo.FindByDueDateRange)
	if err != nil {
		return nil, err
	}
	return &MonthView{
		Grid:        s.calendar.Build(year, month),
		Weekdays:    s.calendar.Weekdays(),
		TasksByDate: byDate,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Task, error) {
	return s.repo.GetTask(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*models.Task, error) {
	var completed *bool
	switch filter {
	case FilterCompleted:
		v := true
		completed = &v
	case FilterPending:
		v := false
		completed = &v
	}
	return s.repo.ListTasks(ctx, completed)
}

// Create validates the form and stores a new task.
func (s *Service) Create(ctx context.Context, f Form) (*models.Task, error) {
	t := &models.Task{}
	if err := f.Validate(t); err != nil {
		return nil, err
	}
	if err := s.repo.SaveTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// CreateMany validates every form and stores the tasks together. A single
// invalid form stores nothing; the error names its position.
func (s *Service) CreateMany(ctx context.Context, forms []Form) ([]*models.Task, error) {
	list := make([]*models.Task, len(forms))
	for i, f := range forms {
		t := &models.Task{}
		if err := f.Validate(t); err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		list[i] = t
	}
	if err := s.repo.CreateTasks(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create tasks: %w", err)
	}
	return list, nil
}

// Update validates the form and applies it to the task with id.
func (s *Service) Update(ctx context.Context, id string, f Form) (*models.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(t); err != nil {
		return t, err
	}
	if err := s.repo.SaveTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	return t, nil
}

// Toggle flips the completion flag of a task and returns the updated task.
func (s *Service) Toggle(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	if err := s.repo.SaveTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteTask(ctx, id)
}
