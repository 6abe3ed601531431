package tasks

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aishakabeer/todolist/internal/calendar"
	"github.com/Aishakabeer/todolist/internal/db"
	"github.com/Aishakabeer/todolist/pkg/models"
)

func newTestService(t *testing.T) (*Service, *db.DB) {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Init(context.Background()))

	clock := calendar.FixedClock(time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC))
	return NewService(database, calendar.NewBuilder(clock)), database
}

func validForm(title, due string) Form {
	return Form{Title: title, DueDate: due}
}

func TestCreateAppearsInMonthAndDeleteRemovesKey(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, validForm("Pay rent", "2024-03-15"))
	require.NoError(t, err)

	view, err := svc.Month(ctx, 2024, time.March)
	require.NoError(t, err)
	require.Len(t, view.TasksByDate["2024-03-15"], 1)
	assert.Equal(t, task.ID, view.TasksByDate["2024-03-15"][0].ID)
	assert.Equal(t, view.TasksByDate["2024-03-15"], view.TasksOn(models.NewDate(2024, time.March, 15)))

	require.NoError(t, svc.Delete(ctx, task.ID))

	view, err = svc.Month(ctx, 2024, time.March)
	require.NoError(t, err)
	_, ok := view.TasksByDate["2024-03-15"]
	assert.False(t, ok, "deleted task must remove the key, not leave an empty list")
}

func TestMonthViewOrderingAndToday(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, f := range []Form{
		validForm("late", "2024-03-20"),
		validForm("first", "2024-03-05"),
		validForm("second", "2024-03-05"),
		validForm("other month", "2024-04-05"),
	} {
		_, err := svc.Create(ctx, f)
		require.NoError(t, err)
	}

	view, err := svc.Month(ctx, 2024, time.March)
	require.NoError(t, err)

	assert.Len(t, view.TasksByDate, 2)
	var titles []string
	for _, task := range view.TasksByDate["2024-03-05"] {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"first", "second"}, titles)

	var today []int
	for _, w := range view.Grid.Weeks {
		for _, c := range w {
			if c != nil && c.IsToday {
				today = append(today, c.Day)
			}
		}
	}
	assert.Equal(t, []int{10}, today)
	assert.Equal(t, "Mon", view.Weekdays[0])
	assert.Equal(t, "2024-03-10", svc.Today().String())
}

func TestToggleTwiceRestoresState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, validForm("Toggle me", "2024-03-01"))
	require.NoError(t, err)
	require.False(t, task.Completed)

	toggled, err := svc.Toggle(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, task.Title, toggled.Title)
	assert.Equal(t, task.DueDate, toggled.DueDate)

	again, err := svc.Toggle(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, again.Completed)

	stored, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
	assert.True(t, stored.CreatedAt.Equal(task.CreatedAt))
	assert.False(t, stored.UpdatedAt.Before(stored.CreatedAt))
}

func TestNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Toggle(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, "nope", validForm("x", "2024-01-01"))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "nope"), ErrNotFound)
}

func TestCreateValidationSavesNothing(t *testing.T) {
	svc, database := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Form{Title: "", DueDate: "not-a-date"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "due_date")

	total, _, err := database.CountTasks(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateMany(t *testing.T) {
	svc, database := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMany(ctx, []Form{
		validForm("one", "2024-03-01"),
		validForm("two", "2024-03-01"),
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	view, err := svc.Month(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.Len(t, view.TasksByDate["2024-03-01"], 2)

	_, err = svc.CreateMany(ctx, []Form{validForm("ok", "2024-03-02"), validForm("", "2024-03-02")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "task 1")

	total, _, err := database.CountTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, validForm("Draft", "2024-03-01"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, task.ID, Form{
		Title:       "Final",
		Description: "with notes",
		DueDate:     "2024-03-02",
		Completed:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "with notes", updated.Description)
	assert.Equal(t, "2024-03-02", updated.DueDate.String())
	assert.True(t, updated.Completed)

	// A failed update leaves the stored task untouched.
	_, err = svc.Update(ctx, task.ID, Form{Title: "", DueDate: "2024-03-03"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	stored, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", stored.Title)
	assert.Equal(t, "2024-03-02", stored.DueDate.String())
}

func TestListFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	open, err := svc.Create(ctx, validForm("open", "2024-03-01"))
	require.NoError(t, err)
	done, err := svc.Create(ctx, Form{Title: "done", DueDate: "2024-03-02", Completed: true})
	require.NoError(t, err)

	all, err := svc.List(ctx, ParseFilter(""))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed, err := svc.List(ctx, ParseFilter("true"))
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, done.ID, completed[0].ID)

	pending, err := svc.List(ctx, ParseFilter("false"))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, open.ID, pending[0].ID)

	assert.Equal(t, FilterAll, ParseFilter("maybe"))
}

func TestParseMonthFallsBackToClock(t *testing.T) {
	svc, _ := newTestService(t)

	y, m := svc.ParseMonth("abc", "")
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.March, m)

	y, m = svc.ParseMonth("2025", "12")
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.December, m)
}

func TestFormFromValues(t *testing.T) {
	v := url.Values{}
	v.Set("title", "  Buy milk ")
	v.Set("description", "2 litres")
	v.Set("due_date", "2024-03-15")
	v.Set("completed", "on")

	f := FormFromValues(v)
	assert.Equal(t, Form{Title: "Buy milk", Description: "2 litres", DueDate: "2024-03-15", Completed: true}, f)

	v.Set("completed", "false")
	assert.False(t, FormFromValues(v).Completed)

	v.Del("completed")
	assert.False(t, FormFromValues(v).Completed)
}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name       string
		form       Form
		wantFields []string
	}{
		{"valid", Form{Title: "ok", DueDate: "2024-02-29"}, nil},
		{"missing title", Form{DueDate: "2024-02-29"}, []string{"title"}},
		{"blank title", Form{Title: " \t ", DueDate: "2024-02-29"}, []string{"title"}},
		{"long title", Form{Title: strings.Repeat("x", models.TitleMaxLength+1), DueDate: "2024-02-29"}, []string{"title"}},
		{"max title", Form{Title: strings.Repeat("é", models.TitleMaxLength), DueDate: "2024-02-29"}, nil},
		{"missing date", Form{Title: "ok"}, []string{"due_date"}},
		{"invalid leap day", Form{Title: "ok", DueDate: "2023-02-29"}, []string{"due_date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &models.Task{}
			err := tt.form.Validate(task)
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.form.Title, task.Title)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.wantFields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.wantFields))
			assert.Empty(t, task.Title, "invalid form must not touch the task")
		})
	}
}

func TestCreateTrimsTextFields(t *testing.T) {
	svc, database := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Form{Title: "   ", DueDate: "2024-03-15"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")

	total, _, err := database.CountTasks(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	task, err := svc.Create(ctx, Form{Title: "  Pay rent ", Description: " landlord\n", DueDate: " 2024-03-15 "})
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", task.Title)
	assert.Equal(t, "landlord", task.Description)
	assert.Equal(t, "2024-03-15", task.DueDate.String())

	_, err = svc.Update(ctx, task.ID, Form{Title: " ", DueDate: "2024-03-15"})
	require.ErrorAs(t, err, &verr)
	got, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", got.Title)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: FieldErrors{"title": "required", "due_date": "bad"}}
	assert.Equal(t, "invalid task: due_date: bad; title: required", err.Error())
}
