package tasks

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Aishakabeer/todolist/pkg/models"
)

// Form holds the user-editable task fields as submitted, before validation.
type Form struct {
	Title       string
	Description string
	DueDate     string
	Completed   bool
}

// FormFromValues reads a submitted HTML form. A checkbox is completed when
// present with any value other than "false", "0" or "off".
func FormFromValues(v url.Values) Form {
	f := Form{
		Title:       strings.TrimSpace(v.Get("title")),
		Description: strings.TrimSpace(v.Get("description")),
		DueDate:     strings.TrimSpace(v.Get("due_date")),
	}
	if v.Has("completed") {
		switch strings.ToLower(v.Get("completed")) {
		case "false", "0", "off":
		default:
			f.Completed = true
		}
	}
	return f
}

// FormFromTask pre-fills a form for editing an existing task.
func FormFromTask(t *models.Task) Form {
	return Form{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.String(),
		Completed:   t.Completed,
	}
}

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// ValidationError is returned when a form fails validation. Nothing has
// been written when it is returned.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return "invalid task: " + strings.Join(parts, "; ")
}

// Validate checks the form and, when it is valid, applies it to t. Text
// fields are trimmed first, so a blank title counts as missing.
func (f Form) Validate(t *models.Task) error {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.DueDate = strings.TrimSpace(f.DueDate)

	errs := FieldErrors{}

	switch {
	case f.Title == "":
		errs["title"] = "This field is required."
	case utf8.RuneCountInString(f.Title) > models.TitleMaxLength:
		errs["title"] = fmt.Sprintf("Ensure this value has at most %d characters.", models.TitleMaxLength)
	}

	var due models.Date
	if f.DueDate == "" {
		errs["due_date"] = "This field is required."
	} else {
		d, err := models.ParseDate(f.DueDate)
		if err != nil {
			errs["due_date"] = "Enter a valid date (YYYY-MM-DD)."
		}
		due = d
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	t.Title = f.Title
	t.Description = f.Description
	t.DueDate = due
	t.Completed = f.Completed
	return nil
}
