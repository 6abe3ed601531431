package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.Year != 2024 || d.Month != time.February || d.Day != 29 {
		t.Errorf("unexpected date %+v", d)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("expected 2024-02-29, got %s", d.String())
	}

	for _, bad := range []string{"", "2023-02-29", "2024-13-01", "15/03/2024"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestNewDateNormalizes(t *testing.T) {
	if got := NewDate(2024, time.February, 30).String(); got != "2024-03-01" {
		t.Errorf("expected 2024-03-01, got %s", got)
	}
	if got := NewDate(2024, time.January, 1).AddDays(-1).String(); got != "2023-12-31" {
		t.Errorf("expected 2023-12-31, got %s", got)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan("2024-03-15"); err != nil {
		t.Fatalf("Scan string failed: %v", err)
	}
	if d.String() != "2024-03-15" {
		t.Errorf("expected 2024-03-15, got %s", d)
	}

	if err := d.Scan([]byte("2024-03-16 00:00:00")); err != nil {
		t.Fatalf("Scan bytes failed: %v", err)
	}
	if d.String() != "2024-03-16" {
		t.Errorf("expected 2024-03-16, got %s", d)
	}

	if err := d.Scan(time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan time failed: %v", err)
	}
	if d.String() != "2024-03-17" {
		t.Errorf("expected 2024-03-17, got %s", d)
	}

	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestDateJSON(t *testing.T) {
	task := Task{Title: "x", DueDate: NewDate(2024, time.March, 15)}
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if raw["due_date"] != "2024-03-15" {
		t.Errorf("expected due_date 2024-03-15, got %v", raw["due_date"])
	}

	var back Task
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal task failed: %v", err)
	}
	if back.DueDate != task.DueDate {
		t.Errorf("expected %s, got %s", task.DueDate, back.DueDate)
	}
}

func TestDateCompare(t *testing.T) {
	a := NewDate(2024, time.March, 1)
	b := NewDate(2024, time.March, 2)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("unexpected Compare results")
	}
}
