package db

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Aishakabeer/todolist/pkg/models"
)

const snapshotVersion = 1

type snapshotMeta struct {
	RecordType string    `json:"record_type"`
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	TaskCount  int       `json:"task_count"`
}

type snapshotTask struct {
	RecordType string `json:"record_type"`
	*models.Task
}

// EnableAutoSnapshot sets up a hook that automatically exports a snapshot
// to the given path after every successful write operation. Export errors
// are passed to onError when it is non-nil.
func (db *DB) EnableAutoSnapshot(path string, onError func(error)) {
	db.SetOnChange(func(ctx context.Context) {
		if err := db.ExportSnapshot(ctx, path); err != nil && onError != nil {
			onError(err)
		}
	})
}

// ExportSnapshot writes every task as one JSON line, preceded by a meta
// line, to path. The file is replaced atomically via a temporary file.
func (db *DB) ExportSnapshot(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tasks, err := db.queryTasks(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY due_date ASC, rowid ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to query snapshot tasks: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "snapshot-*.jsonl")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempFile.Name())
		}
	}()

	w := bufio.NewWriter(tempFile)
	enc := json.NewEncoder(w)

	meta := snapshotMeta{
		RecordType: "meta",
		Version:    snapshotVersion,
		ExportedAt: db.timestamp(),
		TaskCount:  len(tasks),
	}
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("failed to write snapshot meta: %w", err)
	}
	for _, t := range tasks {
		if err := enc.Encode(snapshotTask{RecordType: "task", Task: t}); err != nil {
			return fmt.Errorf("failed to write snapshot task %s: %w", t.ID, err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	filename := tempFile.Name()
	tempFile = nil // Prevent defer from removing it

	if err := os.Rename(filename, path); err != nil {
		os.Remove(filename)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// ImportSnapshot reads a JSONL snapshot and upserts its tasks by id inside a
// single transaction. Tasks without an id get a fresh one. It returns the
// number of task records applied.
func (db *DB) ImportSnapshot(ctx context.Context, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	imported := 0
	lineNo := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var base struct {
			RecordType string `json:"record_type"`
		}
		if err := json.Unmarshal(line, &base); err != nil {
			return 0, fmt.Errorf("line %d: failed to unmarshal record: %w", lineNo, err)
		}

		switch base.RecordType {
		case "meta":
			var meta snapshotMeta
			if err := json.Unmarshal(line, &meta); err != nil {
				return 0, fmt.Errorf("line %d: failed to unmarshal meta: %w", lineNo, err)
			}
			if meta.Version > snapshotVersion {
				return 0, fmt.Errorf("unsupported snapshot version %d", meta.Version)
			}
		case "task":
			var t models.Task
			if err := json.Unmarshal(line, &t); err != nil {
				return 0, fmt.Errorf("line %d: failed to unmarshal task: %w", lineNo, err)
			}
			if err := db.upsertTask(ctx, tx, &t); err != nil {
				return 0, fmt.Errorf("line %d: %w", lineNo, err)
			}
			imported++
		default:
			return 0, fmt.Errorf("line %d: unknown record type %q", lineNo, base.RecordType)
		}
	}

	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scanner error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	db.triggerChange(ctx)
	return imported, nil
}

func (db *DB) upsertTask(ctx context.Context, exec executor, t *models.Task) error {
	if t.Title == "" || t.DueDate.IsZero() {
		return fmt.Errorf("task %q is missing a title or due date", t.ID)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	now := db.timestamp()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}

	_, err := exec.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, due_date, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			due_date = excluded.due_date,
			completed = excluded.completed,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		t.ID, t.Title, t.Description, t.DueDate, boolToInt(t.Completed),
		t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to sync task %s: %w", t.ID, err)
	}
	return nil
}
