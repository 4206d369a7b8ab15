package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tasktrack/date"
	"tasktrack/model"
)

// record mirrors model.Task with loosely-typed fields so that data
// written by older or foreign builds still loads. completed has been
// observed as bool, 0/1 and "true"; dueDate as several string formats.
type record struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Category  model.Category  `json:"category"`
	Completed json.RawMessage `json:"completed"`
	DueDate   json.RawMessage `json:"dueDate"`
}

var dueLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Load reads the task collection from the JSON slot at path.
// If the file does not exist, it returns an empty collection.
func Load(path string) ([]model.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, err
	}
	return decodeTasks(data)
}

// Save serializes the full collection and replaces the slot contents.
// It writes through a temporary file and renames it into place so a
// crash mid-write never leaves a truncated slot behind.
func Save(path string, tasks []model.Task) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

func decodeTasks(data []byte) ([]model.Task, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, model.Task{
			ID:        r.ID,
			Text:      r.Text,
			Category:  r.Category,
			Completed: coerceCompleted(r.Completed),
			DueDate:   coerceDue(r.DueDate),
		})
	}
	return tasks, nil
}

// coerceCompleted collapses whatever is in the completed field to a
// strict bool. Anything unrecognized counts as not completed.
func coerceCompleted(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return false
}

// coerceDue turns the persisted dueDate into a concrete noon-pinned
// date. A missing or unparseable value falls back to today.
func coerceDue(raw json.RawMessage) time.Time {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return date.Today()
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return date.Today()
	}
	s = strings.TrimSpace(s)
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return date.Noon(t.Local())
		}
	}
	return date.Today()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
