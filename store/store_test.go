package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tasktrack/date"
	"tasktrack/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{
			ID:        "t1",
			Text:      "buy milk",
			Category:  model.CategoryShopping,
			Completed: false,
			DueDate:   date.Noon(time.Date(2026, 2, 19, 0, 0, 0, 0, time.Local)),
		},
		{
			ID:        "t2",
			Text:      "write report",
			Category:  model.CategoryWork,
			Completed: true,
			DueDate:   date.Noon(time.Date(2026, 2, 20, 0, 0, 0, 0, time.Local)),
		},
	}
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	tasks, err := Load(path)
	if err != nil {
		t.Fatalf("load missing file failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty collection for missing file, got %d tasks", len(tasks))
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	want := sampleTasks()

	if err := Save(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Text != want[i].Text ||
			got[i].Category != want[i].Category || got[i].Completed != want[i].Completed {
			t.Fatalf("task %d mismatch\nwant=%+v\ngot=%+v", i, want[i], got[i])
		}
		if !got[i].DueDate.Equal(want[i].DueDate) {
			t.Fatalf("task %d due date mismatch: want %v, got %v", i, want[i].DueDate, got[i].DueDate)
		}
	}
}

func TestSaveOverwritesPriorContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	if err := Save(path, sampleTasks()); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := Save(path, nil); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected slot fully overwritten, got %d tasks", len(got))
	}
}

func TestLoadCorruptFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for corrupt slot")
	}
}

func TestLoadCoercesLooseRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	loose := `[
  {"id": "a", "text": "numeric completed", "category": "Home", "completed": 1, "dueDate": "2026-02-19"},
  {"id": "b", "text": "string completed", "category": "Work", "completed": "true", "dueDate": "2026-02-19T08:15:00Z"},
  {"id": "c", "text": "missing fields", "category": "Other"},
  {"id": "d", "text": "garbage due", "category": "Study", "completed": false, "dueDate": "not a date"}
]`
	if err := os.WriteFile(path, []byte(loose), 0o644); err != nil {
		t.Fatalf("write loose file failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(got))
	}

	if !got[0].Completed || !got[1].Completed {
		t.Fatalf("expected loose completed values coerced to true, got %+v %+v", got[0], got[1])
	}
	if got[2].Completed || got[3].Completed {
		t.Fatalf("expected missing/false completed coerced to false")
	}

	want := time.Date(2026, 2, 19, 12, 0, 0, 0, time.Local)
	if !got[0].DueDate.Equal(want) {
		t.Fatalf("expected date-only value pinned to noon, got %v", got[0].DueDate)
	}
	if got[1].DueDate.Hour() != 12 {
		t.Fatalf("expected RFC3339 value re-pinned to noon, got %v", got[1].DueDate)
	}

	today := time.Now()
	if !date.SameDay(got[2].DueDate, today) || got[2].DueDate.Hour() != 12 {
		t.Fatalf("expected missing due date to default to today noon, got %v", got[2].DueDate)
	}
	if !date.SameDay(got[3].DueDate, today) {
		t.Fatalf("expected unparseable due date to default to today, got %v", got[3].DueDate)
	}
}
