package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tasktrack/app"
	"tasktrack/model"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	svc := app.NewService(filepath.Join(t.TempDir(), "tasks.json"), nil)
	return NewModel(svc, time.Minute)
}

func TestNewModelSurfacesTasksAlreadyDue(t *testing.T) {
	svc := app.NewService(filepath.Join(t.TempDir(), "tasks.json"), nil)
	if _, err := svc.Add("buy milk", model.CategoryShopping, time.Now()); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	m := NewModel(svc, time.Minute)
	if !m.svc.TodayVisible() {
		t.Fatalf("expected startup check to raise the reminder")
	}
}

func TestModalCloseClearsOnlyVisibility(t *testing.T) {
	svc := app.NewService(filepath.Join(t.TempDir(), "tasks.json"), nil)
	if _, err := svc.Add("buy milk", model.CategoryShopping, time.Now()); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	m := NewModel(svc, time.Minute)

	m.updateModal(tea.KeyMsg{Type: tea.KeyEsc})
	if m.svc.TodayVisible() {
		t.Fatalf("expected Esc to close the modal")
	}
	if got := len(m.svc.Today()); got != 1 {
		t.Fatalf("expected today set kept after close, got %d entries", got)
	}
}

func TestDueCheckMsgReschedulesTick(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(dueCheckMsg(time.Now()))
	if cmd == nil {
		t.Fatalf("expected the due check to reschedule itself")
	}
}

func TestSubmitFormRejectsIncompleteInput(t *testing.T) {
	m := newTestModel(t)
	m.startAdd()

	// no text yet: submission is a no-op
	m.submitForm()
	if got := len(m.svc.Tasks()); got != 0 {
		t.Fatalf("expected empty text to be rejected, got %d tasks", got)
	}
	if m.mode != modeForm {
		t.Fatalf("expected form to stay open after rejected submit")
	}

	// text but no category: still a no-op
	m.textInput.SetValue("buy milk")
	m.submitForm()
	if got := len(m.svc.Tasks()); got != 0 {
		t.Fatalf("expected missing category to be rejected, got %d tasks", got)
	}

	m.catIdx = indexOfCategory(model.CategoryShopping)
	m.submitForm()
	tasks := m.svc.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "buy milk" || tasks[0].Category != model.CategoryShopping {
		t.Fatalf("expected completed form to add the task, got %+v", tasks)
	}
	if m.mode != modeNormal {
		t.Fatalf("expected form closed after successful submit")
	}
}

func TestSubmitFormRejectsBadDate(t *testing.T) {
	m := newTestModel(t)
	m.startAdd()
	m.textInput.SetValue("buy milk")
	m.catIdx = indexOfCategory(model.CategoryShopping)
	m.dateInput.SetValue("19/02/2026")

	m.submitForm()
	if got := len(m.svc.Tasks()); got != 0 {
		t.Fatalf("expected malformed date to be rejected, got %d tasks", got)
	}
}

func TestEditPrefillsForm(t *testing.T) {
	m := newTestModel(t)
	task, err := m.svc.Add("buy milk", model.CategoryShopping, time.Date(2026, 2, 19, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	m.svc.DismissToday()

	m.startEdit()
	if m.editingID != task.ID {
		t.Fatalf("expected edit to target the selected task")
	}
	if m.textInput.Value() != "buy milk" {
		t.Fatalf("expected text prefilled, got %q", m.textInput.Value())
	}
	if m.catIdx != indexOfCategory(model.CategoryShopping) {
		t.Fatalf("expected category prefilled, got index %d", m.catIdx)
	}
	if m.dateInput.Value() != "2026-02-19" {
		t.Fatalf("expected date prefilled, got %q", m.dateInput.Value())
	}
}

func TestCycleStatusFilter(t *testing.T) {
	m := newTestModel(t)

	m.cycleStatusFilter()
	if m.statusFilter != model.StatusPending {
		t.Fatalf("expected pending after first cycle, got %q", m.statusFilter)
	}
	m.cycleStatusFilter()
	if m.statusFilter != model.StatusCompleted {
		t.Fatalf("expected completed after second cycle, got %q", m.statusFilter)
	}
	m.cycleStatusFilter()
	if m.statusFilter != model.StatusAll {
		t.Fatalf("expected all after third cycle, got %q", m.statusFilter)
	}
}

func TestCycleCategoryFilterWrapsToAll(t *testing.T) {
	m := newTestModel(t)

	cats := model.Categories()
	for i := range cats {
		m.cycleCategoryFilter()
		if string(m.categoryFilter) != string(cats[i]) {
			t.Fatalf("expected filter %q at step %d, got %q", cats[i], i, m.categoryFilter)
		}
	}
	m.cycleCategoryFilter()
	if m.categoryFilter != "" {
		t.Fatalf("expected filter to wrap back to all, got %q", m.categoryFilter)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("hello", 10); got != "hello" {
		t.Fatalf("expected short string unchanged, got %q", got)
	}
	if got := truncateRunes("hello world", 5); got != "hell…" {
		t.Fatalf("expected truncation with ellipsis, got %q", got)
	}
	if got := truncateRunes("hello", 0); got != "" {
		t.Fatalf("expected empty result for zero width, got %q", got)
	}
}

func TestClamp(t *testing.T) {
	if clamp(5, 0, 3) != 3 || clamp(-1, 0, 3) != 0 || clamp(2, 0, 3) != 2 {
		t.Fatalf("clamp misbehaved")
	}
}
