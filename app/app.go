package app

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tasktrack/date"
	"tasktrack/model"
	"tasktrack/store"
)

var (
	ErrInvalidTask     = errors.New("task text must not be empty")
	ErrInvalidCategory = errors.New("task category is not valid")
)

// Service holds the task collection and the domain rules around it:
// mutations mirror the whole collection to the persistent slot, and the
// due-today checks derive the reminder state.
//
// Storage problems never propagate past this layer. A failed load
// starts the session empty, a failed save keeps the in-memory state
// authoritative; both are logged and the UI moves on.
type Service struct {
	tasks     []model.Task
	statePath string
	log       *logrus.Logger

	today     []model.Task
	showToday bool
}

// NewService creates a service persisting to statePath.
func NewService(statePath string, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Service{
		tasks:     []model.Task{},
		statePath: statePath,
		log:       log,
		today:     []model.Task{},
	}
}

// Load hydrates the in-memory collection from the persistent slot.
// A read failure is logged and leaves the service with an empty
// collection; the caller is never blocked on a storage problem.
func (s *Service) Load() {
	tasks, err := store.Load(s.statePath)
	if err != nil {
		s.log.WithError(err).Warn("could not load tasks, starting empty")
		s.tasks = []model.Task{}
		return
	}
	s.tasks = tasks
	s.log.WithField("count", len(tasks)).Info("tasks loaded")
}

// Tasks returns a copy of the full collection in insertion order.
func (s *Service) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns a task by id.
func (s *Service) Get(id string) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Add appends a new task. The id is generated here, completed always
// starts false, and a zero due date defaults to today. The due date is
// pinned to noon regardless of what the caller selected.
func (s *Service) Add(text string, category model.Category, due time.Time) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, ErrInvalidTask
	}
	if !category.Valid() {
		return model.Task{}, ErrInvalidCategory
	}
	if due.IsZero() {
		due = date.Today()
	}

	task := model.Task{
		ID:        uuid.NewString(),
		Text:      text,
		Category:  category,
		Completed: false,
		DueDate:   date.Noon(due),
	}
	s.tasks = append(s.tasks, task)
	s.persist()
	return task, nil
}

// Toggle flips the completed flag of the task with the given id.
// An unknown id is a silent no-op.
func (s *Service) Toggle(id string) (model.Task, bool) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			s.persist()
			return s.tasks[i], true
		}
	}
	return model.Task{}, false
}

// Delete removes the task with the given id. An unknown id is a silent
// no-op and reports false.
func (s *Service) Delete(id string) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.persist()
			return true
		}
	}
	return false
}

// Update replaces text, category and due date of the task with the
// given id. A zero due keeps the existing date; anything else is
// re-pinned to noon. An unknown id is a silent no-op.
func (s *Service) Update(id, text string, category model.Category, due time.Time) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, ErrInvalidTask
	}
	if !category.Valid() {
		return model.Task{}, ErrInvalidCategory
	}

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		s.tasks[i].Text = text
		s.tasks[i].Category = category
		if !due.IsZero() {
			s.tasks[i].DueDate = date.Noon(due)
		}
		s.persist()
		return s.tasks[i], nil
	}
	return model.Task{}, nil
}

// Filtered returns the tasks passing both predicates, in insertion
// order. An unset category filter passes everything; an unset status
// filter does too. A set status filter matches completed tasks for
// "completed" and pending tasks for any other value.
func (s *Service) Filtered(category model.CategoryFilter, status model.StatusFilter) []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if category != "" && string(t.Category) != string(category) {
			continue
		}
		if status != "" {
			wantCompleted := status == model.StatusCompleted
			if t.Completed != wantCompleted {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Counts reports how many tasks are completed and how many are pending.
func (s *Service) Counts() (completed, pending int) {
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		} else {
			pending++
		}
	}
	return completed, pending
}

// CheckDueTasks is the automatic reminder path, run on a timer and
// after every collection change. It selects the incomplete tasks due
// today. A non-empty result replaces the today set and raises the modal
// flag; an empty result changes nothing, so a reminder the user has not
// acknowledged is never auto-dismissed.
func (s *Service) CheckDueTasks() bool {
	now := time.Now()
	due := make([]model.Task, 0)
	for _, t := range s.tasks {
		if !t.Completed && date.SameDay(t.DueDate, now) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return false
	}
	s.today = due
	s.showToday = true
	return true
}

// TodayTasks is the manual reminder path: all tasks due today
// regardless of completion. It always replaces the today set, even with
// an empty one, and always raises the modal flag.
func (s *Service) TodayTasks() []model.Task {
	now := time.Now()
	due := make([]model.Task, 0)
	for _, t := range s.tasks {
		if date.SameDay(t.DueDate, now) {
			due = append(due, t)
		}
	}
	s.today = due
	s.showToday = true
	return s.Today()
}

// Today returns the last-computed today set.
func (s *Service) Today() []model.Task {
	out := make([]model.Task, len(s.today))
	copy(out, s.today)
	return out
}

// TodayVisible reports whether the today modal should be shown.
func (s *Service) TodayVisible() bool {
	return s.showToday
}

// DismissToday hides the modal. The today set is left as computed until
// the next check.
func (s *Service) DismissToday() {
	s.showToday = false
}

func (s *Service) persist() {
	if err := store.Save(s.statePath, s.tasks); err != nil {
		s.log.WithError(err).Warn("could not save tasks, in-memory state kept")
	}
}
