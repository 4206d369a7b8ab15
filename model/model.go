package model

import "time"

// Category is one of the fixed task categories offered by the form.
type Category string

const (
	CategoryHome     Category = "Home"
	CategoryStudy    Category = "Study"
	CategoryWork     Category = "Work"
	CategoryShopping Category = "Shopping"
	CategoryLeisure  Category = "Leisure"
	CategoryOther    Category = "Other"
)

// Categories lists every selectable category in form order.
func Categories() []Category {
	return []Category{
		CategoryHome,
		CategoryStudy,
		CategoryWork,
		CategoryShopping,
		CategoryLeisure,
		CategoryOther,
	}
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryHome, CategoryStudy, CategoryWork, CategoryShopping, CategoryLeisure, CategoryOther:
		return true
	}
	return false
}

// StatusFilter selects tasks by completion state.
// Empty means no status filtering; any non-empty value other than
// StatusCompleted is treated as pending.
type StatusFilter string

const (
	StatusAll       StatusFilter = ""
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// CategoryFilter selects tasks by exact category match. Empty means all.
type CategoryFilter string

// Task is an individual tracked item.
// DueDate always holds a concrete date with the time-of-day pinned to
// noon so day comparisons never straddle a midnight or DST boundary.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  Category  `json:"category"`
	Completed bool      `json:"completed"`
	DueDate   time.Time `json:"dueDate"`
}
