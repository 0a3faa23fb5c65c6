package types

import "time"

// Task is a single to-do item
type Task struct {
	ID          string     `json:"id" yaml:"id"`                                       // Stable identifier assigned by the store
	Title       string     `json:"title" yaml:"title"`                                 // Never empty when created through the input layer
	Description string     `json:"description,omitempty" yaml:"description,omitempty"` // Optional free text
	Completed   bool       `json:"completed" yaml:"completed"`                         // Completion flag
	Priority    Priority   `json:"priority" yaml:"priority"`                           // high, medium or low
	Category    string     `json:"category" yaml:"category"`                           // Free-form label, "general" by default
	DueDate     *Date      `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`         // Optional calendar date
	Created     time.Time  `json:"created" yaml:"created"`                             // Set once at creation
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"` // Set by toggling to completed
}

// IsOverdue reports whether the task has a due date before now and is still open
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// Normalize clears due dates that decoded to the zero date
func (t *Task) Normalize() {
	if t.DueDate != nil && t.DueDate.IsZero() {
		t.DueDate = nil
	}
}

// Draft carries the caller-supplied fields of a new task.
// Zero values are replaced by the defaults when the task is added.
type Draft struct {
	Title       string
	Description string
	Priority    Priority
	Category    string
	DueDate     *Date
}

// Patch specifies fields to update on an existing task.
// Nil fields are left untouched.
type Patch struct {
	ID          string
	Title       *string
	Description *string
	Completed   *bool
	Priority    *Priority
	Category    *string
	DueDate     *Date
	// ClearDueDate removes the due date; it wins over DueDate
	ClearDueDate bool
}

// IsEmpty reports whether the patch would change nothing
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.Category == nil && p.DueDate == nil && !p.ClearDueDate
}

// Apply returns a copy of t with the patch merged over it.
// ID and Created are never changed.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	return t
}

// Clone returns a deep copy of the task so callers cannot alias store state
func (t Task) Clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		t.CompletedAt = &c
	}
	return t
}

// CloneAll deep-copies a task slice
func CloneAll(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
