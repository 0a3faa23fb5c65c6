package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/taskboard/types"
)

// State is everything a session holds in memory
type State struct {
	Tasks     []types.Task
	Selection types.Selection
}

// persistence describes the write a transition requires
type persistence int

const (
	persistNone persistence = iota
	persistWrite
	persistRemove
)

// Outcome reports what a dispatched command did
type Outcome struct {
	// Changed is false when the command was a no-op (e.g. unknown id)
	Changed bool

	// Task is the added or modified task, when there is one
	Task *types.Task

	// Count is the number of tasks affected by bulk commands
	Count int

	persist persistence
}

// env carries the capabilities a transition may use
type env struct {
	now   time.Time
	newID func() string
}

// transition computes the state that follows cmd. It never modifies s:
// every change builds new slices, so the caller can discard the result
// if persisting it fails.
func transition(s State, cmd Command, e env) (State, Outcome, error) {
	switch c := cmd.(type) {
	case AddCommand:
		task := newTask(c.Draft, e, takenIDs(s.Tasks))
		s.Tasks = appendTask(s.Tasks, task)
		return s, Outcome{Changed: true, Task: &task, Count: 1, persist: persistWrite}, nil

	case UpdateCommand:
		idx := indexOf(s.Tasks, c.Patch.ID)
		if idx < 0 {
			return s, Outcome{}, nil
		}
		tasks := types.CloneAll(s.Tasks)
		tasks[idx] = c.Patch.Apply(tasks[idx])
		updated := tasks[idx]
		s.Tasks = tasks
		return s, Outcome{Changed: true, Task: &updated, Count: 1, persist: persistWrite}, nil

	case RemoveCommand:
		idx := indexOf(s.Tasks, c.ID)
		if idx < 0 {
			return s, Outcome{}, nil
		}
		removed := s.Tasks[idx].Clone()
		tasks := make([]types.Task, 0, len(s.Tasks)-1)
		tasks = append(tasks, s.Tasks[:idx]...)
		tasks = append(tasks, s.Tasks[idx+1:]...)
		s.Tasks = tasks
		return s, Outcome{Changed: true, Task: &removed, Count: 1, persist: persistWrite}, nil

	case ToggleCommand:
		idx := indexOf(s.Tasks, c.ID)
		if idx < 0 {
			return s, Outcome{}, nil
		}
		tasks := types.CloneAll(s.Tasks)
		task := &tasks[idx]
		task.Completed = !task.Completed
		if task.Completed {
			at := e.now
			task.CompletedAt = &at
		} else {
			task.CompletedAt = nil
		}
		toggled := *task
		s.Tasks = tasks
		return s, Outcome{Changed: true, Task: &toggled, Count: 1, persist: persistWrite}, nil

	case SetFilterCommand:
		s.Selection.Filter = c.Filter
		return s, Outcome{Changed: true}, nil

	case SetSearchCommand:
		s.Selection.Search = c.Query
		return s, Outcome{Changed: true}, nil

	case SetSortCommand:
		s.Selection.Sort = c.Key
		return s, Outcome{Changed: true}, nil

	case ReplaceAllCommand:
		s.Tasks = dedupeIDs(c.Tasks, e.newID)
		return s, Outcome{Changed: true, Count: len(s.Tasks), persist: persistWrite}, nil

	case ImportCommand:
		if len(c.Tasks) == 0 {
			return s, Outcome{}, nil
		}
		tasks := types.CloneAll(s.Tasks)
		taken := takenIDs(tasks)
		for _, record := range c.Tasks {
			tasks = append(tasks, importedTask(record, e, taken))
		}
		s.Tasks = tasks
		return s, Outcome{Changed: true, Count: len(c.Tasks), persist: persistWrite}, nil

	case ResetCommand:
		count := len(s.Tasks)
		s.Tasks = []types.Task{}
		return s, Outcome{Changed: true, Count: count, persist: persistRemove}, nil

	default:
		return s, Outcome{}, fmt.Errorf("unsupported command %T", cmd)
	}
}

// newTask applies the add-path defaults to a draft
func newTask(d types.Draft, e env, taken map[string]bool) types.Task {
	task := types.Task{
		ID:          freshID(e.newID, taken),
		Title:       d.Title,
		Description: d.Description,
		Completed:   false,
		Priority:    d.Priority,
		Category:    d.Category,
		Created:     e.now,
	}
	if task.Priority == "" {
		task.Priority = types.DefaultPriority
	}
	if strings.TrimSpace(task.Category) == "" {
		task.Category = types.DefaultCategory
	}
	if d.DueDate != nil {
		due := *d.DueDate
		task.DueDate = &due
	}
	return task
}

// importedTask trusts the record except for its id. Absent priority, category
// and creation time get the add-path defaults; completed and completedAt are
// kept exactly as supplied.
func importedTask(record types.Task, e env, taken map[string]bool) types.Task {
	task := record.Clone()
	task.Normalize()
	task.ID = freshID(e.newID, taken)
	if task.Priority == "" {
		task.Priority = types.DefaultPriority
	}
	if task.Category == "" {
		task.Category = types.DefaultCategory
	}
	if task.Created.IsZero() {
		task.Created = e.now
	}
	return task
}

// dedupeIDs copies tasks, giving a fresh id to any record whose id is empty
// or already taken by an earlier record
func dedupeIDs(tasks []types.Task, newID func() string) []types.Task {
	out := make([]types.Task, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		task := t.Clone()
		task.Normalize()
		if task.ID == "" || seen[task.ID] {
			task.ID = freshID(newID, seen)
		} else {
			seen[task.ID] = true
		}
		out = append(out, task)
	}
	return out
}

// freshID draws ids until one is not in taken, then records it there.
// Generators supplied through WithIDGenerator may repeat ids already stored.
func freshID(newID func() string, taken map[string]bool) string {
	id := newID()
	for id == "" || taken[id] {
		id = newID()
	}
	taken[id] = true
	return id
}

func takenIDs(tasks []types.Task) map[string]bool {
	taken := make(map[string]bool, len(tasks)+1)
	for _, t := range tasks {
		taken[t.ID] = true
	}
	return taken
}

func appendTask(tasks []types.Task, task types.Task) []types.Task {
	out := make([]types.Task, 0, len(tasks)+1)
	out = append(out, tasks...)
	return append(out, task)
}

func indexOf(tasks []types.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
