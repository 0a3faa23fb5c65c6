package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/taskboard/types"
)

// IDs returns the ids of tasks in order
func IDs(tasks []types.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

// Titles returns the titles of tasks in order
func Titles(tasks []types.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

// AssertTaskCount fails if the number of tasks differs
func AssertTaskCount(t *testing.T, tasks []types.Task, expected int, context string) {
	t.Helper()
	if len(tasks) != expected {
		t.Errorf("expected %d tasks %s, got %d: %v", expected, context, len(tasks), Titles(tasks))
	}
}

// AssertUniqueIDs fails if any id appears twice
func AssertUniqueIDs(t *testing.T, tasks []types.Task) {
	t.Helper()
	seen := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		if task.ID == "" {
			t.Errorf("task %q has an empty id", task.Title)
		}
		if seen[task.ID] {
			t.Errorf("duplicate id %q", task.ID)
		}
		seen[task.ID] = true
	}
}

// AssertTitles fails if the titles differ in content or order
func AssertTitles(t *testing.T, tasks []types.Task, expected []string) {
	t.Helper()
	if diff := cmp.Diff(expected, Titles(tasks)); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
}

// AssertCompletionInvariant checks completedAt against the completed flag
// for tasks whose completion went through the toggle operation
func AssertCompletionInvariant(t *testing.T, task types.Task) {
	t.Helper()
	if task.Completed && task.CompletedAt == nil {
		t.Errorf("task %q is completed but has no completedAt", task.Title)
	}
	if !task.Completed && task.CompletedAt != nil {
		t.Errorf("task %q is open but has completedAt %v", task.Title, task.CompletedAt)
	}
}
