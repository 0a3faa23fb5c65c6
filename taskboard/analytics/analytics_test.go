package analytics_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/taskboard/taskboard/analytics"
	"github.com/arthur-debert/taskboard/types"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestComputeEmpty(t *testing.T) {
	stats := analytics.Compute(nil, now)

	if stats.Total != 0 || stats.Completed != 0 || stats.Active != 0 || stats.Overdue != 0 {
		t.Errorf("expected zero counts, got %+v", stats)
	}
	if stats.CompletionRate != 0 {
		t.Errorf("expected 0%% completion for empty collection, got %v", stats.CompletionRate)
	}
	want := map[types.Priority]int{types.PriorityHigh: 0, types.PriorityMedium: 0, types.PriorityLow: 0}
	if diff := cmp.Diff(want, stats.ByPriority); diff != "" {
		t.Errorf("priority buckets mismatch (-want +got):\n%s", diff)
	}
	if len(stats.RecentCompletions) != 0 {
		t.Errorf("expected no recent completions, got %d", len(stats.RecentCompletions))
	}
}

func TestComputeCounts(t *testing.T) {
	yesterday := types.DateOf(now.AddDate(0, 0, -1))
	tomorrow := types.DateOf(now.AddDate(0, 0, 1))
	doneAt := now.Add(-time.Hour)

	tasks := []types.Task{
		{ID: "1", Title: "overdue", Priority: types.PriorityHigh, Category: "work", DueDate: &yesterday},
		{ID: "2", Title: "future", Priority: types.PriorityLow, Category: "work", DueDate: &tomorrow},
		{ID: "3", Title: "done late", Priority: types.PriorityHigh, Category: "home", DueDate: &yesterday, Completed: true, CompletedAt: &doneAt},
		{ID: "4", Title: "custom", Priority: types.PriorityMedium, Category: "errands"},
	}

	stats := analytics.Compute(tasks, now)

	if stats.Total != 4 {
		t.Errorf("expected total 4, got %d", stats.Total)
	}
	if stats.Completed != 1 || stats.Active != 3 {
		t.Errorf("expected 1 completed / 3 active, got %d / %d", stats.Completed, stats.Active)
	}
	if stats.Overdue != 1 {
		t.Errorf("expected 1 overdue, got %d", stats.Overdue)
	}
	if math.Abs(stats.CompletionRate-25) > 1e-9 {
		t.Errorf("expected 25%% completion, got %v", stats.CompletionRate)
	}

	wantPriority := map[types.Priority]int{types.PriorityHigh: 2, types.PriorityMedium: 1, types.PriorityLow: 1}
	if diff := cmp.Diff(wantPriority, stats.ByPriority); diff != "" {
		t.Errorf("priority buckets mismatch (-want +got):\n%s", diff)
	}
	wantCategory := map[string]int{"work": 2, "home": 1, "errands": 1}
	if diff := cmp.Diff(wantCategory, stats.ByCategory); diff != "" {
		t.Errorf("category buckets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"errands", "home", "work"}, stats.Categories()); diff != "" {
		t.Errorf("category names mismatch (-want +got):\n%s", diff)
	}
}

func TestRecentCompletions(t *testing.T) {
	var tasks []types.Task
	for i := 0; i < 7; i++ {
		at := now.Add(time.Duration(i) * time.Minute)
		tasks = append(tasks, types.Task{
			ID:          string(rune('a' + i)),
			Completed:   true,
			CompletedAt: &at,
			Priority:    types.PriorityMedium,
		})
	}
	// Imported as completed without a timestamp
	tasks = append(tasks, types.Task{ID: "z", Completed: true, Priority: types.PriorityLow})

	stats := analytics.Compute(tasks, now)

	got := make([]string, len(stats.RecentCompletions))
	for i, task := range stats.RecentCompletions {
		got[i] = task.ID
	}
	want := []string{"g", "f", "e", "d", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("recent completions mismatch (-want +got):\n%s", diff)
	}
}

func TestRecentCompletionsWithoutTimestampsRankLast(t *testing.T) {
	at := now
	tasks := []types.Task{
		{ID: "untimed", Completed: true},
		{ID: "timed", Completed: true, CompletedAt: &at},
	}

	stats := analytics.Compute(tasks, now)

	if len(stats.RecentCompletions) != 2 {
		t.Fatalf("expected 2 recent completions, got %d", len(stats.RecentCompletions))
	}
	if stats.RecentCompletions[0].ID != "timed" {
		t.Errorf("expected timed completion first, got %s", stats.RecentCompletions[0].ID)
	}
}
