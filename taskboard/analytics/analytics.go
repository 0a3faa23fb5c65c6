// Package analytics summarizes a task collection for the stats views.
// It reads the full collection, never the filtered view, and keeps no state.
package analytics

import (
	"sort"
	"time"

	"github.com/arthur-debert/taskboard/types"
)

// RecentLimit is the number of tasks reported as recent completions
const RecentLimit = 5

// Stats is a read-only projection of the collection at a point in time
type Stats struct {
	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
	Active    int `json:"active" yaml:"active"`
	Overdue   int `json:"overdue" yaml:"overdue"`

	// CompletionRate is a percentage in [0, 100]; zero for an empty collection
	CompletionRate float64 `json:"completionRate" yaml:"completionRate"`

	// ByPriority always carries the high, medium and low buckets
	ByPriority map[types.Priority]int `json:"byPriority" yaml:"byPriority"`

	// ByCategory groups by the literal category string
	ByCategory map[string]int `json:"byCategory" yaml:"byCategory"`

	// RecentCompletions holds up to RecentLimit completed tasks, newest completion first
	RecentCompletions []types.Task `json:"recentCompletions" yaml:"recentCompletions"`
}

// Compute builds the stats for tasks, evaluating overdue against now
func Compute(tasks []types.Task, now time.Time) Stats {
	stats := Stats{
		Total:      len(tasks),
		ByPriority: make(map[types.Priority]int, len(types.Priorities)),
		ByCategory: make(map[string]int),
	}
	for _, p := range types.Priorities {
		stats.ByPriority[p] = 0
	}

	var done []types.Task
	for _, task := range tasks {
		if task.Completed {
			stats.Completed++
			done = append(done, task)
		} else {
			stats.Active++
		}
		if task.IsOverdue(now) {
			stats.Overdue++
		}
		if task.Priority.IsValid() {
			stats.ByPriority[task.Priority]++
		}
		stats.ByCategory[task.Category]++
	}

	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}

	stats.RecentCompletions = recentCompletions(done)
	return stats
}

// recentCompletions orders by completedAt descending. Completed tasks without
// a completedAt (imported that way) rank after all timestamped ones and keep
// collection order among themselves.
func recentCompletions(done []types.Task) []types.Task {
	sort.SliceStable(done, func(i, j int) bool {
		a, b := done[i].CompletedAt, done[j].CompletedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if len(done) > RecentLimit {
		done = done[:RecentLimit]
	}
	return types.CloneAll(done)
}

// Categories returns the category names sorted alphabetically
func (s Stats) Categories() []string {
	names := make([]string, 0, len(s.ByCategory))
	for name := range s.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
