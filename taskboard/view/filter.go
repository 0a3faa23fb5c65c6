package view

import (
	"github.com/arthur-debert/taskboard/types"
)

// Filter keeps the tasks matching f in their original order.
// FilterAll and unrecognized filters keep everything.
func Filter(tasks []types.Task, f types.Filter) []types.Task {
	result := make([]types.Task, 0, len(tasks))
	for _, task := range tasks {
		if matchesFilter(task, f) {
			result = append(result, task)
		}
	}
	return result
}

// matchesFilter checks a single task against the filter
func matchesFilter(task types.Task, f types.Filter) bool {
	switch f {
	case types.FilterActive:
		return !task.Completed
	case types.FilterCompleted:
		return task.Completed
	case types.FilterHigh:
		return task.Priority == types.PriorityHigh
	case types.FilterMedium:
		return task.Priority == types.PriorityMedium
	case types.FilterLow:
		return task.Priority == types.PriorityLow
	default:
		// "all" and anything unknown are permissive
		return true
	}
}
