package view

import (
	"sort"

	"github.com/arthur-debert/taskboard/types"
)

// Sort orders tasks in place according to key. All orderings are stable:
// ties keep their relative input order.
//
//   - priority: high, medium, low (unknown priorities last)
//   - dueDate: earliest first, tasks without a due date after all dated tasks
//   - created, and any unrecognized key: newest first
func Sort(tasks []types.Task, key types.SortKey) {
	switch key {
	case types.SortPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		})
	case types.SortDueDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Compare(*b) < 0
			}
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Created.After(tasks[j].Created)
		})
	}
}
