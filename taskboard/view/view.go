// Package view computes the derived view of a task collection: the filtered,
// searched and sorted sequence a client displays. Every function here is pure;
// the input slice is never reordered or modified.
package view

import (
	"github.com/arthur-debert/taskboard/types"
)

// Apply runs the filter, search and sort stages in that order and returns a
// fresh slice. Calling it twice with the same inputs yields the same order.
func Apply(tasks []types.Task, sel types.Selection) []types.Task {
	result := Filter(tasks, sel.Filter)
	result = Search(result, sel.Search)
	Sort(result, sel.Sort)
	return result
}
