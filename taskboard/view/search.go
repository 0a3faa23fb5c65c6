package view

import (
	"strings"

	"github.com/arthur-debert/taskboard/types"
)

// Search keeps tasks whose title or description contains query,
// ignoring case. An empty query keeps everything.
func Search(tasks []types.Task, query string) []types.Task {
	if query == "" {
		return append([]types.Task(nil), tasks...)
	}

	needle := strings.ToLower(query)
	result := make([]types.Task, 0, len(tasks))
	for _, task := range tasks {
		if matchesSearch(task, needle) {
			result = append(result, task)
		}
	}
	return result
}

// matchesSearch expects needle already lowercased
func matchesSearch(task types.Task, needle string) bool {
	if strings.Contains(strings.ToLower(task.Title), needle) {
		return true
	}
	return task.Description != "" && strings.Contains(strings.ToLower(task.Description), needle)
}
