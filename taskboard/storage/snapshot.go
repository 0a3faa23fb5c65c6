package storage

import (
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/taskboard/types"
)

// EncodeTasks serializes the collection as the persisted JSON array
func EncodeTasks(tasks []types.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []types.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

// DecodeTasks parses a persisted JSON array. Failures wrap ErrCorrupt.
func DecodeTasks(data []byte) ([]types.Task, error) {
	var tasks []types.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: tasks snapshot: %v", ErrCorrupt, err)
	}
	for i := range tasks {
		tasks[i].Normalize()
	}
	return tasks, nil
}

// EncodeTheme serializes the dark mode flag
func EncodeTheme(dark bool) []byte {
	if dark {
		return []byte("true")
	}
	return []byte("false")
}

// DecodeTheme parses the dark mode flag. Failures wrap ErrCorrupt.
func DecodeTheme(data []byte) (bool, error) {
	var dark bool
	if err := json.Unmarshal(data, &dark); err != nil {
		return false, fmt.Errorf("%w: theme flag: %v", ErrCorrupt, err)
	}
	return dark, nil
}
