// Package transfer moves task collections in and out of files: the export
// document and its default file name, and parsing of import files.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/taskboard/types"
)

// ErrImportFormat reports an import file that is not a JSON array of tasks
var ErrImportFormat = errors.New("invalid import file")

const filenamePrefix = "tasks-export-"

// ExportFilename returns the default export file name for now, using the UTC date
func ExportFilename(now time.Time) string {
	return filenamePrefix + now.UTC().Format(types.DateLayout) + ".json"
}

// Export writes tasks as a pretty-printed JSON array
func Export(w io.Writer, tasks []types.Task) error {
	if tasks == nil {
		tasks = []types.Task{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(tasks); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportYAML writes tasks as a YAML sequence
func ExportYAML(w io.Writer, tasks []types.Task) error {
	if tasks == nil {
		tasks = []types.Task{}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(tasks); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return encoder.Close()
}

// ParseImport decodes an import file. The top-level value must be an array;
// ids in the file are kept here and replaced when the records are merged.
func ParseImport(data []byte) ([]types.Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrImportFormat)
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("%w: malformed JSON", ErrImportFormat)
		}
		return nil, fmt.Errorf("%w: expected a JSON array of tasks", ErrImportFormat)
	}

	var tasks []types.Task
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	for i := range tasks {
		tasks[i].Normalize()
	}
	return tasks, nil
}

// ReadImport reads and parses an import file from r
func ReadImport(r io.Reader) ([]types.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return ParseImport(data)
}
