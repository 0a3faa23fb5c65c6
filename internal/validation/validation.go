// Package validation holds the input-layer checks applied before a draft or
// patch reaches the store. The store itself trusts what it is given.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/taskboard/types"
)

// ErrEmptyTitle is returned when a title is blank after trimming
var ErrEmptyTitle = errors.New("title cannot be empty")

// ValidateTitle rejects titles that are empty after trimming
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ValidateDraft checks a draft before it is added
func ValidateDraft(d types.Draft) error {
	if err := ValidateTitle(d.Title); err != nil {
		return err
	}
	if d.Priority != "" {
		if err := ValidatePriority(string(d.Priority)); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePatch checks a patch before it is applied.
// A patch that sets a title must set a non-empty one.
func ValidatePatch(p types.Patch) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("task id is required")
	}
	if p.Title != nil {
		if err := ValidateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if err := ValidatePriority(string(*p.Priority)); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePriority ensures the value is one of high, medium, low
func ValidatePriority(value string) error {
	if !types.Priority(value).IsValid() {
		return fmt.Errorf("invalid priority %q: must be one of %s", value, joinPriorities())
	}
	return nil
}

// ValidateFilter ensures the value is a recognized filter.
// The store itself accepts anything; the CLI uses this to catch typos.
func ValidateFilter(value string) error {
	for _, f := range types.Filters {
		if string(f) == value {
			return nil
		}
	}
	names := make([]string, len(types.Filters))
	for i, f := range types.Filters {
		names[i] = string(f)
	}
	return fmt.Errorf("invalid filter %q: must be one of %s", value, strings.Join(names, ", "))
}

// ValidateSortKey ensures the value is a recognized sort key
func ValidateSortKey(value string) error {
	for _, k := range types.SortKeys {
		if string(k) == value {
			return nil
		}
	}
	names := make([]string, len(types.SortKeys))
	for i, k := range types.SortKeys {
		names[i] = string(k)
	}
	return fmt.Errorf("invalid sort key %q: must be one of %s", value, strings.Join(names, ", "))
}

// NormalizeTitle trims surrounding whitespace
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

func joinPriorities() string {
	names := make([]string, len(types.Priorities))
	for i, p := range types.Priorities {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
