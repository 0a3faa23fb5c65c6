package types

// Priority ranks a task's urgency
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	// DefaultPriority is used when a draft carries none
	DefaultPriority = PriorityMedium
	// DefaultCategory is used when a draft carries none
	DefaultCategory = "general"
)

// Priorities lists the known priorities from most to least urgent
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Categories is the set offered by the input forms.
// The store accepts any label.
var Categories = []string{"general", "work", "personal", "shopping", "health"}

// Rank orders priorities for sorting: high=3, medium=2, low=1, anything else 0
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether p is one of the known priorities
func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

func (p Priority) String() string { return string(p) }
