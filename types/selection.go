package types

// Filter selects which tasks the derived view keeps.
// Unknown values behave like FilterAll.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterHigh      Filter = "high"
	FilterMedium    Filter = "medium"
	FilterLow       Filter = "low"
)

// Filters lists the recognized filters in display order
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted, FilterHigh, FilterMedium, FilterLow}

// SortKey selects the ordering of the derived view.
// Unknown values behave like SortCreated.
type SortKey string

const (
	SortCreated  SortKey = "created"
	SortPriority SortKey = "priority"
	SortDueDate  SortKey = "dueDate"
)

// SortKeys lists the recognized sort keys in display order
var SortKeys = []SortKey{SortCreated, SortPriority, SortDueDate}

// Selection is the view state of a session. It is never persisted.
type Selection struct {
	Filter Filter
	Search string
	Sort   SortKey
}

// DefaultSelection is the state every fresh session starts from
func DefaultSelection() Selection {
	return Selection{
		Filter: FilterAll,
		Search: "",
		Sort:   SortCreated,
	}
}
