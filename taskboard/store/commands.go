package store

import "github.com/arthur-debert/taskboard/types"

// Command is a request to change the session state. The set of commands is
// closed: every implementation lives in this file and transition handles each.
type Command interface {
	// Name identifies the command in logs
	Name() string

	isCommand()
}

// AddCommand appends a new task built from a draft
type AddCommand struct {
	Draft types.Draft
}

// UpdateCommand merges a patch over the task with Patch.ID
type UpdateCommand struct {
	Patch types.Patch
}

// RemoveCommand deletes the task with ID
type RemoveCommand struct {
	ID string
}

// ToggleCommand flips completion of the task with ID
type ToggleCommand struct {
	ID string
}

// SetFilterCommand changes the view filter
type SetFilterCommand struct {
	Filter types.Filter
}

// SetSearchCommand changes the view search query
type SetSearchCommand struct {
	Query string
}

// SetSortCommand changes the view sort key
type SetSortCommand struct {
	Key types.SortKey
}

// ReplaceAllCommand swaps in a whole collection, keeping its ids where they are unique
type ReplaceAllCommand struct {
	Tasks []types.Task
}

// ImportCommand appends records from an import file under fresh ids
type ImportCommand struct {
	Tasks []types.Task
}

// ResetCommand empties the collection and drops the persisted snapshot
type ResetCommand struct{}

func (AddCommand) Name() string        { return "add" }
func (UpdateCommand) Name() string     { return "update" }
func (RemoveCommand) Name() string     { return "remove" }
func (ToggleCommand) Name() string     { return "toggle" }
func (SetFilterCommand) Name() string  { return "set_filter" }
func (SetSearchCommand) Name() string  { return "set_search" }
func (SetSortCommand) Name() string    { return "set_sort" }
func (ReplaceAllCommand) Name() string { return "replace_all" }
func (ImportCommand) Name() string     { return "import" }
func (ResetCommand) Name() string      { return "reset" }

func (AddCommand) isCommand()        {}
func (UpdateCommand) isCommand()     {}
func (RemoveCommand) isCommand()     {}
func (ToggleCommand) isCommand()     {}
func (SetFilterCommand) isCommand()  {}
func (SetSearchCommand) isCommand()  {}
func (SetSortCommand) isCommand()    {}
func (ReplaceAllCommand) isCommand() {}
func (ImportCommand) isCommand()     {}
func (ResetCommand) isCommand()      {}
