// Package store holds the session state of taskboard: the canonical task
// collection plus the current view selection. Every change goes through
// Dispatch, which computes the next state with a single transition function
// and writes the collection through the storage adapter before committing it.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/taskboard/taskboard/analytics"
	"github.com/arthur-debert/taskboard/taskboard/storage"
	"github.com/arthur-debert/taskboard/taskboard/view"
	"github.com/arthur-debert/taskboard/types"
)

var (
	// ErrTaskNotFound is returned for unknown ids in strict mode and by Get and Resolve
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousID is returned by Resolve when a prefix matches several tasks
	ErrAmbiguousID = errors.New("ambiguous task id")
)

// Store owns one session. Construct it once with New and pass it to every
// consumer; there is no package-level instance.
type Store struct {
	mu       sync.RWMutex
	adapter  storage.Adapter
	state    State
	darkMode bool

	clock  func() time.Time
	newID  func() string
	logger *slog.Logger
	strict bool
}

// New restores a session from adapter. A missing snapshot yields an empty
// collection, as does a snapshot that fails to parse (a warning is logged).
// Read failures of the adapter itself are returned.
func New(adapter storage.Adapter, opts ...Option) (*Store, error) {
	if adapter == nil {
		return nil, fmt.Errorf("storage adapter is required")
	}

	s := &Store{
		adapter: adapter,
		state: State{
			Tasks:     []types.Task{},
			Selection: types.DefaultSelection(),
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	// Set defaults for dependencies not provided via options
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = UUIDGenerator()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return s, nil
}

// load restores tasks and the theme flag without writing anything back
func (s *Store) load() error {
	tasks, err := s.readTasks()
	if err != nil {
		return err
	}
	s.state.Tasks = dedupeIDs(tasks, s.newID)

	data, ok, err := s.adapter.Get(storage.ThemeKey)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.Warn("ignoring unreadable theme flag", "error", err)
	case err != nil:
		return err
	case ok:
		dark, err := storage.DecodeTheme(data)
		if err != nil {
			s.logger.Warn("ignoring unreadable theme flag", "error", err)
		} else {
			s.darkMode = dark
		}
	}

	s.logger.Debug("session loaded", "tasks", len(s.state.Tasks), "dark_mode", s.darkMode)
	return nil
}

func (s *Store) readTasks() ([]types.Task, error) {
	data, ok, err := s.adapter.Get(storage.TasksKey)
	if errors.Is(err, storage.ErrCorrupt) {
		s.logger.Warn("starting with an empty collection: stored snapshot is unreadable", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	tasks, err := storage.DecodeTasks(data)
	if err != nil {
		s.logger.Warn("starting with an empty collection: stored snapshot is unreadable", "error", err)
		return nil, nil
	}
	return tasks, nil
}

// Dispatch applies cmd. For commands that change the collection the new
// snapshot is written before the state is committed; if the write fails the
// session keeps its previous state and the storage error is returned.
func (s *Store) Dispatch(cmd Command) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, outcome, err := transition(s.state, cmd, env{now: s.clock(), newID: s.newID})
	if err != nil {
		return Outcome{}, err
	}

	if !outcome.Changed && s.strict && targetsTask(cmd) {
		return outcome, fmt.Errorf("%w: %s", ErrTaskNotFound, targetID(cmd))
	}

	if err := s.persist(next, outcome.persist); err != nil {
		s.logger.Error("write-through failed", "command", cmd.Name(), "error", err)
		return Outcome{}, err
	}

	s.state = next
	s.logger.Debug("command applied",
		"command", cmd.Name(),
		"changed", outcome.Changed,
		"count", outcome.Count,
		"tasks", len(next.Tasks))

	if outcome.Task != nil {
		task := outcome.Task.Clone()
		outcome.Task = &task
	}
	return outcome, nil
}

// persist writes the collection of next as the transition requested.
// Caller must hold the lock.
func (s *Store) persist(next State, p persistence) error {
	switch p {
	case persistWrite:
		data, err := storage.EncodeTasks(next.Tasks)
		if err != nil {
			return err
		}
		if err := s.adapter.Set(storage.TasksKey, data); err != nil {
			return fmt.Errorf("failed to save tasks: %w", err)
		}
	case persistRemove:
		if err := s.adapter.Remove(storage.TasksKey); err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}
	}
	return nil
}

// Add creates a task from draft and returns it. The draft is not validated;
// blank titles are rejected by the input layer.
func (s *Store) Add(draft types.Draft) (types.Task, error) {
	outcome, err := s.Dispatch(AddCommand{Draft: draft})
	if err != nil {
		return types.Task{}, err
	}
	return *outcome.Task, nil
}

// Update merges patch over the task with patch.ID
func (s *Store) Update(patch types.Patch) error {
	_, err := s.Dispatch(UpdateCommand{Patch: patch})
	return err
}

// Remove deletes the task with id
func (s *Store) Remove(id string) error {
	_, err := s.Dispatch(RemoveCommand{ID: id})
	return err
}

// ToggleComplete flips completion of the task with id, stamping or clearing completedAt
func (s *Store) ToggleComplete(id string) error {
	_, err := s.Dispatch(ToggleCommand{ID: id})
	return err
}

// SetFilter changes the view filter; any value is accepted
func (s *Store) SetFilter(f types.Filter) {
	s.dispatchSelection(SetFilterCommand{Filter: f})
}

// SetSearch changes the view search query
func (s *Store) SetSearch(query string) {
	s.dispatchSelection(SetSearchCommand{Query: query})
}

// SetSort changes the view sort key; any value is accepted
func (s *Store) SetSort(key types.SortKey) {
	s.dispatchSelection(SetSortCommand{Key: key})
}

// selection commands never persist, so they cannot fail
func (s *Store) dispatchSelection(cmd Command) {
	if _, err := s.Dispatch(cmd); err != nil {
		s.logger.Error("selection change failed", "command", cmd.Name(), "error", err)
	}
}

// ReplaceAll swaps in a whole collection
func (s *Store) ReplaceAll(tasks []types.Task) error {
	_, err := s.Dispatch(ReplaceAllCommand{Tasks: tasks})
	return err
}

// Import appends records under fresh ids and returns how many were added
func (s *Store) Import(tasks []types.Task) (int, error) {
	outcome, err := s.Dispatch(ImportCommand{Tasks: tasks})
	if err != nil {
		return 0, err
	}
	return outcome.Count, nil
}

// Reset empties the collection and removes the persisted snapshot.
// The theme flag is kept.
func (s *Store) Reset() error {
	_, err := s.Dispatch(ResetCommand{})
	return err
}

// Tasks returns a copy of the collection in stored order
func (s *Store) Tasks() []types.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.CloneAll(s.state.Tasks)
}

// Len returns the number of tasks
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Tasks)
}

// Get returns a copy of the task with id
func (s *Store) Get(id string) (types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := indexOf(s.state.Tasks, id)
	if idx < 0 {
		return types.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return s.state.Tasks[idx].Clone(), nil
}

// Resolve turns a full id or a unique id prefix into a full id
func (s *Store) Resolve(ref string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty id", ErrTaskNotFound)
	}

	var matches []string
	for _, t := range s.state.Tasks {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d tasks", ErrAmbiguousID, ref, len(matches))
	}
}

// Selection returns the current view selection
func (s *Store) Selection() types.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Selection
}

// View returns the derived view for the current selection
func (s *Store) View() []types.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.CloneAll(view.Apply(s.state.Tasks, s.state.Selection))
}

// Stats summarizes the full collection as of now
func (s *Store) Stats() analytics.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.Compute(s.state.Tasks, s.clock())
}

// DarkMode returns the persisted theme flag
func (s *Store) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.darkMode
}

// SetDarkMode persists the theme flag
func (s *Store) SetDarkMode(dark bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.adapter.Set(storage.ThemeKey, storage.EncodeTheme(dark)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	s.darkMode = dark
	return nil
}

// Close releases the storage adapter
func (s *Store) Close() error {
	return s.adapter.Close()
}

func targetsTask(cmd Command) bool {
	switch cmd.(type) {
	case UpdateCommand, RemoveCommand, ToggleCommand:
		return true
	}
	return false
}

func targetID(cmd Command) string {
	switch c := cmd.(type) {
	case UpdateCommand:
		return c.Patch.ID
	case RemoveCommand:
		return c.ID
	case ToggleCommand:
		return c.ID
	}
	return ""
}
