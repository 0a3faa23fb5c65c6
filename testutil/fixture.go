// Package testutil provides a deterministic task universe and assertion
// helpers shared by the taskboard package tests.
package testutil

import (
	_ "embed"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/taskboard/taskboard/storage"
	"github.com/arthur-debert/taskboard/taskboard/store"
	"github.com/arthur-debert/taskboard/types"
)

//go:embed testdata/universe.json
var universeJSON []byte

// Now is the fixed "current time" of the universe: after fixture-1's due
// date and before fixture-2's
var Now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// UniverseData provides typed access to the fixture tasks
type UniverseData struct {
	BuyGroceries  types.Task // medium, shopping, overdue
	TeamMeeting   types.Task // high, work, due in the future
	ReadBook      types.Task // low, personal, completed
	CodeReview    types.Task // high, work, no due date
	Dentist       types.Task // medium, health, completed, past due date
	PackForTrip   types.Task // low, travel, emoji title
	All           []types.Task
	ByTitle       map[string]types.Task
	OverdueTitles []string
}

// Clock is a controllable time source
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at t
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current clock time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SequenceIDs returns a generator yielding prefix-1, prefix-2, ...
func SequenceIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// NewStore creates an empty store over a memory adapter with a fixed clock
// and sequential ids. Extra options are applied last.
func NewStore(t *testing.T, opts ...store.Option) (*store.Store, *storage.MemoryAdapter, *Clock) {
	t.Helper()

	adapter := storage.NewMemoryAdapter()
	clock := NewClock(Now)
	base := []store.Option{
		store.WithClock(clock.Now),
		store.WithIDGenerator(SequenceIDs("task")),
	}

	s, err := store.New(adapter, append(base, opts...)...)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, adapter, clock
}

// LoadUniverse returns a store whose persisted snapshot is the fixture
// collection, restored exactly as a fresh session would restore it
func LoadUniverse(t *testing.T, opts ...store.Option) (*store.Store, *UniverseData) {
	t.Helper()

	tasks, err := storage.DecodeTasks(universeJSON)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	adapter := storage.NewMemoryAdapter()
	if err := adapter.Set(storage.TasksKey, universeJSON); err != nil {
		t.Fatalf("failed to seed adapter: %v", err)
	}

	clock := NewClock(Now)
	base := []store.Option{
		store.WithClock(clock.Now),
		store.WithIDGenerator(SequenceIDs("task")),
	}
	s, err := store.New(adapter, append(base, opts...)...)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	universe := &UniverseData{
		All:     tasks,
		ByTitle: make(map[string]types.Task, len(tasks)),
	}
	for _, task := range tasks {
		universe.ByTitle[task.Title] = task
		if task.IsOverdue(Now) {
			universe.OverdueTitles = append(universe.OverdueTitles, task.Title)
		}
	}
	universe.BuyGroceries = universe.ByTitle["Buy groceries"]
	universe.TeamMeeting = universe.ByTitle["Team meeting"]
	universe.ReadBook = universe.ByTitle["Read book"]
	universe.CodeReview = universe.ByTitle["Code review"]
	universe.Dentist = universe.ByTitle["Dentist appointment"]
	universe.PackForTrip = universe.ByTitle["Pack for trip 🧳"]

	return s, universe
}

// UniverseJSON returns a copy of the raw fixture snapshot
func UniverseJSON() []byte {
	return append([]byte(nil), universeJSON...)
}
