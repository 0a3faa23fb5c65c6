// Package tui is the interactive board: a bubbletea program over one store.
// Every key press that changes tasks calls the store directly, so the board
// always shows what was persisted.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arthur-debert/taskboard/internal/validation"
	"github.com/arthur-debert/taskboard/taskboard/store"
	"github.com/arthur-debert/taskboard/types"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeSearch
	modeConfirmDelete
)

// Form fields of the add and edit modes, in tab order
const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldCategory
	fieldDue
	fieldCount
)

// Model is the bubbletea model of the board
type Model struct {
	store  *store.Store
	clock  func() time.Time
	logger *slog.Logger

	keys   keyMap
	help   help.Model
	styles styles

	tasks  []types.Task
	cursor int
	mode   mode

	form      []textinput.Model
	focus     int
	editing   string
	search    textinput.Model
	pending   *types.Task
	showStats bool
	status    string
	statusErr bool
	width     int
	height    int
}

// Option is a function that modifies Model configuration
type Option func(*Model)

// WithClock sets the time source used for overdue markers and relative times
func WithClock(fn func() time.Time) Option {
	return func(m *Model) {
		m.clock = fn
	}
}

// WithLogger sets the logger for failed store calls
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// New builds the board over s. The store's current selection is kept.
func New(s *store.Store, opts ...Option) Model {
	m := Model{
		store:  s,
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: newStyles(s.DarkMode()),
		mode:   modeList,
		status: "Press 'a' to add, space to toggle, 'd' to delete.",
	}
	for _, opt := range opts {
		opt(&m)
	}

	if m.clock == nil {
		m.clock = time.Now
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	m.form = newForm()
	m.search = textinput.New()
	m.search.Placeholder = "search title or description"
	m.search.Prompt = "/ "
	m.search.CharLimit = 128
	m.search.SetValue(s.Selection().Search)

	m.reload()
	return m
}

func newForm() []textinput.Model {
	labels := [fieldCount]struct{ prompt, placeholder string }{
		fieldTitle:       {"Title       ", "what needs doing"},
		fieldDescription: {"Description ", "optional"},
		fieldPriority:    {"Priority    ", string(types.DefaultPriority)},
		fieldCategory:    {"Category    ", types.DefaultCategory + " (" + strings.Join(types.Categories, ", ") + ")"},
		fieldDue:         {"Due         ", "YYYY-MM-DD"},
	}

	form := make([]textinput.Model, fieldCount)
	for i, l := range labels {
		ti := textinput.New()
		ti.Prompt = l.prompt
		ti.Placeholder = l.placeholder
		ti.CharLimit = 256
		ti.Width = 40
		form[i] = ti
	}
	return form
}

// filledForm is the form pre-filled with a task's current fields
func filledForm(task types.Task) []textinput.Model {
	form := newForm()
	form[fieldTitle].SetValue(task.Title)
	form[fieldDescription].SetValue(task.Description)
	form[fieldPriority].SetValue(string(task.Priority))
	form[fieldCategory].SetValue(task.Category)
	if task.DueDate != nil {
		form[fieldDue].SetValue(task.DueDate.String())
	}
	return form
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateFormMode(msg)
		case modeSearch:
			return m.updateSearchMode(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg)
		default:
			return m.updateListMode(msg)
		}
	}
	return m, nil
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))

	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.form = newForm()
		m.focus = fieldTitle
		m.setStatus("Add task: tab to move between fields, enter to save, esc to cancel")
		cmd := m.form[m.focus].Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editing = task.ID
		m.form = filledForm(task)
		m.focus = fieldTitle
		m.setStatus(fmt.Sprintf("Edit %q: enter to save, esc to cancel, empty due removes it", task.Title))
		cmd := m.form[m.focus].Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Toggle):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.ToggleComplete(task.ID); err != nil {
			m.fail("toggle failed", err)
			return m, nil
		}
		m.reload()
		if task.Completed {
			m.setStatus(fmt.Sprintf("Reopened %q", task.Title))
		} else {
			m.setStatus(fmt.Sprintf("Completed %q", task.Title))
		}

	case key.Matches(msg, m.keys.Delete):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pending = &task
		m.mode = modeConfirmDelete
		m.setStatus(fmt.Sprintf("Delete %q? y/n", task.Title))

	case key.Matches(msg, m.keys.Filter):
		next := nextFilter(m.store.Selection().Filter)
		m.store.SetFilter(next)
		m.reload()
		m.setStatus("Filter: " + string(next))

	case key.Matches(msg, m.keys.Sort):
		next := nextSortKey(m.store.Selection().Sort)
		m.store.SetSort(next)
		m.reload()
		m.setStatus("Sort: " + string(next))

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.setStatus("Search: enter to apply, esc to clear")
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Stats):
		m.showStats = !m.showStats

	case key.Matches(msg, m.keys.Theme):
		dark := !m.store.DarkMode()
		if err := m.store.SetDarkMode(dark); err != nil {
			m.fail("theme not saved", err)
			return m, nil
		}
		m.styles = newStyles(dark)
		if dark {
			m.setStatus("Dark theme")
		} else {
			m.setStatus("Light theme")
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.editing = ""
		m.setStatus("Cancelled")
		return m, nil

	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
		step := 1
		if key.Matches(msg, m.keys.Prev) {
			step = -1
		}
		m.form[m.focus].Blur()
		m.focus = wrapIndex(m.focus+step, fieldCount)
		cmd := m.form[m.focus].Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Confirm) && m.mode == modeEdit:
		patch, err := m.patchFromForm(m.editing)
		if err != nil {
			m.fail("cannot save", err)
			return m, nil
		}
		if err := m.store.Update(patch); err != nil {
			m.fail("save failed", err)
			return m, nil
		}
		m.mode = modeList
		m.editing = ""
		m.reload()
		m.moveTo(patch.ID)
		m.setStatus(fmt.Sprintf("Updated %q", *patch.Title))
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		draft, err := m.draftFromForm()
		if err != nil {
			m.fail("cannot add", err)
			return m, nil
		}
		task, err := m.store.Add(draft)
		if err != nil {
			m.fail("save failed", err)
			return m, nil
		}
		m.mode = modeList
		m.reload()
		m.moveTo(task.ID)
		m.setStatus(fmt.Sprintf("Added %q", task.Title))
		return m, nil
	}

	var cmd tea.Cmd
	m.form[m.focus], cmd = m.form[m.focus].Update(msg)
	return m, cmd
}

// draftFromForm validates the add form the same way the CLI validates flags
func (m Model) draftFromForm() (types.Draft, error) {
	draft := types.Draft{
		Title:       validation.NormalizeTitle(m.form[fieldTitle].Value()),
		Description: strings.TrimSpace(m.form[fieldDescription].Value()),
		Priority:    types.Priority(strings.ToLower(strings.TrimSpace(m.form[fieldPriority].Value()))),
		Category:    strings.TrimSpace(m.form[fieldCategory].Value()),
	}
	if due := strings.TrimSpace(m.form[fieldDue].Value()); due != "" {
		date, err := types.ParseDate(due)
		if err != nil {
			return draft, err
		}
		draft.DueDate = &date
	}
	return draft, validation.ValidateDraft(draft)
}

// patchFromForm turns the edit form into a patch that sets every field.
// An empty due field removes the due date.
func (m Model) patchFromForm(id string) (types.Patch, error) {
	title := validation.NormalizeTitle(m.form[fieldTitle].Value())
	description := strings.TrimSpace(m.form[fieldDescription].Value())
	priority := types.Priority(strings.ToLower(strings.TrimSpace(m.form[fieldPriority].Value())))
	if priority == "" {
		priority = types.DefaultPriority
	}
	category := strings.TrimSpace(m.form[fieldCategory].Value())
	if category == "" {
		category = types.DefaultCategory
	}

	patch := types.Patch{
		ID:          id,
		Title:       &title,
		Description: &description,
		Priority:    &priority,
		Category:    &category,
	}
	if due := strings.TrimSpace(m.form[fieldDue].Value()); due == "" {
		patch.ClearDueDate = true
	} else {
		date, err := types.ParseDate(due)
		if err != nil {
			return patch, err
		}
		patch.DueDate = &date
	}
	return patch, validation.ValidatePatch(patch)
}

func (m Model) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.search.SetValue("")
		m.search.Blur()
		m.store.SetSearch("")
		m.mode = modeList
		m.reload()
		m.setStatus("Search cleared")
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.search.Blur()
		m.mode = modeList
		m.setStatus(fmt.Sprintf("%d matching tasks", len(m.tasks)))
		return m, nil
	}

	// Search narrows as you type
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.store.SetSearch(strings.TrimSpace(m.search.Value()))
	m.reload()
	return m, cmd
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.pending == nil {
			m.mode = modeList
			return m, nil
		}
		title := m.pending.Title
		if err := m.store.Remove(m.pending.ID); err != nil {
			m.fail("delete failed", err)
		} else {
			m.setStatus(fmt.Sprintf("Deleted %q", title))
		}
		m.reload()
	case "n", "N", "esc":
		m.setStatus("Delete cancelled")
	default:
		return m, nil
	}
	m.pending = nil
	m.mode = modeList
	return m, nil
}

// reload refreshes the visible tasks from the store's derived view
func (m *Model) reload() {
	m.tasks = m.store.View()
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m *Model) moveTo(id string) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (types.Task, bool) {
	if len(m.tasks) == 0 {
		return types.Task{}, false
	}
	return m.tasks[clampCursor(m.cursor, len(m.tasks))], true
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) fail(prefix string, err error) {
	if !errors.Is(err, validation.ErrEmptyTitle) {
		m.logger.Warn("board action failed", "action", prefix, "error", err)
	}
	m.status = fmt.Sprintf("%s: %v", prefix, err)
	m.statusErr = true
}

func nextFilter(current types.Filter) types.Filter {
	for i, f := range types.Filters {
		if f == current {
			return types.Filters[(i+1)%len(types.Filters)]
		}
	}
	return types.Filters[0]
}

func nextSortKey(current types.SortKey) types.SortKey {
	for i, k := range types.SortKeys {
		if k == current {
			return types.SortKeys[(i+1)%len(types.SortKeys)]
		}
	}
	return types.SortKeys[0]
}

func clampCursor(cur, n int) int {
	if n <= 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
