package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/arthur-debert/taskboard/taskboard/analytics"
	"github.com/arthur-debert/taskboard/types"
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Taskboard"))
	b.WriteString("  ")
	b.WriteString(m.styles.subtle.Render(m.selectionText()))
	b.WriteString("\n\n")

	list := m.renderTaskList()
	if m.showStats {
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", m.renderStats())
	}
	b.WriteString(list)
	b.WriteString("\n")

	switch m.mode {
	case modeAdd, modeEdit:
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	case modeSearch:
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(m.styles.errStatus.Render(m.status))
	} else {
		b.WriteString(m.styles.status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) selectionText() string {
	sel := m.store.Selection()
	text := fmt.Sprintf("filter: %s • sort: %s • %d of %d", sel.Filter, sel.Sort, len(m.tasks), m.store.Len())
	if sel.Search != "" {
		text += fmt.Sprintf(" • search: %q", sel.Search)
	}
	return text
}

func (m Model) renderTaskList() string {
	if len(m.tasks) == 0 {
		if m.store.Len() == 0 {
			return "No tasks yet. Press 'a' to add one."
		}
		return "No tasks match the current filter."
	}

	now := m.clock()
	caser := cases.Title(language.English)

	var b strings.Builder
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.cursor && m.mode == modeList {
			cursor = m.styles.cursor.Render("> ")
		}

		checkbox := "[ ]"
		title := t.Title
		if t.Completed {
			checkbox = "[x]"
			title = m.styles.done.Render(title)
		}

		line := fmt.Sprintf("%s%s %s %s %s",
			cursor,
			checkbox,
			title,
			m.styles.forPriority(t.Priority).Render(string(t.Priority)),
			m.styles.subtle.Render(caser.String(t.Category)))

		if t.DueDate != nil {
			due := "due " + t.DueDate.String()
			if t.IsOverdue(now) {
				line += " " + m.styles.overdue.Render(due+" (overdue)")
			} else {
				line += " " + m.styles.subtle.Render(due)
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderForm() string {
	var b strings.Builder
	if m.mode == modeEdit {
		b.WriteString("Edit task\n")
	} else {
		b.WriteString("New task\n")
	}
	for _, field := range m.form {
		b.WriteString(field.View())
		b.WriteString("\n")
	}
	return m.styles.pane.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m Model) renderStats() string {
	stats := m.store.Stats()
	now := m.clock()
	caser := cases.Title(language.English)

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Statistics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total      %d\n", stats.Total)
	fmt.Fprintf(&b, "Completed  %d\n", stats.Completed)
	fmt.Fprintf(&b, "Active     %d\n", stats.Active)
	fmt.Fprintf(&b, "Overdue    %d\n", stats.Overdue)
	fmt.Fprintf(&b, "Rate       %.1f%%\n", stats.CompletionRate)

	b.WriteString("\n")
	for _, p := range types.Priorities {
		fmt.Fprintf(&b, "%-10s %d\n", caser.String(string(p)), stats.ByPriority[p])
	}

	if len(stats.ByCategory) > 0 {
		b.WriteString("\n")
		for _, name := range stats.Categories() {
			fmt.Fprintf(&b, "%-10s %d\n", caser.String(name), stats.ByCategory[name])
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderRecent(stats, now))
	return m.styles.pane.Render(b.String())
}

func (m Model) renderRecent(stats analytics.Stats, now time.Time) string {
	if len(stats.RecentCompletions) == 0 {
		return "No completed tasks yet"
	}

	var b strings.Builder
	b.WriteString("Recently completed\n")
	for _, t := range stats.RecentCompletions {
		b.WriteString("  " + t.Title)
		if t.CompletedAt != nil {
			b.WriteString(" " + m.styles.subtle.Render(humanize.RelTime(*t.CompletedAt, now, "ago", "from now")))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
