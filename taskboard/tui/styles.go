package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/taskboard/types"
)

// styles is the palette for one theme
type styles struct {
	title     lipgloss.Style
	subtle    lipgloss.Style
	cursor    lipgloss.Style
	done      lipgloss.Style
	overdue   lipgloss.Style
	status    lipgloss.Style
	errStatus lipgloss.Style
	pane      lipgloss.Style
	priority  map[types.Priority]lipgloss.Style
}

func newStyles(dark bool) styles {
	fg, muted, accent, border := lipgloss.Color("235"), lipgloss.Color("243"), lipgloss.Color("25"), lipgloss.Color("250")
	if dark {
		fg, muted, accent, border = lipgloss.Color("255"), lipgloss.Color("245"), lipgloss.Color("117"), lipgloss.Color("238")
	}

	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		subtle:    lipgloss.NewStyle().Foreground(muted),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(fg),
		done:      lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
		overdue:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		status:    lipgloss.NewStyle().Foreground(muted),
		errStatus: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		priority: map[types.Priority]lipgloss.Style{
			types.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			types.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			types.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		},
	}
}

func (s styles) forPriority(p types.Priority) lipgloss.Style {
	if style, ok := s.priority[p]; ok {
		return style
	}
	return s.subtle
}
