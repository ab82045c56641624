package tui

import (
	"fmt"
	"strings"

	"taskboard/internal/filter"
	"taskboard/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// renderColumns draws the kanban board: one column per state with a header
// "<Label> (<count>)" and one bordered card per task. marker supplies the card's
// gutter glyph (the loading spinner).
func renderColumns(cols []filter.Column, sel selection, marker func(id string) string, width, height int) string {
	n := len(cols)
	if n == 0 {
		return normalizePane("", width, height)
	}

	gap := 2
	colW := (width - gap*(n-1)) / n
	if colW < 14 {
		colW = 14
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg).Padding(0, 1)
	headerSelectedStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg).Padding(0, 1)
	cardStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCardBorder).Width(colW - 2)
	cardSelectedStyle := cardStyle.BorderForeground(colorSelectedBorder).Bold(true)
	innerW := colW - 4

	rendered := make([]string, 0, n)
	for ci, col := range cols {
		hs := headerStyle
		if ci == sel.Col {
			hs = headerSelectedStyle
		}
		lines := []string{hs.Width(colW).Render(truncate(fmt.Sprintf("%s (%d)", col.Label, len(col.Tasks)), colW-2))}

		if len(col.Tasks) == 0 {
			lines = append(lines, styleMuted().Render(truncate("  (empty)", colW)))
		}

		// Keep the selected card on screen.
		start := 0
		if ci == sel.Col && sel.Row > 0 {
			perCard := 4
			fit := (height - 1) / perCard
			if fit < 1 {
				fit = 1
			}
			if sel.Row >= fit {
				start = sel.Row - fit + 1
			}
		}
		for ri := start; ri < len(col.Tasks); ri++ {
			t := col.Tasks[ri]
			st := cardStyle
			if ci == sel.Col && ri == sel.Row {
				st = cardSelectedStyle
			}
			lines = append(lines, st.Render(cardBody(t, marker(t.ID), innerW)))
		}
		rendered = append(rendered, normalizePane(strings.Join(lines, "\n"), colW, height))
	}

	spacer := normalizePane("", gap, height)
	parts := make([]string, 0, 2*n-1)
	for i, r := range rendered {
		if i > 0 {
			parts = append(parts, spacer)
		}
		parts = append(parts, r)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func cardBody(t model.Task, marker string, width int) string {
	if width < 4 {
		width = 4
	}
	titleLines := wrapWords(t.Title, width-2)
	if len(titleLines) > 2 {
		titleLines = titleLines[:2]
		titleLines[1] = truncate(titleLines[1]+" …", width-2)
	}
	for i := range titleLines {
		prefix := "  "
		if i == 0 {
			prefix = marker + " "
		}
		titleLines[i] = prefix + titleLines[i]
	}

	meta := priorityStyle(string(t.Priority)).Render(string(t.Priority))
	if t.OwnerID != "" {
		meta += styleMuted().Render(" · " + t.OwnerID)
	}
	if n := len(t.AssignedUsers); n > 0 {
		meta += styleMuted().Render(fmt.Sprintf(" · +%d", n))
	}
	return strings.Join(append(titleLines, "  "+truncate(meta, width-2)), "\n")
}
