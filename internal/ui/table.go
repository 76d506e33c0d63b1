package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	totalStyle  = lipgloss.NewStyle().Bold(true)
)

// cell is one table cell. style is applied after padding so escape codes
// never count toward the column width.
type cell struct {
	text  string
	style func(string) string
}

func plain(text string) cell { return cell{text: text} }

// renderTable draws a boxed table. Column widths include one space of
// padding on each side; longer texts are truncated.
func renderTable(widths []int, header []string, rows [][]cell, footer []cell) string {
	var b strings.Builder

	border := func(left, mid, right string) {
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat("─", w))
			if i < len(widths)-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		b.WriteString("\n")
	}

	row := func(cells []cell) {
		b.WriteString("│")
		for i, w := range widths {
			var c cell
			if i < len(cells) {
				c = cells[i]
			}
			inner := w - 2
			text := runewidth.FillRight(runewidth.Truncate(c.text, inner, "…"), inner)
			if c.style != nil {
				text = c.style(text)
			}
			b.WriteString(" " + text + " │")
		}
		b.WriteString("\n")
	}

	headerCells := make([]cell, len(header))
	for i, h := range header {
		headerCells[i] = cell{text: h, style: headerStyle.Render}
	}

	border("┌", "┬", "┐")
	row(headerCells)
	for _, r := range rows {
		border("├", "┼", "┤")
		row(r)
	}
	if footer != nil {
		border("├", "┼", "┤")
		row(footer)
	}
	border("└", "┴", "┘")
	return b.String()
}
