package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderTable renders a simple aligned table with a header separator line.
// Headers are rendered with the Header style. Columns are padded to the
// maximum width found in each column across both headers and rows.
func RenderTable(headers []string, rows [][]string) string {
	return RenderTableWithFooter(headers, rows, nil)
}

// RenderTableWithFooter is RenderTable with a closing separator and a bold
// footer row, used for totals. A nil footer omits both.
func RenderTableWithFooter(headers []string, rows [][]string, footer []string) string {
	if len(headers) == 0 {
		return ""
	}

	cols := len(headers)

	// Compute max width per column, accounting for ANSI escape sequences
	// by measuring visible width.
	widths := make([]int, cols)
	for i, h := range headers {
		w := lipgloss.Width(h)
		if w > widths[i] {
			widths[i] = w
		}
	}
	for _, row := range rows {
		widen(widths, row)
	}
	widen(widths, footer)

	// Add padding between columns.
	const colGap = 2

	var b strings.Builder

	// Render header row.
	for i, h := range headers {
		styled := StyleTitle.Render(h)
		pad := widths[i] - lipgloss.Width(h)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(styled)
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", pad+colGap))
		}
	}
	b.WriteString("\n")

	separator(&b, widths, colGap)

	for _, row := range rows {
		writeRow(&b, widths, colGap, row, false)
	}

	if footer != nil {
		separator(&b, widths, colGap)
		writeRow(&b, widths, colGap, footer, true)
	}

	return b.String()
}

func widen(widths []int, row []string) {
	for i := 0; i < len(widths) && i < len(row); i++ {
		if w := lipgloss.Width(row[i]); w > widths[i] {
			widths[i] = w
		}
	}
}

func separator(b *strings.Builder, widths []int, gap int) {
	for i, w := range widths {
		b.WriteString(StyleMuted.Render(strings.Repeat("─", w)))
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", gap))
		}
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, widths []int, gap int, row []string, bold bool) {
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := widths[i] - lipgloss.Width(cell)
		if pad < 0 {
			pad = 0
		}
		if bold {
			cell = StyleStrong.Render(cell)
		}
		b.WriteString(cell)
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", pad+gap))
		}
	}
	b.WriteString("\n")
}
