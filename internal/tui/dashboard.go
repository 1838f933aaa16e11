package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	// Layout constants
	minWidth         = 40
	headerHeight     = 3
	footerHeight     = 2
	progressBarWidth = 30
)

// renderDashboard renders the full progress view.
func (a *App) renderDashboard() string {
	width := a.width
	if width < minWidth {
		width = minWidth
	}

	header := a.renderHeader(width)
	progress := a.renderProgressBar(progressBarWidth)
	notes := panelStyle.Width(width - 4).Render(a.renderNotes(a.visibleRows()))
	activity := GetActivityStyle(a.state).Render(truncateWithEllipsis(a.lastActivity, width-2))
	footer := footerStyle.Render(ShortcutKeyStyle.Render("q") + " quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, " "+progress, notes, activity, footer) + "\n"
}

// renderHeader renders the title, state and elapsed time.
func (a *App) renderHeader(width int) string {
	brand := headerStyle.Render("notegen")
	title := lipgloss.NewStyle().Foreground(TextColor).Render(a.title)
	state := GetStateStyle(a.state).Render(fmt.Sprintf("[%s]", a.state.String()))
	elapsed := lipgloss.NewStyle().Foreground(MutedColor).
		Render(fmt.Sprintf("Time: %s", formatDuration(a.GetElapsedTime())))

	left := lipgloss.JoinHorizontal(lipgloss.Center, brand, " ", title, "  ", state)
	gap := width - lipgloss.Width(left) - lipgloss.Width(elapsed) - 1
	if gap < 1 {
		gap = 1
	}
	line := lipgloss.NewStyle().Foreground(BorderColor).Render(strings.Repeat("─", width))
	return left + strings.Repeat(" ", gap) + elapsed + "\n" + line
}

// renderProgressBar renders a bar of finished notes out of the table.
func (a *App) renderProgressBar(width int) string {
	percentage := a.GetCompletionPercentage()

	filledWidth := int(float64(width) * percentage / 100.0)
	emptyWidth := width - filledWidth

	bar := progressBarFillStyle.Render(strings.Repeat("█", filledWidth)) +
		progressBarEmptyStyle.Render(strings.Repeat("░", emptyWidth))

	return fmt.Sprintf("%s %3.0f%% %d/%d notes", bar, percentage, a.finishedCount(), len(a.rows))
}

// renderNotes renders one line per note.
func (a *App) renderNotes(rows []NoteRow) string {
	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render("Notes"))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(GetNoteIcon(r.State))
		b.WriteString(" ")
		b.WriteString(fmt.Sprintf("%-4s", r.Name))
		switch r.State {
		case RowSkipped:
			b.WriteString(statusSkippedStyle.Render("  skipped"))
		case RowPending:
		default:
			if r.NumFiles > 0 {
				b.WriteString(statusPendingStyle.Render(fmt.Sprintf("  %d/%d files", r.Files, r.NumFiles)))
			}
		}
	}
	return b.String()
}

// visibleRows returns the rows that fit the window, keeping the first
// unfinished note in view.
func (a *App) visibleRows() []NoteRow {
	limit := a.height - headerHeight - footerHeight - 6
	if a.height == 0 || limit >= len(a.rows) {
		return a.rows
	}
	if limit < 1 {
		limit = 1
	}

	start := 0
	for i, r := range a.rows {
		if r.State == RowPending || r.State == RowActive {
			start = i - limit/2
			break
		}
		start = i
	}
	if start > len(a.rows)-limit {
		start = len(a.rows) - limit
	}
	if start < 0 {
		start = 0
	}
	return a.rows[start : start+limit]
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// truncateWithEllipsis shortens text to maxLen runes.
func truncateWithEllipsis(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
