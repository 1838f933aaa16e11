// Package tui provides the terminal progress view for dataset generation.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette - consistent colors used throughout the TUI
var (
	PrimaryColor = lipgloss.Color("#00D7FF") // Cyan - in-progress states
	SuccessColor = lipgloss.Color("#5AF78E") // Green - generated notes
	WarningColor = lipgloss.Color("#F3F99D") // Yellow - skipped notes
	ErrorColor   = lipgloss.Color("#FF5C57") // Red - failed notes
	MutedColor   = lipgloss.Color("#6C7086") // Gray - pending, muted text
	BorderColor  = lipgloss.Color("#45475A") // Dark gray - borders, dividers
	TextColor    = lipgloss.Color("#CDD6F4") // Light gray - primary text
)

// Header styles
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	ShortcutKeyStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)
)

// Panel styles
var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Note status styles
var (
	statusDoneStyle    = lipgloss.NewStyle().Foreground(SuccessColor)
	statusActiveStyle  = lipgloss.NewStyle().Foreground(PrimaryColor)
	statusPendingStyle = lipgloss.NewStyle().Foreground(MutedColor)
	statusFailedStyle  = lipgloss.NewStyle().Foreground(ErrorColor)
	statusSkippedStyle = lipgloss.NewStyle().Foreground(WarningColor)

	StateRunningStyle  = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	StateStoppedStyle  = lipgloss.NewStyle().Bold(true).Foreground(MutedColor)
	StateCompleteStyle = lipgloss.NewStyle().Bold(true).Foreground(SuccessColor)
	StateErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(ErrorColor)
)

// Progress bar styles
var (
	progressBarFillStyle  = lipgloss.NewStyle().Foreground(SuccessColor)
	progressBarEmptyStyle = lipgloss.NewStyle().Foreground(MutedColor)
)

// Activity line styles
var (
	ActivityRunningStyle  = lipgloss.NewStyle().Foreground(PrimaryColor).Padding(0, 1)
	ActivityErrorStyle    = lipgloss.NewStyle().Foreground(ErrorColor).Padding(0, 1)
	ActivityCompleteStyle = lipgloss.NewStyle().Foreground(SuccessColor).Padding(0, 1)
	ActivityMutedStyle    = lipgloss.NewStyle().Foreground(MutedColor).Padding(0, 1)
)

// Status icons
const (
	IconDone    = "✓"
	IconActive  = "●"
	IconPending = "○"
	IconFailed  = "✗"
	IconSkipped = "↷"
)

// GetNoteIcon returns the styled icon for a note row.
func GetNoteIcon(s NoteRowState) string {
	switch s {
	case RowDone:
		return statusDoneStyle.Render(IconDone)
	case RowActive:
		return statusActiveStyle.Render(IconActive)
	case RowFailed:
		return statusFailedStyle.Render(IconFailed)
	case RowSkipped:
		return statusSkippedStyle.Render(IconSkipped)
	default:
		return statusPendingStyle.Render(IconPending)
	}
}

// GetStateStyle returns the appropriate style for an app state.
func GetStateStyle(state AppState) lipgloss.Style {
	switch state {
	case StateComplete:
		return StateCompleteStyle
	case StateError:
		return StateErrorStyle
	case StateStopped:
		return StateStoppedStyle
	default:
		return StateRunningStyle
	}
}

// GetActivityStyle returns the appropriate style for activity line based on state.
func GetActivityStyle(state AppState) lipgloss.Style {
	switch state {
	case StateRunning:
		return ActivityRunningStyle
	case StateError:
		return ActivityErrorStyle
	case StateComplete:
		return ActivityCompleteStyle
	default:
		return ActivityMutedStyle
	}
}
