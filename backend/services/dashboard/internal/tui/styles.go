package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"evdash/backend/services/dashboard/internal/mapview"
	"evdash/backend/services/dashboard/internal/shell"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#1976d2")).Padding(0, 1)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#757575"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1976d2")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#e3f2fd")).Foreground(lipgloss.Color("#0d47a1"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#d32f2f"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2e7d32"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9e9e9e"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#bdbdbd")).Padding(0, 1)
)

var toastColors = map[shell.Severity]string{
	shell.SeverityInfo:    "#0288d1",
	shell.SeveritySuccess: "#2e7d32",
	shell.SeverityWarning: "#ed6c02",
	shell.SeverityError:   "#d32f2f",
}

// renderMarker draws the station's type glyph in its status colour.
func renderMarker(status, chargerType string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(mapview.StatusColor(status))).
		Bold(true).
		Render(mapview.TypeGlyph(chargerType))
}

func renderStatus(status string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(mapview.StatusColor(status))).Render(mapview.StatusLabel(status))
}

func renderType(chargerType string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(mapview.TypeColor(chargerType))).Render(mapview.TypeLabel(chargerType))
}

// renderToast shows the message over a bar that shrinks with progress.
func renderToast(t *shell.Toast, width int) string {
	if !t.Visible() {
		return ""
	}
	if width <= 0 {
		width = 40
	}
	color := lipgloss.Color(toastColors[t.Severity])
	filled := int(float64(width) * t.Progress / 100)
	if filled < 0 {
		filled = 0
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▔", filled))
	msg := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(color).Padding(0, 1).Render(t.Message)
	return msg + "\n" + bar
}
