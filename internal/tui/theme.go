package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"faros-cli/internal/model"
)

// The dashboard must stay readable on both light and dark terminal
// backgrounds, so everything routes through lipgloss.AdaptiveColor.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      = ac("240", "243")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorAccent     = ac("25", "39")
	colorDanger     = ac("124", "203")
	colorWarn       = ac("130", "214")
	colorOK         = ac("28", "77")

	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleSelected = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
	styleTab      = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	styleTabOn    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Padding(0, 1).Underline(true)
	styleFlash    = lipgloss.NewStyle().Foreground(colorDanger)
	styleOverdue  = lipgloss.NewStyle().Foreground(colorDanger)
	styleDone     = lipgloss.NewStyle().Foreground(colorOK)
	styleTitle    = lipgloss.NewStyle().Bold(true)
	stylePanel    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// applyColorProfile sets lipgloss's color profile before the program
// starts. Only NO_COLOR is honored here; CLICOLOR is for piped CLI output
// and would wrongly strip a TUI.
func applyColorProfile() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	}
	lipgloss.SetColorProfile(profile)
}

func priorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(colorDanger)
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(colorWarn)
	default:
		return styleMuted
	}
}
