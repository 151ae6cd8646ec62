package tui

import (
	"github.com/charmbracelet/lipgloss"

	"artigen/internal/notify"
)

// The TUI must stay readable on both light and dark terminal backgrounds, so
// colors are AdaptiveColor pairs and "faint" styling only applies on dark
// terminals (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorAccent     lipgloss.TerminalColor = ac("27", "62") // blue
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorSuccess    lipgloss.TerminalColor = ac("28", "40")
	colorWarning    lipgloss.TerminalColor = ac("130", "214")
	colorError      lipgloss.TerminalColor = ac("160", "196")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func styleAccent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccent)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
}

func styleFlash(level notify.Level) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true)
	switch level {
	case notify.Success:
		return st.Foreground(colorSuccess)
	case notify.Warning:
		return st.Foreground(colorWarning)
	case notify.Error:
		return st.Foreground(colorError)
	default:
		return st.Foreground(colorAccent)
	}
}

// Step and stage glyphs.
const (
	glyphDone    = "✓"
	glyphActive  = "●"
	glyphLocked  = "🔒"
	glyphPending = "○"
)
