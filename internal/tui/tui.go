// Package tui is the interactive three-screen frontend: the setup wizard,
// the pipeline progress screen and the outline editor.
package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"artigen/internal/config"
	"artigen/internal/store"
)

func Run(cfg *config.Config, st store.Store, logger *slog.Logger) error {
	m := newAppModel(cfg, st, logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
