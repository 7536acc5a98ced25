package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lanekeep/tenpin/cmd/tenpin/shared"
	"github.com/lanekeep/tenpin/internal/tui"
)

// PlayCmd runs a local interactive game.
type PlayCmd struct {
	Debug   bool   `kong:"help='Enable debug logging'"`
	LogFile string `kong:"default='tenpin.log',help='Debug log file (the TUI owns the terminal)'"`
}

func (c *PlayCmd) Run() error {
	logger, logFile, err := shared.SetupFileLogger(c.LogFile, c.Debug)
	if err != nil {
		return fmt.Errorf("failed to create debug log: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger.Info("Starting interactive game")

	model := tui.NewModel(logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	return nil
}
