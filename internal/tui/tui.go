// Package tui implements the interactive Bubble Tea front end for local
// play. It is a thin adapter: user tokens become engine calls, engine
// state becomes a rendered scoresheet, nothing else.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lanekeep/tenpin/internal/game"
	"github.com/lanekeep/tenpin/internal/scoresheet"
)

// Model is the Bubble Tea model for an interactive bowling game.
type Model struct {
	game     *game.Game
	bus      game.EventBus
	renderer *scoresheet.Renderer
	logger   *log.Logger

	rollLog      viewport.Model
	tokenInput   textinput.Model
	logLines     []string
	message      string
	messageError bool
	quitting     bool

	width  int
	height int
}

// NewModel creates a TUI model with a fresh game.
func NewModel(logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "0-10 to bowl, x for strike, / for spare, r to reset, q to quit"
	ti.Focus()
	ti.CharLimit = 16
	ti.Prompt = "> "
	ti.PromptStyle = SuccessStyle

	vp := viewport.New(40, 8)

	m := &Model{
		renderer:   scoresheet.New(),
		logger:     logger.WithPrefix("tui"),
		rollLog:    vp,
		tokenInput: ti,
	}
	m.newGame()
	return m
}

// newGame replaces the engine; resetting means discarding the old one.
func (m *Model) newGame() {
	m.bus = game.NewEventBus()
	m.bus.Subscribe(m)
	m.game = game.NewGame()
	m.game.SetEventBus(m.bus)
	m.message = ""
	m.messageError = false
}

// OnEvent receives engine events and turns them into roll-log lines.
func (m *Model) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RollEvent:
		slot := fmt.Sprintf("frame %d", e.FrameIndex+1)
		if e.FrameIndex >= game.NumFrames {
			slot = fmt.Sprintf("bonus roll %d", e.FrameIndex-game.NumFrames+1)
		}
		m.appendLog(fmt.Sprintf("%s, roll %d: %d pins", slot, e.RollNumber, e.Pins))
	case game.FrameScoredEvent:
		if e.FrameIndex < game.NumFrames {
			m.appendLog(fmt.Sprintf("frame %d scored: %d (running total %d)", e.FrameIndex+1, e.RoundScore, e.TotalScore))
		}
	case game.GameCompleteEvent:
		m.appendLog(fmt.Sprintf("game complete: final score %d", e.Total))
	}
}

func (m *Model) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	m.rollLog.SetContent(strings.Join(m.logLines, "\n"))
	if m.rollLog.Height > 0 {
		m.rollLog.GotoBottom()
	}
}

// Init initializes the TUI model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rollLog.Width = msg.Width - 46
		if m.rollLog.Width < 20 {
			m.rollLog.Width = 20
		}
		m.rollLog.Height = msg.Height - 6
		if m.rollLog.Height < 4 {
			m.rollLog.Height = 4
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			token := strings.TrimSpace(m.tokenInput.Value())
			m.tokenInput.SetValue("")
			if cmd := m.submit(token); cmd != nil {
				return m, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.tokenInput, cmd = m.tokenInput.Update(msg)
	return m, cmd
}

// submit processes a user token. It returns a non-nil command only when
// the token ends the program.
func (m *Model) submit(token string) tea.Cmd {
	switch strings.ToLower(token) {
	case "q", "quit", "exit", "stop":
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	case "r", "reset", "restart":
		m.logger.Info("Game reset")
		m.newGame()
		m.appendLog("game reset")
		return nil
	case "":
		// Enter on a finished game starts the next one, like the original
		// console loop.
		if m.game.IsComplete() {
			m.newGame()
			m.appendLog("new game")
		}
		return nil
	}

	if err := game.ApplyToken(m.game, token); err != nil {
		m.logger.Debug("Rejected token", "token", token, "error", err)
		m.message = err.Error()
		m.messageError = true
		return nil
	}

	m.messageError = false
	m.message = ""
	if m.game.IsComplete() {
		m.message = fmt.Sprintf("Game complete: %d. Press enter for a new game.", m.game.Score())
	}
	return nil
}

// View renders the TUI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	sheet := PaneStyle.Render(m.renderer.Render(m.game))
	logPane := PaneStyle.Render(m.rollLog.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, sheet, logPane)

	var status string
	switch {
	case m.messageError:
		status = ErrorStyle.Render(m.message)
	case m.message != "":
		status = SuccessStyle.Render(m.message)
	default:
		status = InfoStyle.Render("0-10 to bowl • x strike • / spare • r reset • q quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render(" tenpin "),
		top,
		m.tokenInput.View(),
		status,
	)
}

// Game exposes the underlying engine, for tests and the play loop.
func (m *Model) Game() *game.Game {
	return m.game
}
