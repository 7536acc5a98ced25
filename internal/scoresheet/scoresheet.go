// Package scoresheet renders a bowling game as a per-frame score table.
// It is presentation only: it reads frame data from the engine and carries
// no state back.
package scoresheet

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lanekeep/tenpin/internal/game"
)

// Styles contains styling for the rendered sheet.
type Styles struct {
	Header lipgloss.Style
	Frame  lipgloss.Style
	Active lipgloss.Style
	Strike lipgloss.Style
	Spare  lipgloss.Style
	Pins   lipgloss.Style
	Total  lipgloss.Style
	Muted  lipgloss.Style
}

// DefaultStyles returns the coloured style set.
func DefaultStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Frame: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
		Active: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Strike: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Spare: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Pins: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
		Total: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// PlainStyles returns an unstyled set for non-terminal output.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header: plain, Frame: plain, Active: plain, Strike: plain,
		Spare: plain, Pins: plain, Total: plain, Muted: plain,
	}
}

// Renderer renders games into score tables.
type Renderer struct {
	styles *Styles
}

// New creates a renderer, picking coloured or plain styles from the
// terminal's colour profile.
func New() *Renderer {
	if termenv.ColorProfile() == termenv.Ascii {
		return NewWithStyles(PlainStyles())
	}
	return NewWithStyles(DefaultStyles())
}

// NewWithStyles creates a renderer with an explicit style set.
func NewWithStyles(styles *Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Render returns the full score table for a game: one row per playable
// frame with roll glyphs, the tenth frame's bonus cells, round and running
// totals, and a marker on the active frame.
func (r *Renderer) Render(g *game.Game) string {
	var b strings.Builder

	active := g.CurrentFrame()
	for i := 0; i < game.NumFrames; i++ {
		frame := g.Frame(i)

		marker := "  "
		rowStyle := r.styles.Frame
		if i == active {
			marker = r.styles.Active.Render("> ")
			rowStyle = r.styles.Active
		}

		cells := r.frameCells(g, i)
		row := fmt.Sprintf("%s%s  [%s]", marker, rowStyle.Render(fmt.Sprintf("Frame %2d", i+1)), strings.Join(cells, " "))

		round := r.styles.Muted.Render(fmt.Sprintf("Round: %3d", frame.RoundScore))
		total := r.styles.Muted.Render("Total:   -")
		if frame.TotalScore > 0 {
			total = r.styles.Total.Render(fmt.Sprintf("Total: %3d", frame.TotalScore))
		}

		// The tenth frame's extra cell makes its pin column wider.
		pad := 14 - cellWidth(cells)
		if pad < 1 {
			pad = 1
		}
		b.WriteString(row + strings.Repeat(" ", pad) + round + "  " + total + "\n")
	}

	b.WriteString("\n")
	b.WriteString(r.styles.Header.Render(fmt.Sprintf(" Score: %d ", g.Score())))
	if g.IsComplete() {
		b.WriteString("  " + r.styles.Spare.Render("Game complete"))
	}
	b.WriteString("\n")

	return b.String()
}

// frameCells returns the styled roll glyphs for one frame row.
func (r *Renderer) frameCells(g *game.Game, i int) []string {
	frame := g.Frame(i)

	var cells []string
	if frame.Strike {
		cells = append(cells, r.styles.Strike.Render(" X"), r.styles.Muted.Render(" _"))
	} else {
		cells = append(cells, r.rollGlyph(frame.First, false))
		cells = append(cells, r.rollGlyph(frame.Second, frame.Spare))
	}

	if i == game.NumFrames-1 {
		for _, bonus := range r.bonusRolls(g) {
			cells = append(cells, bonus)
		}
	}
	return cells
}

// bonusRolls returns glyphs for the tenth frame's extra rolls, read from
// the two bonus slots.
func (r *Renderer) bonusRolls(g *game.Game) []string {
	var cells []string
	for _, slot := range [...]int{game.FirstBonusSlot, game.SecondBonusSlot} {
		frame := g.Frame(slot)
		if frame.First.Taken {
			cells = append(cells, r.rollGlyph(frame.First, false))
		}
		if frame.Second.Taken {
			cells = append(cells, r.rollGlyph(frame.Second, false))
		}
	}
	return cells
}

// rollGlyph formats a single roll: X for ten, / for a spare's second roll,
// _ for a roll not yet taken.
func (r *Renderer) rollGlyph(roll game.Roll, spare bool) string {
	switch {
	case !roll.Taken:
		return r.styles.Muted.Render(" _")
	case spare:
		return r.styles.Spare.Render(" /")
	case roll.Pins == game.NumPins:
		return r.styles.Strike.Render(" X")
	default:
		return r.styles.Pins.Render(fmt.Sprintf("%2d", roll.Pins))
	}
}

// cellWidth is the printable width of the pin cells, each two runes wide
// plus separators. Styled cells carry ANSI escapes, so measure by count.
func cellWidth(cells []string) int {
	return len(cells)*3 - 1
}
