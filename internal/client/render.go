package client

import (
	"fmt"
	"strings"

	"github.com/lanekeep/tenpin/internal/game"
	"github.com/lanekeep/tenpin/internal/protocol"
)

// FormatState renders a wire state snapshot as a plain score table. The
// client has no local engine; it works from the frames the server sent.
func FormatState(state protocol.StateData) string {
	var b strings.Builder

	for i := 0; i < game.NumFrames && i < len(state.Frames); i++ {
		frame := state.Frames[i]

		marker := "  "
		if i == state.ActiveFrame {
			marker = "> "
		}

		cells := frameStateCells(state, i)
		total := "  -"
		if frame.TotalScore > 0 {
			total = fmt.Sprintf("%3d", frame.TotalScore)
		}

		fmt.Fprintf(&b, "%sFrame %2d  [%s]", marker, i+1, strings.Join(cells, " "))
		pad := 14 - (len(cells)*3 - 1)
		if pad < 1 {
			pad = 1
		}
		fmt.Fprintf(&b, "%sRound: %3d  Total: %s\n", strings.Repeat(" ", pad), frame.RoundScore, total)
	}

	fmt.Fprintf(&b, "\nScore: %d", state.Score)
	if state.Complete {
		b.WriteString("  Game complete")
	}
	b.WriteString("\n")

	return b.String()
}

func frameStateCells(state protocol.StateData, i int) []string {
	frame := state.Frames[i]

	var cells []string
	if frame.Strike {
		cells = append(cells, " X", " _")
	} else {
		cells = append(cells, stateRollGlyph(frame.FirstRoll, false))
		cells = append(cells, stateRollGlyph(frame.SecondRoll, frame.Spare))
	}

	if i == game.NumFrames-1 {
		for _, slot := range [...]int{game.FirstBonusSlot, game.SecondBonusSlot} {
			if slot >= len(state.Frames) {
				continue
			}
			bonus := state.Frames[slot]
			if bonus.FirstRoll != nil {
				cells = append(cells, stateRollGlyph(bonus.FirstRoll, false))
			}
			if bonus.SecondRoll != nil {
				cells = append(cells, stateRollGlyph(bonus.SecondRoll, false))
			}
		}
	}
	return cells
}

func stateRollGlyph(pins *int, spare bool) string {
	switch {
	case pins == nil:
		return " _"
	case spare:
		return " /"
	case *pins == game.NumPins:
		return " X"
	default:
		return fmt.Sprintf("%2d", *pins)
	}
}
