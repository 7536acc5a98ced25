package scoresheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanekeep/tenpin/internal/game"
)

func TestRenderNewGame(t *testing.T) {
	t.Parallel()

	r := NewWithStyles(PlainStyles())
	out := r.Render(game.NewGame())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), game.NumFrames)

	assert.Contains(t, lines[0], "> Frame  1", "frame 1 is active")
	assert.Contains(t, lines[0], "[ _  _]")
	assert.Contains(t, lines[9], "Frame 10")
	assert.Contains(t, out, "Score: 0")
	assert.NotContains(t, out, "Game complete")
}

func TestRenderStrikeAndSpareGlyphs(t *testing.T) {
	t.Parallel()

	g := game.NewGame()
	require.NoError(t, g.RollStrike())
	require.NoError(t, g.Roll(7))
	require.NoError(t, g.RollSpare())

	out := NewWithStyles(PlainStyles()).Render(g)
	lines := strings.Split(out, "\n")

	assert.Contains(t, lines[0], "[ X  _]")
	assert.Contains(t, lines[1], "[ 7  /]")
	assert.Contains(t, lines[2], "> Frame  3", "cursor moved to frame 3")
}

func TestRenderTenthFrameBonusCells(t *testing.T) {
	t.Parallel()

	g := game.NewGame()
	for i := 0; i < 9; i++ {
		require.NoError(t, g.Roll(1))
		require.NoError(t, g.Roll(2))
	}
	require.NoError(t, g.RollStrike())
	require.NoError(t, g.RollStrike())
	require.NoError(t, g.Roll(4))

	out := NewWithStyles(PlainStyles()).Render(g)
	lines := strings.Split(out, "\n")

	// Tenth frame shows the strike plus both bonus rolls.
	assert.Contains(t, lines[9], "[ X  _  X  4]")
	assert.Contains(t, out, "Game complete")
	assert.Contains(t, out, "Score: 51") // 27 + 10 + 10 + 4
}

func TestRenderCompleteGameTotals(t *testing.T) {
	t.Parallel()

	g := game.NewGame()
	for i := 0; i < 12; i++ {
		require.NoError(t, g.RollStrike())
	}

	out := NewWithStyles(PlainStyles()).Render(g)

	assert.Contains(t, out, "Total: 300")
	assert.Contains(t, out, "Score: 300")
	assert.Contains(t, out, "Game complete")
}

func TestUnfinalisedFrameShowsNoTotal(t *testing.T) {
	t.Parallel()

	g := game.NewGame()
	require.NoError(t, g.RollStrike())

	out := NewWithStyles(PlainStyles()).Render(g)
	lines := strings.Split(out, "\n")

	assert.Contains(t, lines[0], "Total:   -")
	assert.Contains(t, lines[0], "Round:  10")
}
