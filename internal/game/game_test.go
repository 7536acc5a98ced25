package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rollSequence(t *testing.T, g *Game, pins ...int) {
	t.Helper()
	for _, p := range pins {
		require.NoError(t, g.Roll(p))
	}
}

func TestPerfectGame(t *testing.T) {
	t.Parallel()

	g := NewGame()
	for i := 0; i < 12; i++ {
		require.NoError(t, g.RollStrike(), "strike %d", i+1)
	}

	assert.True(t, g.IsComplete())
	assert.Equal(t, 300, g.Score())

	// Every playable frame is worth exactly 30.
	for i := 0; i < NumFrames; i++ {
		f := g.Frame(i)
		assert.True(t, f.Strike, "frame %d", i)
		assert.Equal(t, 30, f.RoundScore, "frame %d round score", i)
		assert.Equal(t, (i+1)*30, f.TotalScore, "frame %d total", i)
	}
}

func TestGutterGame(t *testing.T) {
	t.Parallel()

	g := NewGame()
	for i := 0; i < 20; i++ {
		require.NoError(t, g.Roll(0))
	}

	assert.True(t, g.IsComplete())
	assert.Equal(t, 0, g.Score())
}

func TestAllSpares(t *testing.T) {
	t.Parallel()

	g := NewGame()
	for i := 0; i < NumFrames; i++ {
		rollSequence(t, g, 5, 5)
	}
	require.False(t, g.IsComplete(), "tenth-frame spare earns a bonus roll")
	require.NoError(t, g.Roll(5))

	assert.True(t, g.IsComplete())
	assert.Equal(t, 150, g.Score())
}

func TestReferenceGame(t *testing.T) {
	t.Parallel()

	// 8 / | 5 4 | 9 0 | X | X | 5 / | 5 3 | 6 3 | 9 / | 9 / X
	g := NewGame()
	require.NoError(t, g.Roll(8))
	require.NoError(t, g.RollSpare())
	rollSequence(t, g, 5, 4, 9, 0)
	require.NoError(t, g.RollStrike())
	require.NoError(t, g.RollStrike())
	require.NoError(t, g.Roll(5))
	require.NoError(t, g.RollSpare())
	rollSequence(t, g, 5, 3, 6, 3)
	require.NoError(t, g.Roll(9))
	require.NoError(t, g.RollSpare())
	require.NoError(t, g.Roll(9))
	require.NoError(t, g.RollSpare())
	require.NoError(t, g.RollStrike())

	require.True(t, g.IsComplete())
	assert.Equal(t, 149, g.Score())

	wantTotals := []int{15, 24, 33, 58, 78, 93, 101, 110, 129, 149}
	for i, want := range wantTotals {
		assert.Equal(t, want, g.Frame(i).TotalScore, "frame %d total", i)
	}

	// Frame 4's strike collected both the frame 5 strike and the first roll
	// of frame 6, two frames downstream.
	assert.Equal(t, 25, g.Frame(3).RoundScore)
	assert.Equal(t, 20, g.Frame(4).RoundScore)
}

func TestConsecutiveStrikeBonusPropagation(t *testing.T) {
	t.Parallel()

	// Both pending strikes must be credited from the same incoming roll,
	// farther frame first.
	g := NewGame()
	require.NoError(t, g.RollStrike())
	require.NoError(t, g.RollStrike())
	rollSequence(t, g, 4, 3)

	assert.Equal(t, 24, g.Frame(0).TotalScore) // 10 + 10 + 4
	assert.Equal(t, 41, g.Frame(1).TotalScore) // 24 + 10 + 4 + 3
	assert.Equal(t, 48, g.Frame(2).TotalScore)
}

func TestInvalidRolls(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup []int
		pins  int
	}{
		{name: "negative pin count", pins: -1},
		{name: "pin count above ten", pins: 11},
		{name: "second roll exceeds standing pins", setup: []int{8}, pins: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := NewGame()
			rollSequence(t, g, tt.setup...)
			before := g.Frame(g.CurrentFrame())
			scoreBefore := g.Score()

			err := g.Roll(tt.pins)

			var invalid *InvalidRollError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.pins, invalid.Pins)

			// Failed rolls leave the game untouched.
			assert.Equal(t, before, g.Frame(g.CurrentFrame()))
			assert.Equal(t, scoreBefore, g.Score())
		})
	}
}

func TestRollAfterCompleteFails(t *testing.T) {
	t.Parallel()

	g := NewGame()
	for i := 0; i < 20; i++ {
		require.NoError(t, g.Roll(0))
	}
	require.True(t, g.IsComplete())

	assert.ErrorIs(t, g.Roll(5), ErrGameComplete)
	assert.ErrorIs(t, g.RollStrike(), ErrGameComplete)
	assert.ErrorIs(t, g.RollSpare(), ErrGameComplete)
	assert.Equal(t, 0, g.Score())
}

func TestRollSpareWithoutFirstRoll(t *testing.T) {
	t.Parallel()

	g := NewGame()
	assert.ErrorIs(t, g.RollSpare(), ErrInvalidSpare)

	// Also invalid at the start of any later frame.
	rollSequence(t, g, 3, 4)
	assert.ErrorIs(t, g.RollSpare(), ErrInvalidSpare)
}

func TestRollSpareKnocksDownRemainingPins(t *testing.T) {
	t.Parallel()

	g := NewGame()
	require.NoError(t, g.Roll(7))
	require.NoError(t, g.RollSpare())

	f := g.Frame(0)
	assert.True(t, f.Spare)
	assert.Equal(t, 7, f.First.Pins)
	assert.Equal(t, 3, f.Second.Pins)
	assert.Equal(t, 1, f.BonusRolls)
}

func TestScoreFallbackBeforeFirstFrameFinalised(t *testing.T) {
	t.Parallel()

	g := NewGame()
	require.NoError(t, g.Roll(6))

	// No frame finalised yet; the in-progress frame 0 score is reported.
	assert.Equal(t, 6, g.Score())
	assert.Equal(t, 0, g.Frame(0).TotalScore)
}

func TestTenthFrameCompletion(t *testing.T) {
	t.Parallel()

	t.Run("open tenth frame ends the game", func(t *testing.T) {
		t.Parallel()

		g := NewGame()
		for i := 0; i < 9; i++ {
			rollSequence(t, g, 1, 2)
		}
		require.NoError(t, g.Roll(1))
		assert.False(t, g.IsComplete(), "tenth frame awaiting second roll")
		require.NoError(t, g.Roll(2))
		assert.True(t, g.IsComplete())
		assert.Equal(t, 30, g.Score())
	})

	t.Run("tenth frame spare earns exactly one extra roll", func(t *testing.T) {
		t.Parallel()

		g := NewGame()
		for i := 0; i < 9; i++ {
			rollSequence(t, g, 1, 2)
		}
		rollSequence(t, g, 4, 6)
		assert.False(t, g.IsComplete())
		require.NoError(t, g.Roll(7))
		assert.True(t, g.IsComplete())
		assert.Equal(t, 27+10+7, g.Score())
	})

	t.Run("tenth frame strike earns two extra rolls", func(t *testing.T) {
		t.Parallel()

		g := NewGame()
		for i := 0; i < 9; i++ {
			rollSequence(t, g, 1, 2)
		}
		require.NoError(t, g.RollStrike())
		assert.False(t, g.IsComplete())
		require.NoError(t, g.Roll(3))
		assert.False(t, g.IsComplete(), "strike still owed a second bonus roll")
		require.NoError(t, g.Roll(4))
		assert.True(t, g.IsComplete())
		assert.Equal(t, 27+10+3+4, g.Score())
	})

	t.Run("bonus rolls after a strike share one rack", func(t *testing.T) {
		t.Parallel()

		g := NewGame()
		for i := 0; i < 9; i++ {
			rollSequence(t, g, 1, 2)
		}
		require.NoError(t, g.RollStrike())
		require.NoError(t, g.Roll(6))

		err := g.Roll(5)
		var invalid *InvalidRollError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, 5, invalid.Pins)
	})
}

func TestCumulativeScoresNonDecreasingAndFinalisedOnce(t *testing.T) {
	t.Parallel()

	recorder := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(recorder)

	g := NewGame()
	g.SetEventBus(bus)

	rolls := []int{10, 9, 1, 5, 4, 10, 10, 10, 0, 0, 8, 2, 10, 10, 10, 10}
	for _, p := range rolls {
		require.NoError(t, g.Roll(p))
	}
	require.True(t, g.IsComplete())

	seen := map[int]bool{}
	lastTotal := 0
	for _, e := range recorder.events {
		scored, ok := e.(FrameScoredEvent)
		if !ok || scored.FrameIndex >= NumFrames {
			continue
		}
		assert.False(t, seen[scored.FrameIndex], "frame %d finalised twice", scored.FrameIndex)
		seen[scored.FrameIndex] = true
		assert.GreaterOrEqual(t, scored.TotalScore, lastTotal)
		lastTotal = scored.TotalScore
	}
	assert.Len(t, seen, NumFrames)
}

func TestReadAccessorsDoNotMutate(t *testing.T) {
	t.Parallel()

	g := NewGame()
	rollSequence(t, g, 10, 5, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 26, g.Score())
		assert.Equal(t, 2, g.CurrentFrame())
		assert.False(t, g.IsComplete())
		assert.Equal(t, g.Frame(0), g.Frame(0))
	}
}

func TestFrameViewIsACopy(t *testing.T) {
	t.Parallel()

	g := NewGame()
	require.NoError(t, g.Roll(4))

	f := g.Frame(0)
	f.RoundScore = 99
	assert.Equal(t, 4, g.Frame(0).RoundScore)
}

func TestInvalidRollErrorMessage(t *testing.T) {
	t.Parallel()

	err := error(&InvalidRollError{Pins: 13})
	assert.Equal(t, "invalid roll - pin count: 13", err.Error())
	assert.False(t, errors.Is(err, ErrGameComplete))
}
