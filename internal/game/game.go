package game

// Scoring constants, named to keep the frame arithmetic self-documenting.
const (
	// NumPins is the number of pins standing at the top of a frame.
	NumPins = 10

	// NumFrames is the number of playable frames in a game.
	NumFrames = 10

	// FirstBonusSlot and SecondBonusSlot hold the extra rolls earned by a
	// strike or spare in the tenth frame. They are never scored standalone;
	// their pins feed only into earlier frames' pending bonuses.
	FirstBonusSlot  = NumFrames
	SecondBonusSlot = NumFrames + 1

	// MaxFrames is the total number of frame slots including bonus slots.
	MaxFrames = NumFrames + 2

	spareBonusRolls  = 1
	strikeBonusRolls = 2
)

// Roll records the pin count of a single delivery. Taken distinguishes a
// roll that has not happened yet from a legitimate zero-pin roll.
type Roll struct {
	Pins  int
	Taken bool
}

// Frame is the scoring record for a single frame slot.
type Frame struct {
	First      Roll
	Second     Roll
	Strike     bool
	Spare      bool
	BonusRolls int // subsequent rolls still owed to this frame's score
	RoundScore int // pins credited to this frame so far (base + bonus)
	TotalScore int // cumulative score through this frame; 0 until finalised
}

// Game tracks the score of a single ten-pin bowling game. The zero value
// is not usable; create instances with NewGame. Resetting a game means
// discarding it and creating a fresh one.
type Game struct {
	frames  [MaxFrames]Frame
	current int
	bus     EventBus
}

// NewGame creates a game with all frames empty and the cursor on frame 0.
func NewGame() *Game {
	return &Game{}
}

// SetEventBus attaches an event bus that receives roll, frame-scored and
// game-complete events. Pass nil to detach.
func (g *Game) SetEventBus(bus EventBus) {
	g.bus = bus
}

// CurrentFrame returns the index of the active frame slot, the one
// awaiting the next roll. Indexes NumFrames and above are bonus slots.
func (g *Game) CurrentFrame() int {
	return g.current
}

// Frame returns a read-only copy of the frame slot at index i.
func (g *Game) Frame(i int) Frame {
	return g.frames[i]
}

// Score returns the current total: the most recently finalised cumulative
// score, found by scanning frames from last to first. Before any frame has
// been finalised it falls back to frame 0's in-progress round score.
func (g *Game) Score() int {
	for i := len(g.frames) - 1; i >= 0; i-- {
		if g.frames[i].TotalScore > 0 {
			return g.frames[i].TotalScore
		}
	}
	return g.frames[0].RoundScore
}

// IsComplete reports whether the game has finished.
func (g *Game) IsComplete() bool {
	switch {
	case g.current < FirstBonusSlot:
		// Still inside the ten playable frames.
		return false
	case g.current == FirstBonusSlot:
		// A strike or spare in the tenth frame earns at least one extra roll.
		return !g.frames[NumFrames-1].Spare && !g.frames[NumFrames-1].Strike
	case g.current == SecondBonusSlot:
		// Only a tenth-frame strike still owed a bonus roll keeps the game open.
		tenth := g.frames[NumFrames-1]
		return !(tenth.Strike && tenth.BonusRolls > 0)
	default:
		return true
	}
}

// Roll records a delivery that knocked down pins pins.
//
// Validation happens before any mutation: a roll after the game has
// completed fails with ErrGameComplete, and a pin count that is out of
// range or exceeds the pins still standing in the active frame fails with
// InvalidRollError. On failure the game state is unchanged.
func (g *Game) Roll(pins int) error {
	if g.IsComplete() {
		return ErrGameComplete
	}
	if pins < 0 || pins > NumPins || !g.checkRoll(pins) {
		return &InvalidRollError{Pins: pins}
	}

	// Base pins count towards the playable frames only; rolls in the bonus
	// slots feed earlier frames exclusively.
	if g.current < NumFrames {
		g.frames[g.current].RoundScore += pins
	}

	// Bonus propagation over a fixed lookback window of two. Two back
	// strictly before one back: consecutive strikes in the two preceding
	// frames both claim this roll, and the nearer frame's total builds on
	// the farther one's.
	for _, back := range [...]int{2, 1} {
		i := g.current - back
		if i < 0 || g.frames[i].BonusRolls == 0 {
			continue
		}
		prior := &g.frames[i]
		prior.RoundScore += pins
		prior.BonusRolls--
		if prior.BonusRolls == 0 {
			g.finalise(i)
		}
	}

	frame := &g.frames[g.current]
	if !frame.First.Taken {
		frame.First = Roll{Pins: pins, Taken: true}
		g.publishRoll(g.current, pins, 1)

		// A strike ends the frame without a second roll.
		if pins == NumPins {
			frame.Strike = true
			frame.BonusRolls = strikeBonusRolls
			g.advance()
			return nil
		}

		// A tenth-frame spare earns exactly one extra roll.
		if g.current == FirstBonusSlot && g.frames[NumFrames-1].Spare {
			g.advance()
			return nil
		}

		// Back-to-back strikes in the tenth frame and first bonus slot
		// leave one final roll, which this was.
		if g.current == SecondBonusSlot && g.frames[NumFrames-1].Strike && g.frames[FirstBonusSlot].Strike {
			g.advance()
		}
		return nil
	}

	// Second roll of the active frame.
	frame.Second = Roll{Pins: pins, Taken: true}
	g.publishRoll(g.current, pins, 2)

	if frame.First.Pins+frame.Second.Pins == NumPins {
		frame.Spare = true
		frame.BonusRolls = spareBonusRolls
	} else {
		// An open frame scores immediately.
		g.finalise(g.current)
	}
	g.advance()
	return nil
}

// RollSpare knocks down the pins left standing by the active frame's first
// roll. It fails with ErrInvalidSpare when there is no first roll on
// record to spare against.
func (g *Game) RollSpare() error {
	if g.IsComplete() {
		return ErrGameComplete
	}
	frame := g.frames[g.current]
	if !frame.First.Taken {
		return ErrInvalidSpare
	}
	return g.Roll(NumPins - frame.First.Pins)
}

// RollStrike knocks down all ten pins.
func (g *Game) RollStrike() error {
	return g.Roll(NumPins)
}

// checkRoll reports whether a roll of pins pins is possible in the active
// frame given the pins already knocked down.
func (g *Game) checkRoll(pins int) bool {
	frame := g.frames[g.current]
	if !frame.First.Taken {
		return pins <= NumPins
	}
	return frame.First.Pins+pins <= NumPins
}

// finalise writes the cumulative score for frame slot i. Called exactly
// once per frame, when its last owed roll has been credited.
func (g *Game) finalise(i int) {
	frame := &g.frames[i]
	if i > 0 {
		frame.TotalScore = g.frames[i-1].TotalScore + frame.RoundScore
	} else {
		frame.TotalScore = frame.RoundScore
	}
	if g.bus != nil {
		g.bus.Publish(NewFrameScoredEvent(i, frame.RoundScore, frame.TotalScore))
	}
}

// advance moves the cursor past the active frame and publishes completion
// when the game is over.
func (g *Game) advance() {
	g.current++
	if g.bus != nil && g.IsComplete() {
		g.bus.Publish(NewGameCompleteEvent(g.Score()))
	}
}

func (g *Game) publishRoll(frameIndex, pins, rollNumber int) {
	if g.bus != nil {
		g.bus.Publish(NewRollEvent(frameIndex, pins, rollNumber))
	}
}
