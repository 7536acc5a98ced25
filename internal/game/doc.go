// Package game implements the core scoring logic for ten-pin bowling.
//
// The main type is Game, which tracks the state of a single bowling game
// including per-frame pin counts, strike/spare bonus deferral, running
// scores, and completion detection.
//
// # Basic Usage
//
// Create a game and feed it rolls:
//
//	g := game.NewGame()
//	if err := g.Roll(8); err != nil {
//	    // invalid roll, game state unchanged
//	}
//	g.RollSpare()
//	if g.IsComplete() {
//	    total := g.Score()
//	}
//
// # Architecture
//
// A game holds twelve frame slots: ten playable frames plus two bonus
// slots that exist only to receive the extra rolls earned by a strike or
// spare in the tenth frame. Every roll is applied to the active frame and
// then propagated backwards to up to two earlier frames still waiting on
// bonus rolls. A frame's cumulative total is written exactly once, when
// its last bonus roll arrives.
//
// The engine is single threaded and does no locking; callers embedding it
// in a concurrent host must serialise access themselves.
package game
