package game

import (
	"errors"
	"fmt"
)

var (
	// ErrGameComplete is returned when a roll is attempted after the game
	// has finished.
	ErrGameComplete = errors.New("game complete")

	// ErrInvalidSpare is returned by RollSpare when the active frame has
	// no first roll to spare against.
	ErrInvalidSpare = errors.New("invalid spare roll: no first roll in active frame")
)

// InvalidRollError reports a roll whose pin count is out of range or
// exceeds the pins still standing in the active frame. The offending pin
// count is carried for diagnostics.
type InvalidRollError struct {
	Pins int
}

func (e *InvalidRollError) Error() string {
	return fmt.Sprintf("invalid roll - pin count: %d", e.Pins)
}
