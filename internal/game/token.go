package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownToken is returned by ApplyToken for input that is neither a
// pin count, a strike token nor a spare token.
var ErrUnknownToken = errors.New("unknown roll token")

// ApplyToken translates the textual roll convention used by front ends
// into an engine call: a number rolls that many pins, "x" rolls a strike
// and "/" rolls a spare. Engine errors pass through unchanged.
func ApplyToken(g *Game, token string) error {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "x":
		return g.RollStrike()
	case "/":
		return g.RollSpare()
	}

	pins, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownToken, token)
	}
	return g.Roll(pins)
}
