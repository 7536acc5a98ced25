package main

import (
	"fmt"

	"github.com/lanekeep/tenpin/internal/game"
	"github.com/lanekeep/tenpin/internal/scoresheet"
)

// DemoCmd scores a canned example game and prints the final sheet.
type DemoCmd struct {
	Plain bool `kong:"help='Disable colours'"`
}

// The classic worked example: spares, a double strike and a full tenth
// frame, finishing on 149.
var demoTokens = []string{
	"8", "/",
	"5", "4",
	"9", "0",
	"x",
	"x",
	"5", "/",
	"5", "3",
	"6", "3",
	"9", "/",
	"9", "/", "x",
}

func (c *DemoCmd) Run() error {
	g := game.NewGame()
	for _, token := range demoTokens {
		if err := game.ApplyToken(g, token); err != nil {
			return fmt.Errorf("demo roll %q: %w", token, err)
		}
	}

	renderer := scoresheet.New()
	if c.Plain {
		renderer = scoresheet.NewWithStyles(scoresheet.PlainStyles())
	}

	fmt.Println("=== Example game ===")
	fmt.Println()
	fmt.Print(renderer.Render(g))
	return nil
}
