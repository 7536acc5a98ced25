package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lanekeep/tenpin/cmd/tenpin/shared"
	"github.com/lanekeep/tenpin/internal/client"
	"github.com/lanekeep/tenpin/internal/protocol"
)

// JoinCmd keeps score against a remote scoreboard server.
type JoinCmd struct {
	URL     string `kong:"default='http://localhost:8080',help='Server URL'"`
	Session string `kong:"help='Existing session id to resume'"`
	Bowler  string `kong:"help='Bowler name recorded on the session'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *JoinCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cl := client.NewClient(c.URL, logger)
	if err := cl.Connect(); err != nil {
		return err
	}
	defer func() { _ = cl.Disconnect() }()

	if err := cl.Join(c.Session, c.Bowler); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(shared.SetupSignalHandler(logger))
	defer cancel()

	// Server messages print as they arrive; the prompt loop below only
	// sends.
	go func() {
		defer cancel()
		for {
			msg, err := cl.Receive(ctx)
			if err != nil {
				return
			}
			printMessage(msg)
		}
	}()

	fmt.Println("Type a number 0-10 to bowl, x for strike, / for spare.")
	fmt.Println("Type r to reset the game, q to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		token := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch token {
		case "":
			continue
		case "q", "quit", "exit", "stop":
			_ = cl.Leave()
			return nil
		case "r", "reset", "restart":
			if err := cl.Reset(); err != nil {
				return err
			}
		default:
			if err := cl.RollToken(token); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func printMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeState:
		var state protocol.StateData
		if err := msg.DecodeData(&state); err != nil {
			return
		}
		fmt.Println()
		fmt.Print(client.FormatState(state))

	case protocol.TypeGameOver:
		var over protocol.GameOverData
		if err := msg.DecodeData(&over); err != nil {
			return
		}
		fmt.Printf("\n=== Game complete: %d ===\n", over.Score)

	case protocol.TypeError:
		var wireErr protocol.ErrorData
		if err := msg.DecodeData(&wireErr); err != nil {
			return
		}
		fmt.Printf("error: %s\n", wireErr.Message)
	}
}
