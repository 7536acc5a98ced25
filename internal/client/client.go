// Package client implements the WebSocket client used for remote
// scorekeeping against a scoreboard server.
package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lanekeep/tenpin/internal/protocol"
)

// Client is a WebSocket client for a scoreboard server.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *protocol.Message
	receive   chan *protocol.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	connected bool
	sessionID string
	closeOnce sync.Once
}

// NewClient creates a client for the given server URL.
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		send:      make(chan *protocol.Message, 64),
		receive:   make(chan *protocol.Message, 64),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect() error {
	c.logger.Info("Connecting to server", "url", c.serverURL)

	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	c.logger.Info("Connected to server")
	return nil
}

// Disconnect closes the connection.
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
			c.connected = false
		}
	})
	return nil
}

// SessionID returns the session the client joined.
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// Join requests a scoring session. An empty id asks for a fresh session.
func (c *Client) Join(sessionID, bowler string) error {
	return c.sendMessage(protocol.TypeJoin, protocol.JoinData{SessionID: sessionID, Bowler: bowler})
}

// RollToken submits a roll using the textual token convention.
func (c *Client) RollToken(token string) error {
	return c.sendMessage(protocol.TypeRoll, protocol.RollData{SessionID: c.SessionID(), Token: token})
}

// Roll submits a roll by pin count.
func (c *Client) Roll(pins int) error {
	return c.sendMessage(protocol.TypeRoll, protocol.RollData{SessionID: c.SessionID(), Pins: pins})
}

// Reset discards the joined session's game and starts over.
func (c *Client) Reset() error {
	return c.sendMessage(protocol.TypeReset, protocol.ResetData{SessionID: c.SessionID()})
}

// Leave abandons the joined session.
func (c *Client) Leave() error {
	return c.sendMessage(protocol.TypeLeave, protocol.LeaveData{SessionID: c.SessionID()})
}

// Receive returns the next server message, or an error when the
// connection closes or the context expires.
func (c *Client) Receive(ctx context.Context) (*protocol.Message, error) {
	select {
	case msg, ok := <-c.receive:
		if !ok {
			return nil, fmt.Errorf("connection closed")
		}
		if msg.Type == protocol.TypeState {
			var state protocol.StateData
			if err := msg.DecodeData(&state); err == nil {
				c.mu.Lock()
				c.sessionID = state.SessionID
				c.mu.Unlock()
			}
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	}
}

func (c *Client) sendMessage(messageType protocol.MessageType, data interface{}) error {
	msg, err := protocol.NewMessage(messageType, data)
	if err != nil {
		return err
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

func (c *Client) readPump() {
	defer func() {
		_ = c.Disconnect()
		close(c.receive)
	}()

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) writePump() {
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				_ = c.Disconnect()
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}
