package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lanekeep/tenpin/internal/game"
	"github.com/lanekeep/tenpin/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a scoreboard client.
type Connection struct {
	conn      *websocket.Conn
	send      chan *protocol.Message
	sessions  *SessionManager
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	sessionID string
}

// NewConnection creates a new connection wrapper.
func NewConnection(conn *websocket.Conn, logger *log.Logger, sessions *SessionManager) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:     conn,
		send:     make(chan *protocol.Message, 64),
		sessions: sessions,
		logger:   logger.WithPrefix("conn"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins handling the connection.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client.
func (c *Connection) SendMessage(msg *protocol.Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown.
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetSession associates this connection with a scoring session.
func (c *Connection) SetSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = sessionID
}

// GetSession returns the associated session id.
func (c *Connection) GetSession() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// readPump handles incoming messages from the client.
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg protocol.Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client.
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "session", c.GetSession())

	switch msg.Type {
	case protocol.TypeJoin:
		var data protocol.JoinData
		if err := msg.DecodeData(&data); err != nil {
			c.sendError(protocol.CodeBadRequest, "Failed to parse join data", nil)
			return
		}
		c.handleJoin(data)

	case protocol.TypeRoll:
		var data protocol.RollData
		if err := msg.DecodeData(&data); err != nil {
			c.sendError(protocol.CodeBadRequest, "Failed to parse roll data", nil)
			return
		}
		c.handleRoll(data)

	case protocol.TypeReset:
		var data protocol.ResetData
		if err := msg.DecodeData(&data); err != nil {
			c.sendError(protocol.CodeBadRequest, "Failed to parse reset data", nil)
			return
		}
		c.handleReset(data)

	case protocol.TypeLeave:
		var data protocol.LeaveData
		if err := msg.DecodeData(&data); err != nil {
			c.sendError(protocol.CodeBadRequest, "Failed to parse leave data", nil)
			return
		}
		c.handleLeave(data)

	default:
		c.sendError(protocol.CodeBadRequest, "Unknown message type: "+string(msg.Type), nil)
	}
}

func (c *Connection) handleJoin(data protocol.JoinData) {
	var (
		session *Session
		err     error
	)
	if data.SessionID != "" {
		session, err = c.sessions.Get(data.SessionID)
	} else {
		session, err = c.sessions.Create(data.Bowler)
	}
	if err != nil {
		c.sendEngineError(err)
		return
	}

	c.SetSession(session.ID)
	c.sendState(session.Snapshot())
}

func (c *Connection) handleRoll(data protocol.RollData) {
	session, err := c.lookupSession(data.SessionID)
	if err != nil {
		c.sendEngineError(err)
		return
	}

	state, err := session.Roll(data.Pins, data.Token)
	if err != nil {
		c.sendEngineError(err)
		return
	}

	c.sendState(state)
	if state.Complete {
		c.sendGameOver(state)
	}
}

func (c *Connection) handleReset(data protocol.ResetData) {
	session, err := c.lookupSession(data.SessionID)
	if err != nil {
		c.sendEngineError(err)
		return
	}
	c.sendState(session.Reset())
}

func (c *Connection) handleLeave(data protocol.LeaveData) {
	id := data.SessionID
	if id == "" {
		id = c.GetSession()
	}
	if id != "" {
		c.sessions.Remove(id)
	}
	c.SetSession("")
}

// lookupSession resolves an explicit session id, falling back to the one
// bound to the connection.
func (c *Connection) lookupSession(id string) (*Session, error) {
	if id == "" {
		id = c.GetSession()
	}
	if id == "" {
		return nil, ErrUnknownSession
	}
	return c.sessions.Get(id)
}

func (c *Connection) sendState(state protocol.StateData) {
	msg, err := protocol.NewMessage(protocol.TypeState, state)
	if err != nil {
		c.logger.Error("Failed to marshal state", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) sendGameOver(state protocol.StateData) {
	msg, err := protocol.NewMessage(protocol.TypeGameOver, protocol.GameOverData{
		SessionID: state.SessionID,
		Score:     state.Score,
	})
	if err != nil {
		c.logger.Error("Failed to marshal game over", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

// sendEngineError maps engine and session errors onto wire error codes.
func (c *Connection) sendEngineError(err error) {
	var invalid *game.InvalidRollError
	switch {
	case errors.As(err, &invalid):
		pins := invalid.Pins
		c.sendError(protocol.CodeInvalidRoll, err.Error(), &pins)
	case errors.Is(err, game.ErrGameComplete):
		c.sendError(protocol.CodeGameComplete, err.Error(), nil)
	case errors.Is(err, game.ErrInvalidSpare):
		c.sendError(protocol.CodeInvalidSpare, err.Error(), nil)
	case errors.Is(err, ErrUnknownSession):
		c.sendError(protocol.CodeUnknownSession, err.Error(), nil)
	default:
		c.sendError(protocol.CodeBadRequest, err.Error(), nil)
	}
}

func (c *Connection) sendError(code, message string, pins *int) {
	msg, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorData{
		Code:    code,
		Message: message,
		Pins:    pins,
	})
	if err != nil {
		c.logger.Error("Failed to marshal error", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}
