// Package protocol defines the wire messages exchanged between the
// scoreboard server and its clients. Messages are JSON envelopes with a
// type tag and a raw payload.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of message.
type MessageType string

const (
	// Client -> Server
	TypeJoin  MessageType = "join"
	TypeRoll  MessageType = "roll"
	TypeReset MessageType = "reset"
	TypeLeave MessageType = "leave"

	// Server -> Client
	TypeState    MessageType = "state"
	TypeGameOver MessageType = "game_over"
	TypeError    MessageType = "error"
)

// Message is the base envelope for every wire message.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new envelope with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// DecodeData unmarshals the envelope payload into v.
func (m *Message) DecodeData(v interface{}) error {
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", m.Type, err)
	}
	return nil
}

// Client -> Server Messages

// JoinData asks the server for a scoring session. An empty SessionID
// requests a fresh one; a known id resumes an existing session.
type JoinData struct {
	SessionID string `json:"sessionId,omitempty"`
	Bowler    string `json:"bowler,omitempty"`
}

// RollData submits a single roll. Token carries the textual convention
// used by interactive clients: a digit, "x" for a strike or "/" for a
// spare. When Token is empty, Pins is used directly.
type RollData struct {
	SessionID string `json:"sessionId"`
	Pins      int    `json:"pins"`
	Token     string `json:"token,omitempty"`
}

// ResetData discards the session's game and starts a fresh one.
type ResetData struct {
	SessionID string `json:"sessionId"`
}

// LeaveData abandons the session.
type LeaveData struct {
	SessionID string `json:"sessionId"`
}

// Server -> Client Messages

// FrameState is the wire form of one frame slot.
type FrameState struct {
	FirstRoll  *int `json:"firstRoll,omitempty"`
	SecondRoll *int `json:"secondRoll,omitempty"`
	Strike     bool `json:"strike,omitempty"`
	Spare      bool `json:"spare,omitempty"`
	RoundScore int  `json:"roundScore"`
	TotalScore int  `json:"totalScore"`
}

// StateData is a full snapshot of a scoring session, sent after every
// accepted mutation and on join.
type StateData struct {
	SessionID   string       `json:"sessionId"`
	Frames      []FrameState `json:"frames"`
	ActiveFrame int          `json:"activeFrame"`
	Score       int          `json:"score"`
	Complete    bool         `json:"complete"`
}

// GameOverData announces a finished game.
type GameOverData struct {
	SessionID string `json:"sessionId"`
	Score     int    `json:"score"`
}

// ErrorData reports a rejected request. Code distinguishes the engine's
// error kinds so clients can react without parsing text.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Pins    *int   `json:"pins,omitempty"`
}

// Error codes carried by ErrorData.
const (
	CodeGameComplete   = "game_complete"
	CodeInvalidRoll    = "invalid_roll"
	CodeInvalidSpare   = "invalid_spare"
	CodeUnknownSession = "unknown_session"
	CodeBadRequest     = "bad_request"
)
