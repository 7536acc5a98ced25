package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanekeep/tenpin/internal/protocol"
)

// newTestServer exposes the handler over httptest. The idle reaper is not
// running; sessions live for the test.
func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	sessions := NewSessionManager(testLogger(), quartz.NewMock(t), time.Hour, 100)
	s := NewServer("unused", testLogger(), sessions)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Stop()
	})
	return s, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, messageType protocol.MessageType, data interface{}) {
	t.Helper()

	msg, err := protocol.NewMessage(messageType, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func receive(t *testing.T, conn *websocket.Conn) *protocol.Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg protocol.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJoinAndRoll(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	send(t, conn, protocol.TypeJoin, protocol.JoinData{Bowler: "dana"})

	msg := receive(t, conn)
	require.Equal(t, protocol.TypeState, msg.Type)

	var state protocol.StateData
	require.NoError(t, msg.DecodeData(&state))
	require.NotEmpty(t, state.SessionID)
	assert.Equal(t, 0, state.Score)

	send(t, conn, protocol.TypeRoll, protocol.RollData{SessionID: state.SessionID, Pins: 7})

	msg = receive(t, conn)
	require.Equal(t, protocol.TypeState, msg.Type)
	require.NoError(t, msg.DecodeData(&state))
	assert.Equal(t, 7, state.Score)
	require.NotNil(t, state.Frames[0].FirstRoll)
	assert.Equal(t, 7, *state.Frames[0].FirstRoll)
}

func TestPerfectGameOverWire(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	send(t, conn, protocol.TypeJoin, protocol.JoinData{})
	msg := receive(t, conn)
	var state protocol.StateData
	require.NoError(t, msg.DecodeData(&state))

	for i := 0; i < 12; i++ {
		send(t, conn, protocol.TypeRoll, protocol.RollData{SessionID: state.SessionID, Token: "x"})
		msg = receive(t, conn)
		require.Equal(t, protocol.TypeState, msg.Type)
		require.NoError(t, msg.DecodeData(&state))
	}

	assert.True(t, state.Complete)
	assert.Equal(t, 300, state.Score)

	// Completion is announced separately after the final state.
	msg = receive(t, conn)
	require.Equal(t, protocol.TypeGameOver, msg.Type)

	var over protocol.GameOverData
	require.NoError(t, msg.DecodeData(&over))
	assert.Equal(t, 300, over.Score)
}

func TestInvalidRollOverWire(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	send(t, conn, protocol.TypeJoin, protocol.JoinData{})
	msg := receive(t, conn)
	var state protocol.StateData
	require.NoError(t, msg.DecodeData(&state))

	send(t, conn, protocol.TypeRoll, protocol.RollData{SessionID: state.SessionID, Pins: 8})
	receive(t, conn)

	send(t, conn, protocol.TypeRoll, protocol.RollData{SessionID: state.SessionID, Pins: 6})
	msg = receive(t, conn)
	require.Equal(t, protocol.TypeError, msg.Type)

	var wireErr protocol.ErrorData
	require.NoError(t, msg.DecodeData(&wireErr))
	assert.Equal(t, protocol.CodeInvalidRoll, wireErr.Code)
	require.NotNil(t, wireErr.Pins)
	assert.Equal(t, 6, *wireErr.Pins)
}

func TestRollOnUnknownSession(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	send(t, conn, protocol.TypeRoll, protocol.RollData{SessionID: "missing", Pins: 3})
	msg := receive(t, conn)
	require.Equal(t, protocol.TypeError, msg.Type)

	var wireErr protocol.ErrorData
	require.NoError(t, msg.DecodeData(&wireErr))
	assert.Equal(t, protocol.CodeUnknownSession, wireErr.Code)
}

func TestResetOverWire(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	send(t, conn, protocol.TypeJoin, protocol.JoinData{})
	msg := receive(t, conn)
	var state protocol.StateData
	require.NoError(t, msg.DecodeData(&state))

	send(t, conn, protocol.TypeRoll, protocol.RollData{SessionID: state.SessionID, Token: "x"})
	receive(t, conn)

	send(t, conn, protocol.TypeReset, protocol.ResetData{SessionID: state.SessionID})
	msg = receive(t, conn)
	require.Equal(t, protocol.TypeState, msg.Type)
	require.NoError(t, msg.DecodeData(&state))
	assert.Equal(t, 0, state.Score)
	assert.Equal(t, 0, state.ActiveFrame)
}
