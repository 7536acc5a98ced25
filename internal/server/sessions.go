package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lanekeep/tenpin/internal/game"
	"github.com/lanekeep/tenpin/internal/protocol"
	"github.com/lanekeep/tenpin/internal/sessionid"
)

var (
	// ErrSessionLimit is returned when creating a session would exceed the
	// configured maximum.
	ErrSessionLimit = errors.New("session limit reached")

	// ErrUnknownSession is returned for operations on an id the manager
	// does not know.
	ErrUnknownSession = errors.New("unknown session")
)

// Session is one scoring session: a single bowling game plus the lock
// that serialises access to it. The engine itself does no locking.
type Session struct {
	ID     string
	Bowler string

	mu         sync.Mutex
	game       *game.Game
	clock      quartz.Clock
	lastActive time.Time
}

// Roll applies a roll to the session's game and returns the resulting
// snapshot. When token is non-empty it takes precedence over pins.
func (s *Session) Roll(pins int, token string) (protocol.StateData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.clock.Now()

	var err error
	if token != "" {
		err = game.ApplyToken(s.game, token)
	} else {
		err = s.game.Roll(pins)
	}
	if err != nil {
		return protocol.StateData{}, err
	}
	return s.snapshotLocked(), nil
}

// Reset discards the session's game and starts a fresh one.
func (s *Session) Reset() protocol.StateData {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.clock.Now()
	s.game = game.NewGame()
	return s.snapshotLocked()
}

// Snapshot returns the current wire-level view of the session.
func (s *Session) Snapshot() protocol.StateData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// IdleSince reports the last time the session was touched.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) snapshotLocked() protocol.StateData {
	frames := make([]protocol.FrameState, game.MaxFrames)
	for i := 0; i < game.MaxFrames; i++ {
		f := s.game.Frame(i)
		frames[i] = protocol.FrameState{
			Strike:     f.Strike,
			Spare:      f.Spare,
			RoundScore: f.RoundScore,
			TotalScore: f.TotalScore,
		}
		if f.First.Taken {
			pins := f.First.Pins
			frames[i].FirstRoll = &pins
		}
		if f.Second.Taken {
			pins := f.Second.Pins
			frames[i].SecondRoll = &pins
		}
	}

	return protocol.StateData{
		SessionID:   s.ID,
		Frames:      frames,
		ActiveFrame: s.game.CurrentFrame(),
		Score:       s.game.Score(),
		Complete:    s.game.IsComplete(),
	}
}

// SessionManager owns the scoring sessions and reaps idle ones.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	clock       quartz.Clock
	idleTimeout time.Duration
	maxSessions int
	logger      *log.Logger
}

// NewSessionManager creates a session manager.
func NewSessionManager(logger *log.Logger, clock quartz.Clock, idleTimeout time.Duration, maxSessions int) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		clock:       clock,
		idleTimeout: idleTimeout,
		maxSessions: maxSessions,
		logger:      logger.WithPrefix("sessions"),
	}
}

// Create starts a new scoring session with a fresh game.
func (m *SessionManager) Create(bowler string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.maxSessions {
		return nil, ErrSessionLimit
	}

	s := &Session{
		ID:         sessionid.New(),
		Bowler:     bowler,
		game:       game.NewGame(),
		clock:      m.clock,
		lastActive: m.clock.Now(),
	}
	m.sessions[s.ID] = s
	m.logger.Info("Session created", "session", s.ID, "bowler", bowler, "total", len(m.sessions))
	return s, nil
}

// Get looks up a session by id.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	return s, nil
}

// Remove drops a session.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		m.logger.Info("Session removed", "session", id, "total", len(m.sessions))
	}
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ExpireIdle removes sessions that have not been touched within the idle
// timeout and returns how many were reaped.
func (m *SessionManager) ExpireIdle() int {
	cutoff := m.clock.Now().Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	reaped := 0
	for id, s := range m.sessions {
		if s.IdleSince().Before(cutoff) {
			delete(m.sessions, id)
			reaped++
			m.logger.Info("Session expired", "session", id, "bowler", s.Bowler)
		}
	}
	return reaped
}

// Run reaps idle sessions periodically until the context is cancelled.
func (m *SessionManager) Run(ctx context.Context) error {
	waiter := m.clock.TickerFunc(ctx, m.idleTimeout/2, func() error {
		m.ExpireIdle()
		return nil
	}, "session-reaper")

	err := waiter.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
