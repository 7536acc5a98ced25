package main

import (
	"time"

	"github.com/coder/quartz"

	"github.com/lanekeep/tenpin/cmd/tenpin/shared"
	"github.com/lanekeep/tenpin/internal/server"
)

// ServerCmd runs the WebSocket scoreboard server.
type ServerCmd struct {
	Config      string        `kong:"help='HCL config file',type='path'"`
	Addr        string        `kong:"help='Listen address, overrides the config file'"`
	Debug       bool          `kong:"help='Enable debug logging'"`
	IdleTimeout time.Duration `kong:"help='Idle session expiry, overrides the config file'"`
	MaxSessions int           `kong:"help='Maximum concurrent sessions, overrides the config file'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}

	logger := shared.SetupLogger(c.Debug || cfg.Server.LogLevel == "debug")

	addr := cfg.ListenAddr()
	if c.Addr != "" {
		addr = c.Addr
	}

	idleTimeout, err := cfg.IdleTimeout()
	if err != nil {
		return err
	}
	if c.IdleTimeout > 0 {
		idleTimeout = c.IdleTimeout
	}

	maxSessions := cfg.Sessions.MaxSessions
	if c.MaxSessions > 0 {
		maxSessions = c.MaxSessions
	}

	logger.Info("Starting tenpin scoreboard server",
		"addr", addr,
		"idle_timeout", idleTimeout,
		"max_sessions", maxSessions)

	sessions := server.NewSessionManager(logger, quartz.NewReal(), idleTimeout, maxSessions)
	s := server.NewServer(addr, logger, sessions)

	ctx := shared.SetupSignalHandler(logger)
	return s.Start(ctx)
}
