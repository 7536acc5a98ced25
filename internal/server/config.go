package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete scoreboard server configuration.
type ServerConfig struct {
	Server   ServerSettings   `hcl:"server,block"`
	Sessions *SessionSettings `hcl:"sessions,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// SessionSettings controls scoring-session lifecycle.
type SessionSettings struct {
	IdleTimeout string `hcl:"idle_timeout,optional"`
	MaxSessions int    `hcl:"max_sessions,optional"`
}

// DefaultServerConfig returns default server configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Sessions: &SessionSettings{
			IdleTimeout: "30m",
			MaxSessions: 1000,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Sessions == nil {
		config.Sessions = DefaultServerConfig().Sessions
	}
	if config.Sessions.IdleTimeout == "" {
		config.Sessions.IdleTimeout = "30m"
	}
	if config.Sessions.MaxSessions == 0 {
		config.Sessions.MaxSessions = 1000
	}

	if _, err := config.IdleTimeout(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ListenAddr returns the address:port string for the HTTP listener.
func (c *ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// IdleTimeout parses the configured session idle timeout.
func (c *ServerConfig) IdleTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Sessions.IdleTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid idle_timeout %q: %w", c.Sessions.IdleTimeout, err)
	}
	return d, nil
}
