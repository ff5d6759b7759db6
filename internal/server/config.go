package server

import (
	"time"

	"github.com/agentstation/wordblox/internal/config"
	"github.com/agentstation/wordblox/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Authentication settings
	AuthEnabled bool
	AuthHeader  string
	APIKey      string

	// Performance settings
	RateLimit int // Requests per minute per IP (0 to disable)
	CacheTTL  time.Duration

	// HTTP timeouts. WriteTimeout must cover a full pull.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		PathPrefix:   "/api/v1",
		AuthHeader:   "X-API-Key",
		RateLimit:    100,
		CacheTTL:     constants.CacheTTL,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: constants.PullTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// ConfigFrom builds a Config from the loaded application settings.
func ConfigFrom(sc config.ServerConfig) Config {
	cfg := DefaultConfig()
	cfg.Host = sc.Host
	cfg.Port = sc.Port
	if sc.PathPrefix != "" {
		cfg.PathPrefix = sc.PathPrefix
	}
	cfg.CORSEnabled = sc.CORSEnabled
	cfg.CORSOrigins = sc.CORSOrigins
	cfg.AuthEnabled = sc.AuthEnabled
	if sc.AuthHeader != "" {
		cfg.AuthHeader = sc.AuthHeader
	}
	cfg.APIKey = sc.APIKey
	cfg.RateLimit = sc.RateLimit
	if sc.CacheTTL > 0 {
		cfg.CacheTTL = sc.CacheTTL
	}
	return cfg
}
