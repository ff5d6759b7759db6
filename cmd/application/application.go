// Package application defines what wordblox commands need from the running
// application. Commands accept this interface rather than the concrete App,
// so they can be built against a test application.
package application

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/wordblox"
	"github.com/agentstation/wordblox/internal/config"
	"github.com/agentstation/wordblox/internal/storage/sqlite"
	"github.com/agentstation/wordblox/pkg/sync"
)

// Application provides the application interface that commands need.
// All methods must be safe for concurrent access.
type Application interface {
	// Config returns the resolved configuration.
	Config() *config.Config

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// Store returns the local store, opening it on first use.
	Store() (*sqlite.Store, error)

	// Wordblox returns the pull orchestrator bound to Store.
	Wordblox() (wordblox.Wordblox, error)

	// Policy returns the configured default reconciliation policy.
	Policy() sync.Policy

	// OutputFormat returns the --format flag value.
	OutputFormat() string

	// Stdout is where command results are written.
	Stdout() io.Writer

	// Version information
	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
