// Package app provides the application context and dependency management
// for the wordblox CLI: configuration, logging, and the lazily opened store
// and pull orchestrator shared by every command.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	gosync "sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/wordblox"
	"github.com/agentstation/wordblox/cmd/application"
	"github.com/agentstation/wordblox/internal/config"
	"github.com/agentstation/wordblox/internal/storage/sqlite"
	"github.com/agentstation/wordblox/pkg/constants"
	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/logging"
	"github.com/agentstation/wordblox/pkg/sync"
)

var _ application.Application = (*App)(nil)

// App represents the wordblox application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Global flags
	flags flags

	// Configuration, resolved before each command runs
	config *config.Config
	logger *zerolog.Logger
	stdout io.Writer

	// Lazily opened dependencies
	mu    gosync.Mutex
	store *sqlite.Store
	wb    wordblox.Wordblox
	wbOpt []wordblox.Option
}

// flags holds the persistent flags of the root command.
type flags struct {
	configFile string
	verbose    bool
	quiet      bool
	logLevel   string
	format     string
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	nop := zerolog.Nop()
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		logger:  &nop,
		stdout:  os.Stdout,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Stdout returns the writer for command results.
func (a *App) Stdout() io.Writer { return a.stdout }

// OutputFormat returns the --format flag value.
func (a *App) OutputFormat() string { return a.flags.format }

// Policy returns the configured default policy. The configuration was
// validated on load, so parse errors cannot occur here.
func (a *App) Policy() sync.Policy {
	p, err := a.config.Policy()
	if err != nil {
		return sync.DefaultPolicy()
	}
	return p
}

// Store returns the local store, opening it on first use.
func (a *App) Store() (*sqlite.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.openStore()
}

func (a *App) openStore() (*sqlite.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if a.config == nil {
		return nil, errors.NewConfigError("app", "configuration not loaded", nil)
	}

	path := a.config.Database.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("path", path).Msg("Opened store")
	a.store = store
	return store, nil
}

// Wordblox returns the pull orchestrator, creating it on first use.
func (a *App) Wordblox() (wordblox.Wordblox, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.wb != nil {
		return a.wb, nil
	}
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}

	ext := a.config.External
	opts := []wordblox.Option{
		wordblox.WithServiceURLs(ext.LoginURL, ext.DataURL),
		wordblox.WithHTTPTimeout(ext.Timeout),
		wordblox.WithPullTimeout(ext.PullTimeout),
		wordblox.WithDefaultPolicy(a.Policy()),
	}
	if ext.UserAgent != "" {
		opts = append(opts, wordblox.WithUserAgent(ext.UserAgent))
	}
	opts = append(opts, a.wbOpt...)

	wb, err := wordblox.New(store, opts...)
	if err != nil {
		return nil, err
	}
	a.wb = wb
	return wb, nil
}

// Shutdown releases the store.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	a.wb = nil
	return err
}

// loadConfig resolves configuration and rebuilds the logger from flags.
func (a *App) loadConfig() error {
	if a.config == nil {
		cfg, err := config.Load(a.flags.configFile)
		if err != nil {
			return err
		}
		a.config = cfg
	}

	logger := NewLogger(a.config.Log, a.flags)
	a.logger = &logger
	logging.SetDefault(logger)
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a resolved configuration, skipping config.Load.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		a.config = cfg
		return nil
	}
}

// WithStdout redirects command results.
func WithStdout(w io.Writer) Option {
	return func(a *App) error {
		a.stdout = w
		return nil
	}
}

// WithWordbloxOptions appends options used when creating the orchestrator.
func WithWordbloxOptions(opts ...wordblox.Option) Option {
	return func(a *App) error {
		a.wbOpt = append(a.wbOpt, opts...)
		return nil
	}
}
