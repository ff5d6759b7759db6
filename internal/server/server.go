// Package server provides the HTTP API of wordblox: pulls, domain
// registration and read/edit access to the local store.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/wordblox"
	"github.com/agentstation/wordblox/internal/server/cache"
	"github.com/agentstation/wordblox/internal/server/handlers"
	"github.com/agentstation/wordblox/pkg/constants"
	"github.com/agentstation/wordblox/pkg/sync"
	"github.com/agentstation/wordblox/pkg/wordtag"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	wb        wordblox.Wordblox
	store     handlers.Store
	cache     *cache.Cache
	policy    sync.Policy
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// New creates a server for wb and store. policy is the base for per-request
// policy overrides and should match wb's default policy.
func New(wb wordblox.Wordblox, store handlers.Store, policy sync.Policy, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if wb == nil || store == nil {
		return nil, fmt.Errorf("server requires a wordblox instance and a store")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		wb:        wb,
		store:     store,
		cache:     cache.New(cfg.CacheTTL, max(constants.CacheCleanupInterval, cfg.CacheTTL)),
		policy:    policy,
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	s.connectHooks()

	logger.Debug().Msg("Server instance created")
	return s, nil
}

// connectHooks drops cached listings of domains a pull changed.
func (s *Server) connectHooks() {
	invalidate := func(domain string, _ wordtag.Entry) {
		s.cache.InvalidateDomain(domain)
	}
	s.wb.OnWordCreated(invalidate)
	s.wb.OnWordDeleted(invalidate)
	s.wb.OnWordUpdated(func(domain string, entry wordtag.Entry, _ string) {
		invalidate(domain, entry)
	})

	s.wb.OnPullCompleted(func(result *wordblox.PullResult) {
		s.logger.Info().
			Str("pull_id", result.PullID).
			Str("domain", result.Domain).
			Bool("synced", result.Synced).
			Msg("Pull completed")
	})
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// ListenAndServe serves the API until ctx is done, then drains connections.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port)),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("API server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.cancel()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if shutdownErr := s.Shutdown(shutdownCtx); err == nil {
		err = shutdownErr
	}
	return err
}

// Shutdown stops background services.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()
	return nil
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
