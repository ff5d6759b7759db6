package server

import (
	"net/http"

	"github.com/agentstation/wordblox/internal/server/handlers"
	"github.com/agentstation/wordblox/internal/server/middleware"
	"github.com/agentstation/wordblox/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()
	h := handlers.New(s.wb, s.store, s.cache, s.policy, s.logger)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints (no auth required)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/ready", h.HandleReady)

	mux.HandleFunc(prefix+"/pull", methods(map[string]http.HandlerFunc{
		http.MethodPost: h.HandlePull,
	}))

	mux.HandleFunc(prefix+"/domains", methods(map[string]http.HandlerFunc{
		http.MethodGet:  h.HandleListDomains,
		http.MethodPost: h.HandleCreateDomain,
	}))

	mux.HandleFunc(prefix+"/tags", methods(map[string]http.HandlerFunc{
		http.MethodGet: h.HandleListTags,
	}))

	mux.HandleFunc(prefix+"/words", methods(map[string]http.HandlerFunc{
		http.MethodGet: h.HandleListWords,
	}))

	mux.HandleFunc(prefix+"/words/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		switch r.Method {
		case http.MethodGet:
			h.HandleGetWord(w, r, id)
		case http.MethodPatch:
			h.HandleUpdateWord(w, r, id)
		case http.MethodDelete:
			h.HandleDeleteWord(w, r, id)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found", "No route for "+r.URL.Path)
	})
}

// methods dispatches on the request method and answers 405 otherwise.
func methods(byMethod map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fn, ok := byMethod[r.Method]; ok {
			fn(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	}
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	if cfg.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(s.ctx, cfg.RateLimit, s.logger)
		handler = middleware.RateLimit(rateLimiter)(handler)
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig(cfg.PathPrefix)
		authConfig.APIKey = cfg.APIKey
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		handler = middleware.Auth(authConfig, s.logger)(handler)
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		corsConfig.AllowedOrigins = cfg.CORSOrigins
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging, request IDs and recovery are always enabled
	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logger(s.logger),
	)(handler)
}
