// Package handlers provides HTTP request handlers for the wordblox API.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/agentstation/wordblox"
	"github.com/agentstation/wordblox/internal/server/cache"
	"github.com/agentstation/wordblox/internal/server/response"
	"github.com/agentstation/wordblox/pkg/constants"
	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/logging"
	"github.com/agentstation/wordblox/pkg/storage"
	"github.com/agentstation/wordblox/pkg/sync"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Store is the read and edit surface of the local store used by the API.
type Store interface {
	Ping(ctx context.Context) error
	CreateDomain(ctx context.Context, url string) (*storage.Domain, error)
	ListDomains(ctx context.Context) ([]storage.Domain, error)
	ListTags(ctx context.Context, domain string) ([]storage.TagWithWords, error)
	ListWords(ctx context.Context, domain string) ([]storage.Word, error)
	GetWord(ctx context.Context, id int64) (*storage.Word, error)
	UpdateWordDetails(ctx context.Context, word *storage.Word, details string) error
	DeleteWord(ctx context.Context, word *storage.Word) error
}

// Puller runs pulls.
type Puller interface {
	Pull(ctx context.Context, req wordblox.PullRequest, opts ...wordblox.PullOption) *wordblox.PullResult
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	puller Puller
	store  Store
	cache  *cache.Cache
	policy sync.Policy
	logger *zerolog.Logger
}

// New creates a new Handlers instance. policy is the base that per-request
// policy fields are applied to.
func New(puller Puller, store Store, c *cache.Cache, policy sync.Policy, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		puller: puller,
		store:  store,
		cache:  c,
		policy: policy,
		logger: logger,
	}
}

// fail writes err as a response and logs server-side failures.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.IsNotFound(err) && !errors.IsValidationError(err) && !errors.IsAlreadyExists(err) {
		logging.FromContext(r.Context()).Error().Err(err).Msg("Request failed")
	}
	response.ErrorFromType(w, err)
}

// requireDomain reads the domain query parameter.
func requireDomain(w http.ResponseWriter, r *http.Request) (string, bool) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		response.BadRequest(w, "Missing domain", "The domain query parameter is required")
		return "", false
	}
	return domain, true
}

// parseID parses a positive integer path identifier.
func parseID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid id", "The id must be a positive integer")
		return 0, false
	}
	return id, true
}

// parsePage reads the limit and offset query parameters.
func parsePage(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	q := r.URL.Query()
	limit = constants.DefaultPageSize
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(w, "Invalid limit", "The limit must be a positive integer")
			return 0, 0, false
		}
		limit = min(n, constants.MaxPageSize)
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(w, "Invalid offset", "The offset must be a non-negative integer")
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
