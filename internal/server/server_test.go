package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wordblox"
	"github.com/agentstation/wordblox/internal/config"
	"github.com/agentstation/wordblox/internal/storage/sqlite"
	"github.com/agentstation/wordblox/pkg/constants"
	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/logging"
	"github.com/agentstation/wordblox/pkg/sync"
	"github.com/agentstation/wordblox/pkg/wordtag"
)

const domain = "example.com"

// stubFetcher serves a fixed record set and accepts one password.
type stubFetcher struct {
	entries []wordtag.Entry
}

func (f *stubFetcher) Auth(_ context.Context, _, password string) error {
	if password != "secret" {
		return errors.NewExternalServiceError(http.StatusForbidden, "login", "login failed")
	}
	return nil
}

func (f *stubFetcher) Fetch(context.Context, string) ([]wordtag.Entry, []error, error) {
	return f.entries, nil, nil
}

func (f *stubFetcher) Close() error { return nil }

type fixture struct {
	store   *sqlite.Store
	fetcher *stubFetcher
	handler http.Handler
	server  *Server
}

func newFixture(t *testing.T, mutate ...func(*Config)) *fixture {
	t.Helper()
	logging.DisableLoggingForTest(t)

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &stubFetcher{entries: []wordtag.Entry{
		{Tag: "animals", Word: "cat", Details: "meows"},
		{Tag: "animals", Word: "dog", Details: "barks"},
	}}
	wb, err := wordblox.New(store, wordblox.WithFetcherFactory(func() (wordblox.Fetcher, error) { return f, nil }))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.RateLimit = 0
	for _, m := range mutate {
		m(&cfg)
	}
	logger := zerolog.Nop()
	srv, err := New(wb, store, sync.DefaultPolicy(), cfg, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return &fixture{store: store, fetcher: f, handler: srv.Handler(), server: srv}
}

func (fx *fixture) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	fx.handler.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data  map[string]any `json:"data"`
		Error any            `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	require.Nil(t, body.Error)
	return body.Data
}

func TestHealthAndReady(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = fx.do(t, http.MethodGet, "/api/v1/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", decodeData(t, w)["status"])

	require.NoError(t, fx.store.Close())
	w = fx.do(t, http.MethodGet, "/api/v1/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDomains(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(t, http.MethodPost, "/api/v1/domains", map[string]string{"url": domain})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, domain, decodeData(t, w)["url"])

	w = fx.do(t, http.MethodPost, "/api/v1/domains", map[string]string{"url": domain})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = fx.do(t, http.MethodPost, "/api/v1/domains", map[string]string{"url": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(t, http.MethodGet, "/api/v1/domains", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeData(t, w)["count"])

	w = fx.do(t, http.MethodDelete, "/api/v1/domains", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestPullEndpoint(t *testing.T) {
	fx := newFixture(t)
	require.Equal(t, http.StatusCreated, fx.do(t, http.MethodPost, "/api/v1/domains", map[string]string{"url": domain}).Code)

	t.Run("malformed body", func(t *testing.T) {
		w := fx.do(t, http.MethodPost, "/api/v1/pull", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		w := fx.do(t, http.MethodGet, "/api/v1/pull", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("authentication failure", func(t *testing.T) {
		w := fx.do(t, http.MethodPost, "/api/v1/pull",
			map[string]string{"domain": domain, "username": "u", "password": "wrong"})
		require.Equal(t, http.StatusOK, w.Code)
		var res map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, false, res["syncCompleted"])
		assert.Contains(t, res["syncErr"], "Authentication Error")
	})

	t.Run("success", func(t *testing.T) {
		w := fx.do(t, http.MethodPost, "/api/v1/pull",
			map[string]any{"domain": domain, "username": "u", "password": "secret",
				"policy": map[string]string{"conflict": "bogus", "deletion": "delete"}})
		require.Equal(t, http.StatusOK, w.Code)
		var res map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, true, res["syncCompleted"], res["syncErr"])
		assert.Equal(t, "", res["syncErr"])
		assert.NotContains(t, w.Body.String(), "secret")
	})
}

func TestTagsCacheInvalidatedByPull(t *testing.T) {
	fx := newFixture(t)
	require.Equal(t, http.StatusCreated, fx.do(t, http.MethodPost, "/api/v1/domains", map[string]string{"url": domain}).Code)

	w := fx.do(t, http.MethodGet, "/api/v1/tags", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(t, http.MethodGet, "/api/v1/tags?domain="+domain, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.EqualValues(t, 0, decodeData(t, w)["count"])

	w = fx.do(t, http.MethodGet, "/api/v1/tags?domain="+domain, nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	pull := fx.do(t, http.MethodPost, "/api/v1/pull",
		map[string]string{"domain": domain, "username": "u", "password": "secret"})
	require.Equal(t, http.StatusOK, pull.Code)

	w = fx.do(t, http.MethodGet, "/api/v1/tags?domain="+domain, nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	data := decodeData(t, w)
	assert.EqualValues(t, 1, data["count"])
	tags := data["tags"].([]any)
	tag := tags[0].(map[string]any)
	assert.Equal(t, "animals", tag["text"])
	assert.Len(t, tag["words"], 2)
}

func TestWordEndpoints(t *testing.T) {
	fx := newFixture(t)
	require.Equal(t, http.StatusCreated, fx.do(t, http.MethodPost, "/api/v1/domains", map[string]string{"url": domain}).Code)
	require.Equal(t, http.StatusOK, fx.do(t, http.MethodPost, "/api/v1/pull",
		map[string]string{"domain": domain, "username": "u", "password": "secret"}).Code)

	w := fx.do(t, http.MethodGet, "/api/v1/words?domain="+domain, nil)
	require.Equal(t, http.StatusOK, w.Code)
	words := decodeData(t, w)["words"].([]any)
	require.Len(t, words, 2)
	id := int64(words[0].(map[string]any)["id"].(float64))
	path := fmt.Sprintf("/api/v1/words/%d", id)

	w = fx.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cat", decodeData(t, w)["text"])

	w = fx.do(t, http.MethodPatch, path, map[string]string{"text": "lion", "details": "purrs"})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "cat", data["text"])
	assert.Equal(t, "purrs", data["details"])

	w = fx.do(t, http.MethodPatch, path, map[string]string{"text": "lion"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(t, http.MethodGet, "/api/v1/words?domain="+domain, nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = fx.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = fx.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = fx.do(t, http.MethodGet, "/api/v1/words/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(t, http.MethodPut, path, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestListWordsPagination(t *testing.T) {
	fx := newFixture(t)
	require.Equal(t, http.StatusCreated, fx.do(t, http.MethodPost, "/api/v1/domains", map[string]string{"url": domain}).Code)
	require.Equal(t, http.StatusOK, fx.do(t, http.MethodPost, "/api/v1/pull",
		map[string]string{"domain": domain, "username": "u", "password": "secret"}).Code)

	w := fx.do(t, http.MethodGet, "/api/v1/words?domain="+domain, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(constants.DefaultPageSize), data["limit"])
	assert.Equal(t, float64(2), data["total"])

	w = fx.do(t, http.MethodGet, "/api/v1/words?domain="+domain+"&limit=1&offset=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	data = decodeData(t, w)
	words := data["words"].([]any)
	require.Len(t, words, 1)
	assert.Equal(t, "dog", words[0].(map[string]any)["text"])
	assert.Equal(t, float64(2), data["total"])

	w = fx.do(t, http.MethodGet, "/api/v1/words?domain="+domain+"&offset=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData(t, w)["words"])

	w = fx.do(t, http.MethodGet, "/api/v1/words?domain="+domain+"&limit=5000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(constants.MaxPageSize), decodeData(t, w)["limit"])

	for _, q := range []string{"limit=0", "limit=abc", "offset=-1"} {
		w = fx.do(t, http.MethodGet, "/api/v1/words?domain="+domain+"&"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestAuthMiddlewareWired(t *testing.T) {
	fx := newFixture(t, func(c *Config) {
		c.AuthEnabled = true
		c.APIKey = "key"
	})

	assert.Equal(t, http.StatusOK, fx.do(t, http.MethodGet, "/api/v1/health", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, fx.do(t, http.MethodGet, "/api/v1/domains", nil).Code)
	assert.Equal(t, http.StatusOK, fx.do(t, http.MethodGet, "/api/v1/domains", nil, "X-API-Key", "key").Code)
}

func TestUnknownRoute(t *testing.T) {
	fx := newFixture(t)
	w := fx.do(t, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestConfigFromDefaults(t *testing.T) {
	cfg := ConfigFrom(configServer())
	assert.Equal(t, "/api/v1", cfg.PathPrefix)
	assert.Equal(t, "X-API-Key", cfg.AuthHeader)
	assert.Equal(t, DefaultConfig().CacheTTL, cfg.CacheTTL)
	assert.Equal(t, 9000, cfg.Port)
}

func configServer() config.ServerConfig {
	return config.ServerConfig{Host: "0.0.0.0", Port: 9000}
}
