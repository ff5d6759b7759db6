package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/wordblox/internal/server/cache"
	"github.com/agentstation/wordblox/internal/server/response"
	"github.com/agentstation/wordblox/pkg/storage"
)

// HandleListTags handles GET /api/v1/tags?domain=. Tags carry their words.
func (h *Handlers) HandleListTags(w http.ResponseWriter, r *http.Request) {
	domain, ok := requireDomain(w, r)
	if !ok {
		return
	}

	key := cache.Key(domain, "tags")
	if cached, found := h.cache.Get(key); found {
		w.Header().Set("X-Cache", "HIT")
		response.OK(w, cached)
		return
	}

	tags, err := h.store.ListTags(r.Context(), domain)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data := map[string]any{"domain": domain, "tags": tags, "count": len(tags)}
	h.cache.Set(key, data)

	w.Header().Set("X-Cache", "MISS")
	response.OK(w, data)
}

// HandleListWords handles GET /api/v1/words?domain=&limit=&offset=.
// Words are ordered by tag then text; limit defaults to DefaultPageSize and
// is capped at MaxPageSize.
func (h *Handlers) HandleListWords(w http.ResponseWriter, r *http.Request) {
	domain, ok := requireDomain(w, r)
	if !ok {
		return
	}
	limit, offset, ok := parsePage(w, r)
	if !ok {
		return
	}

	key := cache.Key(domain, "words")
	var words []storage.Word
	if cached, found := h.cache.Get(key); found {
		words = cached.([]storage.Word)
		w.Header().Set("X-Cache", "HIT")
	} else {
		var err error
		words, err = h.store.ListWords(r.Context(), domain)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.cache.Set(key, words)
		w.Header().Set("X-Cache", "MISS")
	}

	start := min(offset, len(words))
	page := words[start:min(start+limit, len(words))]
	response.OK(w, map[string]any{
		"domain": domain,
		"words":  page,
		"count":  len(page),
		"total":  len(words),
		"limit":  limit,
		"offset": offset,
	})
}

// HandleGetWord handles GET /api/v1/words/{id}.
func (h *Handlers) HandleGetWord(w http.ResponseWriter, r *http.Request, rawID string) {
	word, ok := h.lookupWord(w, r, rawID)
	if !ok {
		return
	}
	response.OK(w, word)
}

// HandleUpdateWord handles PATCH /api/v1/words/{id}. Only details can change;
// a word's text is fixed at creation.
func (h *Handlers) HandleUpdateWord(w http.ResponseWriter, r *http.Request, rawID string) {
	var body struct {
		Details *string `json:"details"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON body", err.Error())
		return
	}
	if body.Details == nil {
		response.BadRequest(w, "Missing details", "The details field is required")
		return
	}

	word, ok := h.lookupWord(w, r, rawID)
	if !ok {
		return
	}
	if err := h.store.UpdateWordDetails(r.Context(), word, *body.Details); err != nil {
		h.fail(w, r, err)
		return
	}
	h.cache.Clear()
	response.OK(w, word)
}

// HandleDeleteWord handles DELETE /api/v1/words/{id}.
func (h *Handlers) HandleDeleteWord(w http.ResponseWriter, r *http.Request, rawID string) {
	word, ok := h.lookupWord(w, r, rawID)
	if !ok {
		return
	}
	if err := h.store.DeleteWord(r.Context(), word); err != nil {
		h.fail(w, r, err)
		return
	}
	h.cache.Clear()
	response.NoContent(w)
}

func (h *Handlers) lookupWord(w http.ResponseWriter, r *http.Request, rawID string) (*storage.Word, bool) {
	id, ok := parseID(w, rawID)
	if !ok {
		return nil, false
	}
	word, err := h.store.GetWord(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return word, true
}
