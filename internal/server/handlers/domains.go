package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/wordblox/internal/server/response"
)

// HandleListDomains handles GET /api/v1/domains.
func (h *Handlers) HandleListDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.store.ListDomains(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, map[string]any{
		"domains": domains,
		"count":   len(domains),
	})
}

// HandleCreateDomain handles POST /api/v1/domains.
func (h *Handlers) HandleCreateDomain(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON body", err.Error())
		return
	}

	domain, err := h.store.CreateDomain(r.Context(), body.URL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, domain)
}
