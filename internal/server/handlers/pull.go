package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/wordblox"
	"github.com/agentstation/wordblox/internal/server/response"
	"github.com/agentstation/wordblox/pkg/sync"
)

// pullBody is the body of POST /api/v1/pull.
type pullBody struct {
	Domain   string      `json:"domain"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Policy   *policyBody `json:"policy,omitempty"`
}

type policyBody struct {
	Conflict string `json:"conflict"`
	Priority string `json:"priority"`
	Deletion string `json:"deletion"`
}

// HandlePull handles POST /api/v1/pull.
//
// A well-formed request always answers 200 with the pull result; failed
// steps are reported in syncCompleted and syncErr. Unknown policy names fall
// back to their defaults.
func (h *Handlers) HandlePull(w http.ResponseWriter, r *http.Request) {
	var body pullBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON body", err.Error())
		return
	}

	var opts []wordblox.PullOption
	if body.Policy != nil {
		p := sync.PolicyFromStrings(h.policy, body.Policy.Conflict, body.Policy.Priority, body.Policy.Deletion)
		opts = append(opts, wordblox.WithPolicy(p))
	}

	result := h.puller.Pull(r.Context(), wordblox.PullRequest{
		Domain:   body.Domain,
		Username: body.Username,
		Password: body.Password,
	}, opts...)

	response.Raw(w, http.StatusOK, result)
}
