package wordblox

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/agentstation/wordblox/pkg/constants"
	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/logging"
	"github.com/agentstation/wordblox/pkg/sync"
	"github.com/agentstation/wordblox/pkg/wordtag"
)

// PullRequest carries the caller's target domain and external credentials.
type PullRequest struct {
	Domain   string `json:"domain"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// PullResult reports the outcome of one pull.
type PullResult struct {
	// Synced is true when every step completed.
	Synced bool `json:"syncCompleted"`
	// Error describes the failing step; empty when Synced.
	Error string `json:"syncErr"`

	PullID   string       `json:"pull_id"`
	Domain   string       `json:"domain"`
	Stats    *sync.Result `json:"stats,omitempty"`
	Skipped  int          `json:"skipped"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
}

// Duration returns how long the pull ran.
func (r *PullResult) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Pull authenticates with the external service, fetches the domain's records,
// loads the cached records and reconciles the two into the store.
//
// Authentication failures stop the pull before any fetch or store access.
// Records that cannot be decoded or keyed are skipped and logged. The session
// is closed on every exit path.
func (w *wordblox) Pull(ctx context.Context, req PullRequest, opts ...PullOption) (result *PullResult) {
	po := &pullOptions{}
	for _, opt := range opts {
		opt(po)
	}
	policy := w.config.policy
	if po.policy != nil {
		policy = *po.policy
	}

	result = &PullResult{
		PullID:  uuid.NewString(),
		Domain:  req.Domain,
		Started: time.Now(),
	}

	ctx = logging.WithPullID(logging.WithDomain(ctx, req.Domain), result.PullID)
	logger := logging.FromContext(ctx)

	if w.config.pullTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.config.pullTimeout)
		defer cancel()
	}

	defer func() {
		result.Finished = time.Now()
		logger.Info().
			Bool("synced", result.Synced).
			Int("skipped", result.Skipped).
			Dur("duration", result.Duration()).
			Msg("Pull finished")
		w.hooks.triggerPullCompleted(result)
	}()

	fail := func(format string, err error) *PullResult {
		result.Error = fmt.Sprintf(format, err)
		logger.Error().Err(err).Msg("Pull failed")
		return result
	}

	// Step 1: Open a session and authenticate
	factory := w.config.newFetcher
	if factory == nil {
		factory = newSessionFetcher(w.config.transport)
	}
	fetcher, err := factory()
	if err != nil {
		return fail("Session Error: %v", err)
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close session")
		}
	}()

	if err := fetcher.Auth(ctx, req.Username, req.Password); err != nil {
		return fail("Authentication Error: %v", err)
	}

	// Step 2: Fetch the external records
	records, rejected, err := fetcher.Fetch(ctx, req.Domain)
	if err != nil {
		return fail("Fetch Error: %v", err)
	}
	for _, rerr := range rejected {
		logger.Warn().Err(rerr).Msg("Skipping malformed external record")
	}
	result.Skipped = len(rejected)

	external := wordtag.New()
	for _, rec := range records {
		if err := checkLengths(rec); err != nil {
			logger.Warn().Err(err).Msg("Skipping external record that exceeds store limits")
			result.Skipped++
			continue
		}
		if err := external.Add(rec.Tag, rec.Word, rec.Details); err != nil {
			logger.Warn().Err(err).Msg("Skipping external record with invalid key")
			result.Skipped++
		}
	}

	// Step 3: Load the cached records
	rows, err := w.store.ListWordsByDomain(ctx, req.Domain)
	if err != nil {
		return fail("Cache Error: %v", err)
	}
	cached := wordtag.New()
	for _, row := range rows {
		if err := cached.Add(row.Tag, row.Word, row.Details); err != nil {
			logger.Warn().Err(err).Msg("Skipping cached row with invalid key")
		}
	}

	logger.Debug().
		Int("external", external.Len()).
		Int("cached", cached.Len()).
		Str("policy", policy.String()).
		Msg("Reconciling")

	// Step 4: Reconcile
	stats, err := w.engine.Sync(ctx, external, cached, req.Domain, policy)
	result.Stats = stats
	if err != nil {
		result.Error = err.Error()
		logger.Error().Err(err).Msg("Pull failed")
		return result
	}

	result.Synced = true
	return result
}

// checkLengths rejects records the store cannot hold.
func checkLengths(rec wordtag.Entry) error {
	if n := utf8.RuneCountInString(rec.Tag); n > constants.MaxTagLength {
		return &errors.InvalidKeyError{Tag: rec.Tag, Word: rec.Word,
			Reason: fmt.Sprintf("tag must be at most %d characters, got %d", constants.MaxTagLength, n)}
	}
	if n := utf8.RuneCountInString(rec.Word); n > constants.MaxWordLength {
		return &errors.InvalidKeyError{Tag: rec.Tag, Word: rec.Word,
			Reason: fmt.Sprintf("word must be at most %d characters, got %d", constants.MaxWordLength, n)}
	}
	return nil
}
