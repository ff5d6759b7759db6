// Package wordblox keeps a local, domain-scoped copy of the tag/word/details
// records owned by the external SpellinBlox service.
//
// A pull logs into the external service on the caller's behalf, fetches the
// domain's records, compares them with the local store and applies a
// reconciliation policy:
//
//	store, _ := sqlite.Open("wordblox.db")
//	wb, _ := wordblox.New(store)
//	res := wb.Pull(ctx, wordblox.PullRequest{Domain: "example.com", Username: "u", Password: "p"})
//	if !res.Synced {
//		log.Println(res.Error)
//	}
package wordblox

import (
	"context"
	"fmt"

	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/reconciler"
)

// Wordblox pulls external records into a local store and reports changes through hooks.
type Wordblox interface {
	// Pull runs one authenticate, fetch and reconcile cycle for a domain.
	// It never returns an error; failures are reported in the result.
	Pull(ctx context.Context, req PullRequest, opts ...PullOption) *PullResult

	// OnPullCompleted registers a callback invoked after every pull
	OnPullCompleted(PullCompletedHook)

	// OnWordCreated registers a callback for words created by a pull
	OnWordCreated(WordHook)

	// OnWordUpdated registers a callback for words whose details a pull changed
	OnWordUpdated(WordUpdatedHook)

	// OnWordDeleted registers a callback for words a pull removed
	OnWordDeleted(WordHook)
}

// wordblox is the internal implementation of the Wordblox interface
type wordblox struct {
	config *config
	store  reconciler.Store
	engine *reconciler.Engine
	hooks  *hooks
}

// New creates a Wordblox instance that reconciles into store.
func New(store reconciler.Store, opts ...Option) (Wordblox, error) {
	if store == nil {
		return nil, &errors.ValidationError{Field: "store", Message: "cannot be nil"}
	}

	wb := &wordblox{
		config: defaultConfig(),
		store:  store,
		hooks:  newHooks(),
	}

	if err := wb.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	engine, err := reconciler.New(store, reconciler.WithObserver(wb.hooks))
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	wb.engine = engine

	return wb, nil
}

// options applies the given options to the instance
func (w *wordblox) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(w.config); err != nil {
			return err
		}
	}
	return nil
}
