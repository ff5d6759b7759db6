// Package reconciler applies the diff between the external and cached word
// collections of one domain to a persistent store, according to a sync.Policy.
package reconciler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/logging"
	"github.com/agentstation/wordblox/pkg/storage"
	"github.com/agentstation/wordblox/pkg/sync"
	"github.com/agentstation/wordblox/pkg/wordtag"
)

// Engine reconciles collections into a Store. It holds no per-sync state and
// may be shared, though concurrent syncs of one domain are not coordinated.
type Engine struct {
	store     Store
	observers []Observer
}

// New creates an Engine writing to store.
func New(store Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, &errors.ValidationError{Field: "store", Message: "cannot be nil"}
	}
	o, err := (&options{}).apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{store: store, observers: o.observers}, nil
}

// syncContext holds the state of a single Sync call.
type syncContext struct {
	domain string
	policy sync.Policy
	result *sync.Result
	logger *zerolog.Logger
}

// Sync applies the difference between external and cached to the store for domain.
//
// With PriorityExternal the diff is cached.Diff(external), so the external side
// wins shared keys under Override and only-cached entries are deletion
// candidates. With PriorityCached the diff is external.Diff(cached).
//
// Mutations are applied one at a time in sorted key order. The first store
// failure stops the sync and is returned; mutations already applied are kept.
// The returned Result reflects what was applied, even on error.
func (e *Engine) Sync(ctx context.Context, external, cached *wordtag.Collection, domain string, policy sync.Policy) (*sync.Result, error) {
	// Step 1: Validate inputs
	if domain == "" {
		return nil, errors.NewDomainError(domain, "domain is required")
	}
	if external == nil || cached == nil {
		return nil, &errors.ValidationError{Field: "collections", Message: "external and cached collections are required"}
	}

	policy = policy.Sanitize()
	sctx := &syncContext{
		domain: domain,
		policy: policy,
		result: &sync.Result{Domain: domain, Policy: policy},
		logger: logging.FromContext(logging.WithDomain(ctx, domain)),
	}

	// Step 2: Orient the diff by source priority
	var diff wordtag.Diff
	if policy.SourcePriority == sync.PriorityCached {
		diff = external.Diff(cached, policy.ConflictMethod)
	} else {
		diff = cached.Diff(external, policy.ConflictMethod)
	}

	sctx.logger.Debug().
		Str("policy", policy.String()).
		Int("only_in_self", diff.OnlyInSelf.Len()).
		Int("only_in_other", diff.OnlyInOther.Len()).
		Int("both", diff.Both.Len()).
		Msg("Computed diff")

	// Step 3: Remove entries the external service no longer has
	if policy.DeletesMissing() {
		for _, entry := range diff.OnlyInSelf.Entries() {
			if err := e.remove(ctx, sctx, entry); err != nil {
				return sctx.result, err
			}
		}
	}

	// Step 4: Insert entries unique to the other side
	for _, entry := range diff.OnlyInOther.Entries() {
		if err := e.upsert(ctx, sctx, entry); err != nil {
			return sctx.result, err
		}
	}

	// Step 5: Upsert shared entries with their resolved details
	for _, entry := range diff.Both.Entries() {
		if err := e.upsert(ctx, sctx, entry); err != nil {
			return sctx.result, err
		}
	}

	sctx.logger.Info().
		Int("tags_created", sctx.result.TagsCreated).
		Int("words_created", sctx.result.WordsCreated).
		Int("words_updated", sctx.result.WordsUpdated).
		Int("words_deleted", sctx.result.WordsDeleted).
		Int("unchanged", sctx.result.Unchanged).
		Msg("Sync applied")

	return sctx.result, nil
}

// remove deletes the word row for entry if it exists.
func (e *Engine) remove(ctx context.Context, sctx *syncContext, entry wordtag.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tag, err := e.store.FindTagByDomainAndText(ctx, sctx.domain, entry.Tag)
	if errors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return persistence("find", "tag", entry.Tag, err)
	}

	word, err := e.store.FindWordByTagAndText(ctx, tag, entry.Word)
	if errors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return persistence("find", "word", entry.Key(), err)
	}

	if err := e.store.DeleteWord(ctx, word); err != nil {
		return persistence("delete", "word", entry.Key(), err)
	}

	sctx.result.WordsDeleted++
	for _, o := range e.observers {
		o.WordDeleted(ctx, sctx.domain, wordtag.Entry{Tag: entry.Tag, Word: entry.Word, Details: word.Details})
	}
	return nil
}

// upsert makes the store hold entry.Details for entry's tag and word.
func (e *Engine) upsert(ctx context.Context, sctx *syncContext, entry wordtag.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tag, err := e.store.FindTagByDomainAndText(ctx, sctx.domain, entry.Tag)
	switch {
	case errors.IsNotFound(err):
		tag, err = e.store.CreateTag(ctx, sctx.domain, entry.Tag)
		if errors.IsNotFound(err) {
			return errors.NewSyncError(sctx.domain, []string{entry.Key()},
				errors.NewDomainError(sctx.domain, "domain row not found"))
		}
		if err != nil {
			return persistence("create", "tag", entry.Tag, err)
		}
		sctx.result.TagsCreated++
		sctx.logger.Debug().Str("tag", entry.Tag).Msg("Created tag")
		return e.create(ctx, sctx, tag, entry)
	case err != nil:
		return persistence("find", "tag", entry.Tag, err)
	}

	word, err := e.store.FindWordByTagAndText(ctx, tag, entry.Word)
	switch {
	case errors.IsNotFound(err):
		return e.create(ctx, sctx, tag, entry)
	case err != nil:
		return persistence("find", "word", entry.Key(), err)
	}

	if word.Details == entry.Details {
		sctx.result.Unchanged++
		return nil
	}

	old := word.Details
	if err := e.store.UpdateWordDetails(ctx, word, entry.Details); err != nil {
		return persistence("update", "word", entry.Key(), err)
	}
	sctx.result.WordsUpdated++
	for _, o := range e.observers {
		o.WordUpdated(ctx, sctx.domain, entry, old)
	}
	return nil
}

func (e *Engine) create(ctx context.Context, sctx *syncContext, tag *storage.Tag, entry wordtag.Entry) error {
	if _, err := e.store.CreateWord(ctx, tag, entry.Word, entry.Details); err != nil {
		return persistence("create", "word", entry.Key(), err)
	}
	sctx.result.WordsCreated++
	for _, o := range e.observers {
		o.WordCreated(ctx, sctx.domain, entry)
	}
	return nil
}

// persistence wraps a store failure unless it already carries persistence context.
func persistence(op, resource, id string, err error) error {
	if errors.IsPersistence(err) {
		return fmt.Errorf("%s %s %s: %w", op, resource, id, err)
	}
	return errors.NewPersistenceError(op, resource, id, err)
}
