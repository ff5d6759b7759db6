package wordblox

import (
	"context"
	"sync"

	"github.com/agentstation/wordblox/pkg/wordtag"
)

// Hook function types for pull events
type (
	// PullCompletedHook is called after every pull, successful or not
	PullCompletedHook func(result *PullResult)

	// WordHook is called when a pull creates or deletes a word
	WordHook func(domain string, entry wordtag.Entry)

	// WordUpdatedHook is called when a pull changes the details of a word
	WordUpdatedHook func(domain string, entry wordtag.Entry, oldDetails string)
)

// hooks manages event callbacks for pull changes.
// It implements reconciler.Observer so the engine reports mutations directly.
type hooks struct {
	mu              sync.RWMutex
	onPullCompleted []PullCompletedHook
	onWordCreated   []WordHook
	onWordUpdated   []WordUpdatedHook
	onWordDeleted   []WordHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnPullCompleted registers a callback invoked after every pull
func (w *wordblox) OnPullCompleted(fn PullCompletedHook) {
	w.hooks.mu.Lock()
	defer w.hooks.mu.Unlock()
	w.hooks.onPullCompleted = append(w.hooks.onPullCompleted, fn)
}

// OnWordCreated registers a callback for created words
func (w *wordblox) OnWordCreated(fn WordHook) {
	w.hooks.mu.Lock()
	defer w.hooks.mu.Unlock()
	w.hooks.onWordCreated = append(w.hooks.onWordCreated, fn)
}

// OnWordUpdated registers a callback for updated words
func (w *wordblox) OnWordUpdated(fn WordUpdatedHook) {
	w.hooks.mu.Lock()
	defer w.hooks.mu.Unlock()
	w.hooks.onWordUpdated = append(w.hooks.onWordUpdated, fn)
}

// OnWordDeleted registers a callback for deleted words
func (w *wordblox) OnWordDeleted(fn WordHook) {
	w.hooks.mu.Lock()
	defer w.hooks.mu.Unlock()
	w.hooks.onWordDeleted = append(w.hooks.onWordDeleted, fn)
}

// WordCreated implements reconciler.Observer
func (h *hooks) WordCreated(_ context.Context, domain string, entry wordtag.Entry) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onWordCreated {
		hook(domain, entry)
	}
}

// WordUpdated implements reconciler.Observer
func (h *hooks) WordUpdated(_ context.Context, domain string, entry wordtag.Entry, oldDetails string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onWordUpdated {
		hook(domain, entry, oldDetails)
	}
}

// WordDeleted implements reconciler.Observer
func (h *hooks) WordDeleted(_ context.Context, domain string, entry wordtag.Entry) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onWordDeleted {
		hook(domain, entry)
	}
}

// triggerPullCompleted notifies pull completion hooks
func (h *hooks) triggerPullCompleted(result *PullResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onPullCompleted {
		hook(result)
	}
}
