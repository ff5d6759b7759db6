// Package sync defines the reconciliation policy applied when a domain's
// cached words are synced against the external service, and the result
// counters a sync reports.
package sync

import "github.com/agentstation/wordblox/pkg/wordtag"

// Option is a function that configures a Policy.
type Option func(*Policy)

// Apply applies the given options to the policy.
func (p *Policy) Apply(opts ...Option) *Policy {
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewPolicy returns the default policy with opts applied.
func NewPolicy(opts ...Option) Policy {
	p := DefaultPolicy()
	return *p.Apply(opts...)
}

// WithConflictMethod configures how shared keys are resolved.
func WithConflictMethod(m wordtag.ConflictMethod) Option {
	return func(p *Policy) {
		p.ConflictMethod = m
	}
}

// WithSourcePriority configures which side is authoritative.
func WithSourcePriority(sp SourcePriority) Option {
	return func(p *Policy) {
		p.SourcePriority = sp
	}
}

// WithDeletionControl configures whether missing entries are deleted.
func WithDeletionControl(dc DeletionControl) Option {
	return func(p *Policy) {
		p.DeletionControl = dc
	}
}
