package reconciler

import (
	"github.com/agentstation/wordblox/pkg/errors"
)

type options struct {
	observers []Observer
}

// Option is a function that configures an Engine.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithObserver registers an observer notified after each word mutation.
func WithObserver(o Observer) Option {
	return func(opts *options) error {
		if o == nil {
			return &errors.ValidationError{
				Field:   "observer",
				Message: "cannot be nil",
			}
		}
		opts.observers = append(opts.observers, o)
		return nil
	}
}
