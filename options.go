package wordblox

import (
	"net/http"
	"time"

	"github.com/agentstation/wordblox/internal/transport"
	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/sync"
)

// config holds the settings of a Wordblox instance
type config struct {
	transport   transport.Config
	policy      sync.Policy
	pullTimeout time.Duration
	newFetcher  FetcherFactory
}

func defaultConfig() *config {
	return &config{
		transport: transport.DefaultConfig(),
		policy:    sync.DefaultPolicy(),
	}
}

// Option is a function that configures a Wordblox instance
type Option func(*config) error

// WithServiceURLs configures the login and data endpoints of the external service
func WithServiceURLs(loginURL, dataURL string) Option {
	return func(c *config) error {
		if loginURL == "" || dataURL == "" {
			return &errors.ValidationError{Field: "service_urls", Message: "login and data URLs are required"}
		}
		c.transport.LoginURL = loginURL
		c.transport.DataURL = dataURL
		return nil
	}
}

// WithHTTPTimeout configures the timeout of each request to the external service
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return &errors.ValidationError{Field: "http_timeout", Value: timeout, Message: "must be positive"}
		}
		c.transport.Timeout = timeout
		return nil
	}
}

// WithHTTPTransport configures the round tripper used to reach the external service
func WithHTTPTransport(rt http.RoundTripper) Option {
	return func(c *config) error {
		c.transport.Transport = rt
		return nil
	}
}

// WithUserAgent configures the User-Agent sent to the external service
func WithUserAgent(agent string) Option {
	return func(c *config) error {
		c.transport.UserAgent = agent
		return nil
	}
}

// WithDefaultPolicy configures the policy used by pulls that do not pass WithPolicy.
// Unrecognized settings are rejected.
func WithDefaultPolicy(p sync.Policy) Option {
	return func(c *config) error {
		if err := p.Validate(); err != nil {
			return err
		}
		c.policy = p
		return nil
	}
}

// WithPullTimeout bounds each pull as a whole. Zero disables the bound.
func WithPullTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout < 0 {
			return &errors.ValidationError{Field: "pull_timeout", Value: timeout, Message: "must not be negative"}
		}
		c.pullTimeout = timeout
		return nil
	}
}

// WithFetcherFactory replaces the session client used by pulls
func WithFetcherFactory(fn FetcherFactory) Option {
	return func(c *config) error {
		if fn == nil {
			return &errors.ValidationError{Field: "fetcher_factory", Message: "cannot be nil"}
		}
		c.newFetcher = fn
		return nil
	}
}

// pullOptions holds per-call settings of a pull
type pullOptions struct {
	policy *sync.Policy
}

// PullOption configures a single pull
type PullOption func(*pullOptions)

// WithPolicy overrides the instance's default policy for one pull.
// Unrecognized settings are replaced by their defaults.
func WithPolicy(p sync.Policy) PullOption {
	return func(o *pullOptions) {
		sanitized := p.Sanitize()
		o.policy = &sanitized
	}
}
