// Package transport implements the session client for the external word
// service: a login handshake guarded by an anti-forgery token, followed by
// domain-scoped data fetches on the same cookie session.
package transport

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/agentstation/wordblox/pkg/constants"
	"github.com/agentstation/wordblox/pkg/errors"
)

// Config configures a Client.
type Config struct {
	// LoginURL is the login page; it is fetched for the token and then posted to.
	LoginURL string `mapstructure:"login_url"`

	// DataURL receives the domain-scoped data request.
	DataURL string `mapstructure:"data_url"`

	// Timeout bounds each HTTP exchange.
	Timeout time.Duration `mapstructure:"timeout"`

	// UserAgent is sent on every request when set.
	UserAgent string `mapstructure:"user_agent"`

	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper `mapstructure:"-"`
}

// DefaultConfig returns the configuration for the public service.
func DefaultConfig() Config {
	return Config{
		LoginURL: constants.DefaultLoginURL,
		DataURL:  constants.DefaultDataURL,
		Timeout:  constants.DefaultHTTPTimeout,
	}
}

// Client is a stateful session against the external service.
// A Client is meant for a single pull and must be closed afterwards.
type Client struct {
	http     *http.Client
	loginURL *url.URL
	dataURL  *url.URL
	agent    string

	mu     sync.Mutex
	state  State
	closed bool
}

// New creates a Client with a private cookie session.
// Empty fields of cfg take their DefaultConfig values.
func New(cfg Config) (*Client, error) {
	def := DefaultConfig()
	if cfg.LoginURL == "" {
		cfg.LoginURL = def.LoginURL
	}
	if cfg.DataURL == "" {
		cfg.DataURL = def.DataURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	loginURL, err := parseURL("login_url", cfg.LoginURL)
	if err != nil {
		return nil, err
	}
	dataURL, err := parseURL("data_url", cfg.DataURL)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.NewConfigError("transport", "failed to create cookie jar", err)
	}

	return &Client{
		http: &http.Client{
			Jar:       jar,
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
			// A successful login answers with a redirect; observe it instead of following.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		loginURL: loginURL,
		dataURL:  dataURL,
		agent:    cfg.UserAgent,
		state:    StateUnauthenticated,
	}, nil
}

// State reports the current session state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close releases the session. Further calls fail with errors.ErrNotAuthenticated.
// Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.state = StateUnauthenticated
	c.http.Jar = nil
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// csrfToken returns the anti-forgery token the service last set for u.
func (c *Client) csrfToken(u *url.URL) string {
	jar := c.http.Jar
	if jar == nil {
		return ""
	}
	for _, cookie := range jar.Cookies(u) {
		if cookie.Name == constants.CSRFCookieName {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) setCommonHeaders(req *http.Request) {
	if c.agent != "" {
		req.Header.Set("User-Agent", c.agent)
	}
}

func parseURL(field, raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.NewConfigError("transport", field+" is not a valid URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, errors.NewConfigError("transport", field+" must be an absolute http(s) URL", nil)
	}
	return u, nil
}
