package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/wordblox/pkg/constants"
	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/logging"
)

// State is the lifecycle state of a Client session.
type State int

const (
	// StateUnauthenticated is the initial state, and the state after Close.
	StateUnauthenticated State = iota
	// StateAuthenticating is held while the login handshake runs.
	StateAuthenticating
	// StateAuthenticated permits GetData.
	StateAuthenticated
	// StateFailed follows a rejected or broken login.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Auth logs into the external service.
//
// It fetches the login page to obtain the anti-forgery cookie, then posts the
// credentials together with that token. A 200 or 302 answer authenticates
// the session; any other status fails it with an *errors.ExternalServiceError.
func (c *Client) Auth(ctx context.Context, username, password string) error {
	if username == "" {
		return &errors.InvalidCredentialsError{Field: "username"}
	}
	if password == "" {
		return &errors.InvalidCredentialsError{Field: "password"}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.ErrNotAuthenticated
	}
	c.state = StateAuthenticating
	c.mu.Unlock()

	logger := logging.FromContext(ctx)
	login := c.loginURL.String()

	// Step 1: Fetch the login page for the session token
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, login, nil)
	if err != nil {
		c.setState(StateFailed)
		return &errors.ExternalServiceError{Endpoint: login, Message: "failed to build login request", Err: err}
	}
	c.setCommonHeaders(req)
	resp, err := c.http.Do(req)
	if err != nil {
		c.setState(StateFailed)
		return &errors.ExternalServiceError{Endpoint: login, Message: "login page request failed", Err: err}
	}
	drain(resp)

	// Step 2: Post credentials with the token
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	token := c.csrfToken(c.loginURL)
	if token != "" {
		form.Set(constants.CSRFFormField, token)
	} else {
		logger.Debug().Str("endpoint", login).Msg("Login page set no anti-forgery cookie")
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodPost, login, strings.NewReader(form.Encode()))
	if err != nil {
		c.setState(StateFailed)
		return &errors.ExternalServiceError{Endpoint: login, Message: "failed to build login request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Referer", login)
	}
	c.setCommonHeaders(req)

	resp, err = c.http.Do(req)
	if err != nil {
		c.setState(StateFailed)
		return &errors.ExternalServiceError{Endpoint: login, Message: "login request failed", Err: err}
	}
	drain(resp)

	// Step 3: Check the outcome
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusFound {
		c.setState(StateFailed)
		logger.Warn().Int("status", resp.StatusCode).Msg("Login rejected by external service")
		return errors.NewExternalServiceError(resp.StatusCode, login, "login failed")
	}

	c.setState(StateAuthenticated)
	logger.Debug().Int("status", resp.StatusCode).Msg("Authenticated with external service")
	return nil
}

// drain discards and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, constants.MaxResponseBytes))
	_ = resp.Body.Close()
}
