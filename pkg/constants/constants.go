// Package constants provides shared constants used throughout the wordblox codebase.
// This includes timeouts, limits, file permissions, and the external service defaults.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the external service
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// PullTimeout bounds a whole pull: login, fetch and reconcile
	PullTimeout = 5 * time.Minute

	// StoreBusyTimeout is how long sqlite waits on a locked database
	StoreBusyTimeout = 5 * time.Second
)

// External service defaults
const (
	// DefaultLoginURL is the login page of the external word service
	DefaultLoginURL = "https://spellinblox.com/accounts/login/"

	// DefaultDataURL is the data endpoint of the external word service
	DefaultDataURL = "https://spellinblox.com/api/load/"

	// CSRFCookieName is the cookie carrying the anti-forgery token
	CSRFCookieName = "csrftoken"

	// CSRFFormField is the login form field echoing the anti-forgery token
	CSRFFormField = "csrfmiddlewaretoken"

	// CSRFHeader is the request header echoing the anti-forgery token
	CSRFHeader = "X-CSRFToken"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxResponseBytes caps the body read from the external service (32 MB)
	MaxResponseBytes = 32 << 20

	// MaxTagLength is the maximum allowed length for tag text
	MaxTagLength = 75

	// MaxWordLength is the maximum allowed length for word text
	MaxWordLength = 75

	// DefaultPageSize is the default number of items per page for list endpoints
	DefaultPageSize = 100

	// MaxPageSize is the maximum allowed page size for list endpoints
	MaxPageSize = 1000
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached reads
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute
)
