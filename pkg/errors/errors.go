// Package errors provides custom error types for the wordblox system.
// These errors enable programmatic error checking at every boundary of a
// pull: input validation, the external service, and the local store.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are the standard library helpers, re-exported so callers need a single errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the wordblox system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotAuthenticated indicates an operation that needs an authenticated session
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrExternalService indicates a failure reported by the external service
	ErrExternalService = errors.New("external service error")

	// ErrPersistence indicates a failure of the local store
	ErrPersistence = errors.New("persistence error")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// DomainError is returned when a domain is missing or unusable.
type DomainError struct {
	Domain  string
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Domain == "" {
		return fmt.Sprintf("domain error: %s", e.Message)
	}
	return fmt.Sprintf("domain error for %q: %s", e.Domain, e.Message)
}

// Is implements errors.Is support
func (e *DomainError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewDomainError creates a new DomainError
func NewDomainError(domain, message string) *DomainError {
	return &DomainError{Domain: domain, Message: message}
}

// InvalidDomainError is returned by the fetch client for an unusable domain.
type InvalidDomainError struct {
	Domain string
}

// Error implements the error interface
func (e *InvalidDomainError) Error() string {
	return fmt.Sprintf("invalid domain %q", e.Domain)
}

// Is implements errors.Is support
func (e *InvalidDomainError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidCredentialsError is returned when a username or password is missing.
type InvalidCredentialsError struct {
	Field string // "username" or "password"
}

// Error implements the error interface
func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials: %s must be a non-empty string", e.Field)
}

// Is implements errors.Is support
func (e *InvalidCredentialsError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidKeyError is returned when a tag or word cannot form a composite key.
type InvalidKeyError struct {
	Tag    string
	Word   string
	Reason string
}

// Error implements the error interface
func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key (tag %q, word %q): %s", e.Tag, e.Word, e.Reason)
}

// Is implements errors.Is support
func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ExternalServiceError represents a failed exchange with the external service.
// StatusCode is zero when no response was received.
type ExternalServiceError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *ExternalServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("external service error (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("external service error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("external service error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ExternalServiceError) Is(target error) bool {
	return target == ErrExternalService
}

// NewExternalServiceError creates a new ExternalServiceError
func NewExternalServiceError(statusCode int, endpoint, message string) *ExternalServiceError {
	return &ExternalServiceError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// SyncError represents an unresolvable reference while applying a sync.
type SyncError struct {
	Domain string
	Keys   []string
	Err    error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if len(e.Keys) > 0 {
		return fmt.Sprintf("sync error for domain %s (affected keys: %v): %v", e.Domain, e.Keys, e.Err)
	}
	return fmt.Sprintf("sync error for domain %s: %v", e.Domain, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError
func NewSyncError(domain string, keys []string, err error) *SyncError {
	return &SyncError{
		Domain: domain,
		Keys:   keys,
		Err:    err,
	}
}

// PersistenceError wraps a failure of the local store.
type PersistenceError struct {
	Operation string // "find", "create", "update", "delete", "list"
	Resource  string // "domain", "tag", "word"
	ID        string
	Err       error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %v", e.Operation, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Resource, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// NewPersistenceError creates a new PersistenceError
func NewPersistenceError(operation, resource, id string, err error) *PersistenceError {
	return &PersistenceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Err:       err,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is any kind of input validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsExternalService checks if an error came from the external service
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService)
}

// IsAuthentication checks if an error stems from a missing or rejected session
func IsAuthentication(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) {
		return true
	}
	var creds *InvalidCredentialsError
	return errors.As(err, &creds)
}

// IsPersistence checks if an error came from the local store
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// StatusCode returns the external service status carried by err, or zero.
func StatusCode(err error) int {
	var ext *ExternalServiceError
	if errors.As(err, &ext) {
		return ext.StatusCode
	}
	return 0
}

// Helper wrapping functions for common patterns

// WrapPersistence wraps an error as a PersistenceError
func WrapPersistence(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewPersistenceError(operation, resource, id, err)
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
