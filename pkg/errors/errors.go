// Package errors provides custom error types for the whichllm system.
// These errors enable programmatic error checking across the fetch, match
// and fusion stages while keeping the underlying cause available through
// errors.Unwrap.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the whichllm system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrAPIKeyInvalid indicates that the provided API key is invalid
	ErrAPIKeyInvalid = errors.New("API key invalid")

	// ErrProviderUnavailable indicates that an upstream is temporarily unavailable
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrFetchFailed indicates a network or transport failure while fetching a source
	ErrFetchFailed = errors.New("fetch failed")

	// ErrSchema indicates a record lacked a mandatory identity field
	ErrSchema = errors.New("schema violation")

	// ErrAmbiguous indicates duplicate or equally plausible match candidates
	ErrAmbiguous = errors.New("ambiguous match")

	// ErrCacheCorrupt indicates a persisted artifact could not be parsed or verified
	ErrCacheCorrupt = errors.New("cache corrupt")

	// ErrFusionWrite indicates the merged store could not be replaced
	ErrFusionWrite = errors.New("fusion write failed")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
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

// APIError represents an error response from an upstream API
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return target == ErrAPIKeyInvalid
	case e.StatusCode == 429:
		return target == ErrRateLimited
	case e.StatusCode >= 500:
		return target == ErrProviderUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(provider string, statusCode int, message string) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
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

// FetchError represents a network or transport failure for one source.
// It is recovered by falling back to the latest valid snapshot.
type FetchError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch from %s failed: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// NewFetchError creates a new FetchError
func NewFetchError(source string, err error) *FetchError {
	return &FetchError{Source: source, Err: err}
}

// SchemaError reports a record that is missing a mandatory identity field.
// The record is dropped; the rest of the batch is kept.
type SchemaError struct {
	Source string
	Index  int
	Field  string
	ID     string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s record %d (%s): missing %s", e.Source, e.Index, e.ID, e.Field)
	}
	return fmt.Sprintf("%s record %d: missing %s", e.Source, e.Index, e.Field)
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NewSchemaError creates a new SchemaError
func NewSchemaError(source string, index int, field, id string) *SchemaError {
	return &SchemaError{Source: source, Index: index, Field: field, ID: id}
}

// AmbiguityError records duplicate composite keys within one source, or
// several equally plausible fuzzy candidates. It is diagnostic only.
type AmbiguityError struct {
	Source string
	Key    string
	Count  int
}

// Error implements the error interface
func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s: %d candidates for key %s", e.Source, e.Count, e.Key)
}

// Is implements errors.Is support
func (e *AmbiguityError) Is(target error) bool {
	return target == ErrAmbiguous
}

// CorruptionError reports a persisted artifact that failed to parse or verify.
// Callers treat it as if no snapshot existed.
type CorruptionError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corrupt cache artifact %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CorruptionError) Is(target error) bool {
	return target == ErrCacheCorrupt
}

// NewCorruptionError creates a new CorruptionError
func NewCorruptionError(path string, err error) *CorruptionError {
	return &CorruptionError{Path: path, Err: err}
}

// FusionWriteError reports a failed atomic replace of the merged store.
// The previous merged store is left intact.
type FusionWriteError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *FusionWriteError) Error() string {
	return fmt.Sprintf("writing merged store %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FusionWriteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FusionWriteError) Is(target error) bool {
	return target == ErrFusionWrite
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAPIKeyError checks if an error is related to API keys
func IsAPIKeyError(err error) bool {
	return errors.Is(err, ErrAPIKeyRequired) || errors.Is(err, ErrAPIKeyInvalid)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsProviderUnavailable checks if an error indicates upstream unavailability
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// IsFetchError checks if an error is a recoverable fetch failure
func IsFetchError(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// IsSchemaError checks if an error is a dropped-record schema violation
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsCorrupt checks if an error reports a corrupt cache artifact
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCacheCorrupt)
}

// IsFusionWrite checks if an error reports a failed merged store write
func IsFusionWrite(err error) bool {
	return errors.Is(err, ErrFusionWrite)
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "parquet", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "remove"
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

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "load", "save", "fetch"
	Resource  string // "snapshot", "merged store", "request"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Message: err.Error(), Err: err}
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Message: err.Error(), Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// WrapFetch wraps an error as a FetchError unless it already is one
func WrapFetch(source string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return NewFetchError(source, err)
}
