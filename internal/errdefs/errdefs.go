// Package errdefs defines the error types shared by every layer of the
// adapter. Each type carries enough context for the calling agent to correct
// its input without a second round trip: not-found errors list the names that
// do exist, unsupported errors list the supported keys, validation errors list
// the offending fields.
//
// Errors propagate unchanged to the tool dispatch boundary, where transports
// turn them into a failed tool result (MCP) or a status code (HTTP).
package errdefs

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError reports a missing or invalid startup setting.
type ConfigurationError struct {
	Key     string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Message)
}

// Configuration creates a ConfigurationError.
func Configuration(key, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Key: key, Message: fmt.Sprintf(format, args...)}
}

// BackendError is a non-success HTTP status returned by the backend.
// Body holds the raw response text.
type BackendError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error: %s %s: %d - %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// NotFoundError reports a failed name lookup together with the names that
// were available at lookup time.
type NotFoundError struct {
	Kind      string
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found, available: [%s]", e.Kind, e.Name, strings.Join(e.Available, ", "))
}

// NotFound creates a NotFoundError.
func NotFound(kind, name string, available []string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name, Available: available}
}

// FieldError describes one invalid argument.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationError reports tool arguments that failed schema validation.
type ValidationError struct {
	Tool   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(parts, "; "))
}

// FieldNames returns the names of the offending fields in order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// UnsupportedError reports a middleware kind, log type or metric group that is
// not registered in one of the static catalogs.
type UnsupportedError struct {
	Kind      string
	Value     string
	Supported []string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s %q not supported, supported: [%s]", e.Kind, e.Value, strings.Join(e.Supported, ", "))
}

// Unsupported creates an UnsupportedError.
func Unsupported(kind, value string, supported []string) *UnsupportedError {
	return &UnsupportedError{Kind: kind, Value: value, Supported: supported}
}

// UnknownToolError is returned when a caller invokes a tool that is not
// registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool name: %s", e.Name)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsUnsupported(err error) bool {
	var target *UnsupportedError
	return errors.As(err, &target)
}

func IsBackend(err error) bool {
	var target *BackendError
	return errors.As(err, &target)
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsUnknownTool(err error) bool {
	var target *UnknownToolError
	return errors.As(err, &target)
}
