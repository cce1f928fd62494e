// Package errors defines the typed errors shared by the catalog, card and
// server packages.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeAsset      ErrorType = "asset"
	ErrorTypeInternal   ErrorType = "internal"
)

// CardError is a structured error type with context.
type CardError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Context  map[string]interface{}
	Project  string
	FilePath string
}

// Error implements the error interface.
func (e *CardError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Project != "" {
		parts = append(parts, "project:"+e.Project)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *CardError) Unwrap() error {
	return e.Cause
}

// Is matches on Type and Code.
func (e *CardError) Is(target error) bool {
	var t *CardError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *CardError) WithContext(key string, value interface{}) *CardError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile records the file the error relates to.
func (e *CardError) WithFile(filePath string) *CardError {
	e.FilePath = filePath

	return e
}

// WithProject records the project card the error relates to.
func (e *CardError) WithProject(name string) *CardError {
	e.Project = name

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *CardError {
	return &CardError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *CardError {
	return &CardError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewNetworkError creates a network error.
func NewNetworkError(code, message string, cause error) *CardError {
	return &CardError{
		Type:    ErrorTypeNetwork,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *CardError {
	return &CardError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewAssetError creates an asset resolution error.
func NewAssetError(code, message string, cause error) *CardError {
	return &CardError{
		Type:    ErrorTypeAsset,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapError wraps an arbitrary error. A nil error stays nil.
func WrapError(err error, errType ErrorType, code, message string) error {
	if err == nil {
		return nil
	}

	return &CardError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsType reports whether err is a CardError of the given type.
func IsType(err error, errType ErrorType) bool {
	var ce *CardError
	if errors.As(err, &ce) {
		return ce.Type == errType
	}

	return false
}

// Common error codes
const (
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidPath     = "ERR_INVALID_PATH"
	ErrCodeFileNotFound    = "ERR_FILE_NOT_FOUND"
	ErrCodeUnknownFormat   = "ERR_UNKNOWN_FORMAT"
	ErrCodeDecodeFailed    = "ERR_DECODE_FAILED"
	ErrCodeAssetNotFound   = "ERR_ASSET_NOT_FOUND"
	ErrCodeProjectNotFound = "ERR_PROJECT_NOT_FOUND"
	ErrCodeInvalidConfig   = "ERR_INVALID_CONFIG"
	ErrCodeServerStart     = "ERR_SERVER_START"
)
