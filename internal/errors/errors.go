// Package errors provides a lightweight structured error type (FolioError)
// for category-based classification in the build pipeline and CLI.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the category of a folio error for classification
type ErrorCategory string

const (
	// Content authoring errors, reported together during the load phase
	CategoryParse      ErrorCategory = "parse"
	CategoryValidation ErrorCategory = "validation"

	// Build errors, fatal on first occurrence
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryConfig   ErrorCategory = "config"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// FolioError is a structured error with category, severity, and context
type FolioError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for FolioError
type ContextFields map[string]any

// Error implements the error interface
func (e *FolioError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %s", e.Category, e.Severity, e.Message)
	for _, k := range sortedKeys(e.Context) {
		fmt.Fprintf(&b, " %s=%v", k, e.Context[k])
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *FolioError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *FolioError) WithContext(key string, value any) *FolioError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new FolioError
func New(category ErrorCategory, severity ErrorSeverity, message string) *FolioError {
	return &FolioError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new FolioError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *FolioError {
	return &FolioError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if fe, ok := err.(*FolioError); ok {
		return fe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if not a FolioError
func GetCategory(err error) ErrorCategory {
	if fe, ok := err.(*FolioError); ok {
		return fe.Category
	}
	return CategoryInternal
}

func sortedKeys(m ContextFields) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
