package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents different types of errors that can occur during a sweep
type ErrorCategory string

const (
	// Trial-level errors: logged, counted and skipped
	ErrorCategoryTimeout ErrorCategory = "TIMEOUT"
	ErrorCategoryLaunch  ErrorCategory = "LAUNCH"
	ErrorCategoryParse   ErrorCategory = "PARSE"

	// Command-level errors that end the run
	ErrorCategoryInput         ErrorCategory = "INPUT"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	ErrorCategoryStore         ErrorCategory = "STORE"
)

// SweepError represents a categorized error with context
type SweepError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *SweepError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *SweepError) Unwrap() error {
	return e.Underlying
}

// IsTrialLevel reports whether the error concerns a single trial only
func (e *SweepError) IsTrialLevel() bool {
	switch e.Category {
	case ErrorCategoryTimeout, ErrorCategoryLaunch, ErrorCategoryParse:
		return true
	default:
		return false
	}
}

// IsFatal returns whether this error should stop the command
func (e *SweepError) IsFatal() bool {
	return !e.IsTrialLevel()
}

// NewSweepError creates a new categorized error
func NewSweepError(category ErrorCategory, component, operation, message string) *SweepError {
	return &SweepError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with sweep error context
func WrapError(err error, category ErrorCategory, component, operation string) *SweepError {
	if err == nil {
		return nil
	}

	return &SweepError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *SweepError) WithContext(key string, value interface{}) *SweepError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// CategoryOf returns the category of err, or "" when it carries none.
// Deadline errors count as timeouts even when not wrapped.
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ""
	}
	var se *SweepError
	if stderrors.As(err, &se) {
		return se.Category
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return ErrorCategoryTimeout
	}
	return ""
}

// IsTrialLevel reports whether err is a trial-level sweep error
func IsTrialLevel(err error) bool {
	var se *SweepError
	if stderrors.As(err, &se) {
		return se.IsTrialLevel()
	}
	return false
}

// Common error constructors
func NewTimeoutError(component, operation string, err error) *SweepError {
	return WrapError(err, ErrorCategoryTimeout, component, operation)
}

func NewLaunchError(component, operation string, err error) *SweepError {
	return WrapError(err, ErrorCategoryLaunch, component, operation)
}

func NewParseError(component, operation string, err error) *SweepError {
	return WrapError(err, ErrorCategoryParse, component, operation)
}

func NewInputError(component, operation, message string) *SweepError {
	return NewSweepError(ErrorCategoryInput, component, operation, message)
}

func NewConfigurationError(component, operation, message string) *SweepError {
	return NewSweepError(ErrorCategoryConfiguration, component, operation, message)
}

func NewStoreError(component, operation string, err error) *SweepError {
	return WrapError(err, ErrorCategoryStore, component, operation)
}

// ErrorStats tracks error statistics for a sweep
type ErrorStats struct {
	TotalErrors      int
	ErrorsByCategory map[ErrorCategory]int
	RecentErrors     []*SweepError
	MaxRecentErrors  int
}

// NewErrorStats creates a new error statistics tracker
func NewErrorStats(maxRecentErrors int) *ErrorStats {
	return &ErrorStats{
		ErrorsByCategory: make(map[ErrorCategory]int),
		RecentErrors:     make([]*SweepError, 0, maxRecentErrors),
		MaxRecentErrors:  maxRecentErrors,
	}
}

// RecordError records an error in the statistics
func (es *ErrorStats) RecordError(err *SweepError) {
	es.TotalErrors++
	es.ErrorsByCategory[err.Category]++

	es.RecentErrors = append(es.RecentErrors, err)
	if len(es.RecentErrors) > es.MaxRecentErrors {
		es.RecentErrors = es.RecentErrors[1:]
	}
}

// Count returns the number of recorded errors in a category
func (es *ErrorStats) Count(category ErrorCategory) int {
	return es.ErrorsByCategory[category]
}

// GetErrorRate returns the share of errors in a specific category
func (es *ErrorStats) GetErrorRate(category ErrorCategory) float64 {
	if es.TotalErrors == 0 {
		return 0.0
	}
	return float64(es.ErrorsByCategory[category]) / float64(es.TotalErrors)
}
