// Package errors provides the standardized error taxonomy for query
// classification and routing.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeConfigInvalid is fatal: a lexicon or catalog failed to load or
	// validate. The process must not start with it.
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// ErrCodeNoIntent means no catalog intent cleared the score threshold.
	ErrCodeNoIntent ErrorCode = "NO_INTENT_MATCHED"

	// ErrCodeLowConfidence means the top intent scored below the configured
	// confidence minimum.
	ErrCodeLowConfidence ErrorCode = "LOW_CONFIDENCE"

	// ErrCodeUnroutable means classified intents exist but none are on the
	// caller-supplied registry.
	ErrCodeUnroutable ErrorCode = "UNROUTABLE_INTENT"
)

// ClassificationError is a structured application error. Details must never
// carry raw query text; callers pass redacted excerpts only.
type ClassificationError struct {
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Recoverable bool                   `json:"recoverable"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("ClassificationError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigError creates the fatal load-time error. It wraps the underlying
// cause in Details so startup logs point at the offending file or field.
func NewConfigError(details string) *ClassificationError {
	return &ClassificationError{
		Code:        ErrCodeConfigInvalid,
		Message:     "Classifier configuration is invalid",
		Details:     details,
		Recoverable: false,
		Timestamp:   time.Now().UTC(),
	}
}

// NewConfigErrorf is NewConfigError with formatting.
func NewConfigErrorf(format string, args ...interface{}) *ClassificationError {
	return NewConfigError(fmt.Sprintf(format, args...))
}

// NewNoIntentError creates the recoverable no-candidate error. The excerpt
// must already be redacted.
func NewNoIntentError(redactedExcerpt string) *ClassificationError {
	return &ClassificationError{
		Code:        ErrCodeNoIntent,
		Message:     "No registered intent matched the query",
		Details:     fmt.Sprintf("query: %s", redactedExcerpt),
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewLowConfidenceError creates the recoverable below-minimum error. The
// excerpt must already be redacted.
func NewLowConfidenceError(confidence, minimum float64, redactedExcerpt string) *ClassificationError {
	return &ClassificationError{
		Code:        ErrCodeLowConfidence,
		Message:     "Top intent confidence below configured minimum",
		Details:     fmt.Sprintf("confidence: %.2f, minimum: %.2f, query: %s", confidence, minimum, redactedExcerpt),
		Recoverable: true,
		Metadata: map[string]interface{}{
			"confidence": confidence,
			"minimum":    minimum,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewUnroutableError creates the recoverable registry-mismatch error.
func NewUnroutableError(intents []string) *ClassificationError {
	return &ClassificationError{
		Code:        ErrCodeUnroutable,
		Message:     "No classified intent is registered for routing",
		Details:     fmt.Sprintf("candidates: %v", intents),
		Recoverable: true,
		Metadata: map[string]interface{}{
			"candidates": intents,
		},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf extracts the error code, or empty string for foreign errors.
func CodeOf(err error) ErrorCode {
	var ce *ClassificationError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsConfigError reports whether err is the fatal load-time error.
func IsConfigError(err error) bool {
	return CodeOf(err) == ErrCodeConfigInvalid
}

// IsRecoverable reports whether the caller can act on the error without a
// config change (clarify the query or supply an explicit intent).
func IsRecoverable(err error) bool {
	var ce *ClassificationError
	if errors.As(err, &ce) {
		return ce.Recoverable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeConfigInvalid:
		return "CONFIG"
	case ErrCodeNoIntent, ErrCodeLowConfidence:
		return "CLASSIFICATION"
	case ErrCodeUnroutable:
		return "ROUTING"
	default:
		return "OTHER"
	}
}
