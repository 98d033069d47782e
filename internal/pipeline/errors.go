package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"sitegen_ai_server/internal/utils"
)

// ValidationError is the only error that reaches the caller: the raw business description
// is missing required identity fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid project requirements: missing " + strings.Join(e.Fields, ", ")
}

// ExternalServiceError covers timeouts, network failures and non-2xx answers from the
// completion or image service.
type ExternalServiceError struct {
	Stage     string
	Timeout   bool
	Transient bool
	Cause     error
}

func (e *ExternalServiceError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: external service timed out: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("%s: external service failed: %v", e.Stage, e.Cause)
}

func (e *ExternalServiceError) Unwrap() error { return e.Cause }

// MalformedResponseError means the service answered but the content failed validation.
type MalformedResponseError struct {
	Stage  string
	Reason string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: malformed response: %s: %v", e.Stage, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: malformed response: %s", e.Stage, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// PartialSectionFailure records that one section of a per-section stage fell back.
type PartialSectionFailure struct {
	Stage      string
	SectionKey string
	Cause      error
}

func (e *PartialSectionFailure) Error() string {
	return fmt.Sprintf("%s: section %s fell back: %v", e.Stage, e.SectionKey, e.Cause)
}

func (e *PartialSectionFailure) Unwrap() error { return e.Cause }

func malformed(stage, reason string, cause error) error {
	return &MalformedResponseError{Stage: stage, Reason: reason, Cause: cause}
}

func malformedf(stage, format string, args ...any) error {
	return &MalformedResponseError{Stage: stage, Reason: fmt.Sprintf(format, args...)}
}

// Classify maps any error from an AI-dependent call into one of the two recoverable classes.
// MalformedResponseErrors pass through; everything else is an ExternalServiceError.
func Classify(stage string, err error) error {
	if err == nil {
		return nil
	}
	var mal *MalformedResponseError
	if errors.As(err, &mal) {
		return mal
	}
	var ext *ExternalServiceError
	if errors.As(err, &ext) {
		return ext
	}
	return &ExternalServiceError{
		Stage:     stage,
		Timeout:   utils.IsTimeout(err),
		Transient: utils.IsTransient(err),
		Cause:     err,
	}
}

// ErrorClass names the class of a recovered error for logs and metrics.
func ErrorClass(err error) string {
	var mal *MalformedResponseError
	var ext *ExternalServiceError
	var val *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &mal):
		return "malformed_response"
	case errors.As(err, &ext) && ext.Timeout:
		return "timeout"
	case errors.As(err, &ext):
		return "external_service"
	case errors.As(err, &val):
		return "validation"
	default:
		return "unknown"
	}
}
