package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeEnrichError = "ENRICH_ERROR"
	CodeFetch       = "FETCH_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeIO          = "IO_ERROR"
	CodeValidation  = "VALIDATION_ERROR"
)

var (
	ErrChannelNotFound = stderrors.New("channel not found")
	ErrMissingColumn   = stderrors.New("required column missing")
)

type EnrichError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *EnrichError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *EnrichError) Unwrap() error {
	return e.Cause
}

func NewEnrichError(message, code string, context map[string]any) *EnrichError {
	return &EnrichError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *EnrichError) WithCause(cause error) *EnrichError {
	e.Cause = cause
	return e
}

// FetchError describes a per-channel lookup that did not produce data.
// It is recovered by the caller and never aborts a run.
type FetchError struct {
	*EnrichError
	ChannelID string
}

func NewFetchError(channelID string, cause error) *FetchError {
	code := CodeFetch
	if stderrors.Is(cause, ErrChannelNotFound) {
		code = CodeNotFound
	}
	return &FetchError{
		EnrichError: &EnrichError{
			Message: fmt.Sprintf("fetch channel %q", channelID),
			Code:    code,
			Context: map[string]any{
				"channel_id": channelID,
			},
			Cause: cause,
		},
		ChannelID: channelID,
	}
}

// IOError wraps a file system failure on the input or output table.
type IOError struct {
	*EnrichError
	Operation string
	Path      string
}

func NewIOError(operation, path string, cause error) *IOError {
	return &IOError{
		EnrichError: &EnrichError{
			Message: fmt.Sprintf("%s %s", operation, path),
			Code:    CodeIO,
			Context: map[string]any{
				"operation": operation,
				"path":      path,
			},
			Cause: cause,
		},
		Operation: operation,
		Path:      path,
	}
}

type ValidationError struct {
	*EnrichError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		EnrichError: &EnrichError{
			Message: message,
			Code:    CodeValidation,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// NewMissingColumnError reports a required input column that is absent.
func NewMissingColumnError(column string) *ValidationError {
	err := NewValidationError(fmt.Sprintf("input table has no %s column", column), column, nil)
	err.Cause = ErrMissingColumn
	return err
}

// IsFatal reports whether err should terminate a run.
func IsFatal(err error) bool {
	var ioErr *IOError
	var valErr *ValidationError
	return stderrors.As(err, &ioErr) || stderrors.As(err, &valErr)
}
