package domain

import (
	"errors"
	"fmt"
)

// Failure kinds used across the pipeline. Compare with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrExtraction = errors.New("extraction error")
	ErrModel      = errors.New("model error")
	ErrRender     = errors.New("render error")
)

// Error pairs a failure kind with a user-facing message and the underlying cause.
// Msg is safe to show to clients; Err is for logs only.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

// Validation returns a validation failure with a client-visible message.
func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Msg: msg}
}

// Extraction wraps a source parsing or fetching failure.
func Extraction(msg string, err error) error {
	return &Error{Kind: ErrExtraction, Msg: msg, Err: err}
}

// Model wraps a generative model failure.
func Model(msg string, err error) error {
	return &Error{Kind: ErrModel, Msg: msg, Err: err}
}

// Render wraps an export serialization failure.
func Render(msg string, err error) error {
	return &Error{Kind: ErrRender, Msg: msg, Err: err}
}

// UserMessage returns the message to show a client for err.
// Causes are never included; unknown errors get a generic message.
func UserMessage(err error) string {
	var de *Error
	if errors.As(err, &de) && errors.Is(de.Kind, ErrValidation) {
		return de.Msg
	}

	switch {
	case errors.Is(err, ErrExtraction):
		return "Could not read the content of the source"
	case errors.Is(err, ErrModel):
		return "The summary could not be generated, please try again later"
	case errors.Is(err, ErrRender):
		return "The document could not be created"
	default:
		return "An unexpected error occurred"
	}
}
