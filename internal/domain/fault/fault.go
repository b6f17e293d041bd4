package fault

import (
	"errors"
	"fmt"
)

// Kind classifies analytics failures independent of transport.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInsufficientData  Kind = "insufficient_data"
	KindInvalidParameters Kind = "invalid_parameters"
	KindUpstream          Kind = "upstream_unavailable"
	KindInternal          Kind = "internal"
)

// Error is a typed failure carrying a machine-readable kind.
// It wraps an optional cause and survives layer boundaries unchanged:
// store, strategy, facade and handler all speak the same kinds.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithCause attaches an underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// NotFound reports an unknown symbol.
func NotFound(format string, a ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, a...)}
}

// InsufficientData reports a series shorter than a strategy's minimum window.
func InsufficientData(format string, a ...interface{}) *Error {
	return &Error{Kind: KindInsufficientData, Message: fmt.Sprintf(format, a...)}
}

// InvalidParameters reports a caller-supplied parameter outside its documented domain.
func InvalidParameters(format string, a ...interface{}) *Error {
	return &Error{Kind: KindInvalidParameters, Message: fmt.Sprintf(format, a...)}
}

// Upstream reports a computation unit that did not answer.
func Upstream(format string, a ...interface{}) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf(format, a...)}
}

// Internal reports an unexpected computation failure.
func Internal(format string, a ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, a...)}
}

// Wire codes carried inside error envelopes between units and the gateway.
const (
	CodeNotFound          = "ERR_NOT_FOUND"
	CodeInsufficientData  = "ERR_INSUFFICIENT_DATA"
	CodeInvalidParameters = "ERR_INVALID_PARAMETERS"
	CodeUpstream          = "ERR_UPSTREAM_UNAVAILABLE"
	CodeInternal          = "ERR_INTERNAL"
)

// Code returns the wire code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindNotFound:
		return CodeNotFound
	case KindInsufficientData:
		return CodeInsufficientData
	case KindInvalidParameters:
		return CodeInvalidParameters
	case KindUpstream:
		return CodeUpstream
	default:
		return CodeInternal
	}
}

// KindFromCode reverses Code so a relayed envelope reconstructs the original
// kind. Unknown codes collapse to KindInternal.
func KindFromCode(code string) Kind {
	switch code {
	case CodeNotFound:
		return KindNotFound
	case CodeInsufficientData:
		return KindInsufficientData
	case CodeInvalidParameters:
		return KindInvalidParameters
	case CodeUpstream:
		return KindUpstream
	default:
		return KindInternal
	}
}

// KindOf extracts the kind from err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// AsError returns err unchanged when it is already typed, otherwise wraps it
// as an internal failure with the given message.
func AsError(err error, message string) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
