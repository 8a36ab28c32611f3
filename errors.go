package gltf

import (
	"errors"
	"fmt"
)

// Kind classifies the failure modes a gltfdoc operation can report.
type Kind int

const (
	// KindDataTooShort means the input was truncated relative to a
	// declared length (GLB chunk framing, buffer byte length, ...). The
	// validator also reports it for a sparse accessor index that is not
	// below the accessor's count.
	KindDataTooShort Kind = iota + 1
	// KindUnknownFormat means a magic number, chunk kind, or URI scheme
	// did not match anything this package recognizes.
	KindUnknownFormat
	// KindInvalidJSON means the tokenizer hit malformed JSON, or the
	// deserializer found a token of the wrong kind at a schema slot.
	KindInvalidJSON
	// KindInvalidGltf means a semantic or reference violation was found
	// by the resolver or validator (out-of-range index, structural
	// violation, bounds failure, ...).
	KindInvalidGltf
	// KindInvalidOptions means the caller passed nil options where
	// required, or an inconsistent Options value (see WithAllocator).
	KindInvalidOptions
	// KindFileNotFound means the convenience file loader could not open
	// the requested path.
	KindFileNotFound
	// KindIoError means a read failed for a reason other than "not found".
	KindIoError
	// KindOutOfMemory means the caller-sized token array ran out of slots
	// during tokenization (for example a WithTokenCount hint that is too
	// small).
	KindOutOfMemory
)

// String renders the Kind's name.
func (k Kind) String() string {
	switch k {
	case KindDataTooShort:
		return "DataTooShort"
	case KindUnknownFormat:
		return "UnknownFormat"
	case KindInvalidJSON:
		return "InvalidJson"
	case KindInvalidGltf:
		return "InvalidGltf"
	case KindInvalidOptions:
		return "InvalidOptions"
	case KindFileNotFound:
		return "FileNotFound"
	case KindIoError:
		return "IoError"
	case KindOutOfMemory:
		return "OutOfMemory"
	default:
		return "Unknown"
	}
}

// Error is the single error type every exported gltfdoc operation returns.
// It carries a Kind so callers can branch with errors.As/errors.Is without
// needing eight separate sentinel variables, plus an optional wrapped cause
// and a free-form message for context (the failing index, field name, ...).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// newError builds an *Error with a formatted message.
//
// Parameters:
//   - kind: the failure classification
//   - format: fmt.Sprintf-style format string
//   - args: format arguments
//
// Returns:
//   - *Error: the constructed error
func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError builds an *Error that wraps an underlying cause.
//
// Parameters:
//   - kind: the failure classification
//   - cause: the underlying error being wrapped
//   - format: fmt.Sprintf-style format string
//   - args: format arguments
//
// Returns:
//   - *Error: the constructed error
func wrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gltfdoc: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("gltfdoc: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets a bare *Error{Kind: k} act as an errors.Is sentinel: constructing
// one with only Kind set (no Message/Cause) and comparing against it
// matches any *Error of the same Kind, regardless of message.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// ErrorKind reports the Kind carried by err if it is (or wraps) a *gltfdoc.Error.
//
// Parameters:
//   - err: the error to inspect
//
// Returns:
//   - Kind: the classification, or 0 if err is not a gltfdoc *Error
//   - bool: whether a Kind was found
func ErrorKind(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
