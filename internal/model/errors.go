package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the machine-checkable category of a domain error.
type ErrorKind string

const (
	KindInvalidType     ErrorKind = "invalid_type"
	KindMissingMetadata ErrorKind = "missing_metadata"
	KindInvalidMetadata ErrorKind = "invalid_metadata"
	KindInvalidField    ErrorKind = "invalid_field"
	KindNotFound        ErrorKind = "not_found"
	KindForbidden       ErrorKind = "forbidden"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindDuplicate       ErrorKind = "duplicate"
)

// Error is the structured error returned by the factory, the policy and the
// repositories. Key names the offending metadata key or field, if any.
type Error struct {
	Kind    ErrorKind
	Key     string
	Message string

	kindOnly bool
}

func (e *Error) Error() string {
	return e.Message
}

// Code renders the kind and key the way API clients see it,
// e.g. "missing_metadata:file_size".
func (e *Error) Code() string {
	if e.Key == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ":" + e.Key
}

// Is reports whether target is this exact error, or a pattern it fits.
// The kind sentinels (ErrNotFound, ErrInvalidField, ...) and message-less
// values such as &Error{Kind: KindInvalidField, Key: "title"} are patterns:
// they match on kind, and on key when they name one. Named errors like
// ErrPostNotFound only match themselves.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == e {
		return true
	}
	if !t.kindOnly && t.Message != "" {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Key == "" || t.Key == e.Key
}

// IsValidation reports whether the error is a client input error.
func (e *Error) IsValidation() bool {
	switch e.Kind {
	case KindInvalidType, KindMissingMetadata, KindInvalidMetadata, KindInvalidField:
		return true
	}
	return false
}

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Kind sentinels for errors.Is.
var (
	ErrInvalidType     = &Error{Kind: KindInvalidType, Message: "invalid type", kindOnly: true}
	ErrMissingMetadata = &Error{Kind: KindMissingMetadata, Message: "missing required metadata", kindOnly: true}
	ErrInvalidMetadata = &Error{Kind: KindInvalidMetadata, Message: "invalid metadata", kindOnly: true}
	ErrInvalidField    = &Error{Kind: KindInvalidField, Message: "invalid field", kindOnly: true}
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found", kindOnly: true}
	ErrForbidden       = &Error{Kind: KindForbidden, Message: "forbidden", kindOnly: true}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Message: "authentication required", kindOnly: true}
	ErrDuplicate       = &Error{Kind: KindDuplicate, Message: "duplicate", kindOnly: true}
)

func NewInvalidType(entity string, allowed []string) *Error {
	return &Error{
		Kind:    KindInvalidType,
		Message: fmt.Sprintf("Invalid %s type. Must be one of: %s", entity, strings.Join(allowed, ", ")),
	}
}

func NewMissingMetadata(key, message string) *Error {
	return &Error{Kind: KindMissingMetadata, Key: key, Message: message}
}

func NewInvalidMetadata(key, message string) *Error {
	return &Error{Kind: KindInvalidMetadata, Key: key, Message: message}
}

func NewInvalidField(field, message string) *Error {
	return &Error{Kind: KindInvalidField, Key: field, Message: message}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NewDuplicate(message string) *Error {
	return &Error{Kind: KindDuplicate, Message: message}
}
