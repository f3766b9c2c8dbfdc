package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInvalidState      ErrorKind = "INVALID_STATE"
	KindSlotConflict      ErrorKind = "SLOT_CONFLICT"
	KindAlreadyCheckedIn  ErrorKind = "ALREADY_CHECKED_IN"
	KindDeviceInUse       ErrorKind = "DEVICE_IN_USE"
	KindDeviceUnavailable ErrorKind = "DEVICE_UNAVAILABLE"
	KindReasonRequired    ErrorKind = "REASON_REQUIRED"
	KindInvalidAmount     ErrorKind = "INVALID_AMOUNT"
	KindInvalidRange      ErrorKind = "INVALID_RANGE"
	KindAccessDenied      ErrorKind = "ACCESS_DENIED"
	KindValidation        ErrorKind = "VALIDATION"
)

// Error is a lifecycle or authorization failure surfaced to the caller.
// Messages are user-facing and written in Korean.
type Error struct {
	Kind         ErrorKind
	Message      string
	RequiredRole Role
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind when the target carries no message,
// so errors.Is(err, domain.ErrNotFound) works for every not-found failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidState      = &Error{Kind: KindInvalidState}
	ErrSlotConflict      = &Error{Kind: KindSlotConflict}
	ErrAlreadyCheckedIn  = &Error{Kind: KindAlreadyCheckedIn}
	ErrDeviceInUse       = &Error{Kind: KindDeviceInUse}
	ErrDeviceUnavailable = &Error{Kind: KindDeviceUnavailable}
	ErrReasonRequired    = &Error{Kind: KindReasonRequired}
	ErrInvalidAmount     = &Error{Kind: KindInvalidAmount}
	ErrInvalidRange      = &Error{Kind: KindInvalidRange}
	ErrAccessDenied      = &Error{Kind: KindAccessDenied}
	ErrValidation        = &Error{Kind: KindValidation}
)

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) *Error          { return NewError(KindNotFound, message) }
func InvalidState(message string) *Error      { return NewError(KindInvalidState, message) }
func ReasonRequired(message string) *Error    { return NewError(KindReasonRequired, message) }
func InvalidAmount(message string) *Error     { return NewError(KindInvalidAmount, message) }
func ValidationError(message string) *Error   { return NewError(KindValidation, message) }
func InvalidRange(message string) *Error      { return NewError(KindInvalidRange, message) }
func SlotConflict(message string) *Error      { return NewError(KindSlotConflict, message) }
func DeviceInUse(message string) *Error       { return NewError(KindDeviceInUse, message) }
func DeviceUnavailable(message string) *Error { return NewError(KindDeviceUnavailable, message) }
func AlreadyCheckedIn(message string) *Error  { return NewError(KindAlreadyCheckedIn, message) }

// AccessDenied builds an authorization veto; requiredRole may be empty.
func AccessDenied(message string, requiredRole Role) *Error {
	return &Error{Kind: KindAccessDenied, Message: message, RequiredRole: requiredRole}
}

// Prefixed returns a copy of err with prefix prepended to its message,
// keeping the kind. Non-domain errors are wrapped with fmt.Errorf.
func Prefixed(prefix string, err error) error {
	var de *Error
	if errors.As(err, &de) {
		return &Error{Kind: de.Kind, Message: prefix + de.Message, RequiredRole: de.RequiredRole}
	}
	return fmt.Errorf("%s%w", prefix, err)
}

// KindOf returns the kind of a domain error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
