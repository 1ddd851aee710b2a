package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Input errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// Kind is the stable, machine-checkable code of a catalog error.
type Kind string

const (
	KindNotFound      Kind = "NOT_FOUND"
	KindAlreadyExists Kind = "ALREADY_EXISTS"
	KindAlreadyMember Kind = "ALREADY_MEMBER"
	KindNotMember     Kind = "NOT_MEMBER"
	KindNotPublic     Kind = "NOT_PUBLIC"
	KindAccessDenied  Kind = "ACCESS_DENIED"
	KindValidation    Kind = "VALIDATION"
	KindInUse         Kind = "IN_USE"
	KindIdentity      Kind = "IDENTITY"
)

// Error is a business-rule failure. Errors of any other type are internal failures.
type Error struct {
	Kind     Kind
	Resource string
	ID       string
	Message  string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches on Kind, and on Resource when the target names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Resource == "" || t.Resource == e.Resource)
}

// Sentinels for use with [errors.Is].
var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists}
	ErrAlreadyMember = &Error{Kind: KindAlreadyMember}
	ErrNotMember     = &Error{Kind: KindNotMember}
	ErrAccessDenied  = &Error{Kind: KindAccessDenied}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrInUse         = &Error{Kind: KindInUse}
	ErrIdentity      = &Error{Kind: KindIdentity}

	ErrPlaylistNotPublic = &Error{Kind: KindNotPublic, Resource: "playlist"}
	ErrGenreInUse        = &Error{Kind: KindInUse, Resource: "genre"}
)

func NotFound(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Resource: resource, ID: id, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

func AlreadyExists(resource, message string) *Error {
	return &Error{Kind: KindAlreadyExists, Resource: resource, Message: message}
}

func AlreadyMember(owner, member string) *Error {
	return &Error{Kind: KindAlreadyMember, Resource: member, Message: fmt.Sprintf("%s is already in %s", member, owner)}
}

func NotMember(owner, member string) *Error {
	return &Error{Kind: KindNotMember, Resource: member, Message: fmt.Sprintf("%s is not in %s", member, owner)}
}

// NotPublic reports a read of a hidden resource. Transports render it like a
// missing resource so that private resources do not leak their existence.
func NotPublic(resource, id string) *Error {
	return &Error{Kind: KindNotPublic, Resource: resource, ID: id, Message: fmt.Sprintf("%s is not public: %s", resource, id)}
}

func AccessDenied(message string) *Error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func InUse(resource, message string) *Error {
	return &Error{Kind: KindInUse, Resource: resource, Message: message}
}

func Identity(message string) *Error {
	return &Error{Kind: KindIdentity, Message: message}
}

// Conceal rewrites a not-public error into the not-found error for the same
// resource. Any other error is returned unchanged.
func Conceal(err error) error {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindNotPublic {
		return NotFound(e.Resource, e.ID)
	}
	return err
}

// KindOf returns the [Kind] of err, or "" for internal failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
