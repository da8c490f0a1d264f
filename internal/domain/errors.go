package domain

import "errors"

type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindInvalidCredential
	KindForbidden
	KindNotFound
	KindConflict
	KindDuplicateReview
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidCredential:
		return "invalid credential"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindDuplicateReview:
		return "duplicate review"
	case KindUnavailable:
		return "service unavailable"
	}
	return "error"
}

// Error is the error type every service returns. Msg is safe to show to clients,
// Err is the underlying cause and is only logged.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind, so errors.Is(err, ErrNotFound) holds for any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrInvalidCredential = &Error{Kind: KindInvalidCredential}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrDuplicateReview   = &Error{Kind: KindDuplicateReview}
	ErrUnavailable       = &Error{Kind: KindUnavailable}
)

func Validation(msg string) error        { return &Error{Kind: KindValidation, Msg: msg} }
func Unauthorized(msg string) error      { return &Error{Kind: KindUnauthorized, Msg: msg} }
func InvalidCredential(msg string) error { return &Error{Kind: KindInvalidCredential, Msg: msg} }
func Forbidden(msg string) error         { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) error          { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) error          { return &Error{Kind: KindConflict, Msg: msg} }
func DuplicateReview(msg string) error   { return &Error{Kind: KindDuplicateReview, Msg: msg} }
func Unavailable(msg string, err error) error {
	return &Error{Kind: KindUnavailable, Msg: msg, Err: err}
}

// KindOf reports the Kind of err, or 0 when err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
