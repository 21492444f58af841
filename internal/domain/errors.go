package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManyRequests = errors.New("too many requests")
)

// Error pairs a sentinel kind with the message shown to API clients.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NewError returns an *Error that matches kind under errors.Is.
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Client-facing failures shared by the auth flows.
var (
	ErrEmailTaken         = NewError(ErrConflict, "Email already in use")
	ErrUsernameTaken      = NewError(ErrConflict, "Username already taken")
	ErrInvalidOTP         = NewError(ErrBadRequest, "Invalid or expired OTP")
	ErrInvalidCredentials = NewError(ErrBadRequest, "Invalid credentials")
)
