package service

import "errors"

var (
	// ErrValidation indicates a required field is missing or invalid.
	ErrValidation = errors.New("validation error")

	// ErrNetwork indicates the request failed or was rejected by the server.
	ErrNetwork = errors.New("network error")

	// ErrNotFound indicates the target task does not exist server-side.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates missing, expired or revoked credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMalformedRecord indicates a record without an identifier.
	ErrMalformedRecord = errors.New("malformed record")
)

// Error is a gateway failure carrying the server's human-readable message.
// It unwraps to one of the sentinel errors above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// MessageOf returns the human-readable message carried by err,
// or fallback when there is none.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
