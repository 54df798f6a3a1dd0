package session

import (
	"errors"
	"strings"
)

const defaultLoginMessage = "Login failed"

// ErrNoToken is returned when the issuer accepts credentials but sends no token.
var ErrNoToken = errors.New("no token issued")

// LoginError is returned by Login. Message is safe to show to the user.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	return e.Message
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// serverMessager is implemented by API errors that carry the issuer's message.
type serverMessager interface {
	ServerMessage() string
}

func newLoginError(err error) *LoginError {
	msg := defaultLoginMessage
	var sm serverMessager
	if errors.As(err, &sm) {
		if m := strings.TrimSpace(sm.ServerMessage()); m != "" {
			msg = m
		}
	}
	return &LoginError{Message: msg, Err: err}
}
