package session

import (
	"errors"

	"github.com/wesleyorama2/hopper/transport"
)

var (
	// ErrTooManyRedirects is returned when a redirect chain exceeds
	// Options.MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBadLocation is returned when a Location header cannot be parsed as a URL.
	ErrBadLocation = errors.New("invalid Location header")
)

// TransportError is a failed transfer as reported by the transport: its
// native error code and message.
type TransportError struct {
	Code    int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return transport.FormatError(e.Code, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
