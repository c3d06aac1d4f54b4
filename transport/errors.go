package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
)

// Error codes recorded by HTTPTransport. The numbers match curl's for the same
// conditions so they read the same in logs.
const (
	CodeOK                  = 0
	CodeUnsupportedProtocol = 1
	CodeFailed              = 2
	CodeURLMalformed        = 3
	CodeResolve             = 6
	CodeConnect             = 7
	CodeTimeout             = 28
	CodeTLS                 = 35
	CodeAborted             = 42
	CodeReceive             = 56
)

// ErrClosed is returned by Perform after Close.
var ErrClosed = errors.New("transport is closed")

// FormatError renders a code and message as a single diagnostic string,
// "#28 - context deadline exceeded".
func FormatError(code int, message string) string {
	return fmt.Sprintf("#%d - %s", code, message)
}

// classify maps a transfer error to one of the Code constants.
func classify(err error) int {
	var (
		dnsErr  *net.DNSError
		opErr   *net.OpError
		netErr  net.Error
		certErr *tls.CertificateVerificationError
		authErr x509.UnknownAuthorityError
		hostErr x509.HostnameError
		recErr  tls.RecordHeaderError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return CodeAborted
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return CodeTimeout
	case errors.As(err, &dnsErr):
		return CodeResolve
	case errors.As(err, &certErr), errors.As(err, &authErr), errors.As(err, &hostErr), errors.As(err, &recErr):
		return CodeTLS
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return CodeConnect
	default:
		return CodeReceive
	}
}
