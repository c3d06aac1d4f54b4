package session

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/hopper/transport"
)

const (
	// DefaultUserAgent is sent when a session is configured without headers.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/59.0.3071.115 Safari/537.36"

	// DefaultMaxRedirects bounds a redirect chain when Options.MaxRedirects is zero.
	DefaultMaxRedirects = 20
)

// RedirectPolicy decides what happens to the method and body on a redirect hop.
type RedirectPolicy int

const (
	// RedirectPreserveMethod re-sends the same method and body to every
	// location in the chain.
	RedirectPreserveMethod RedirectPolicy = iota

	// RedirectRFC7231 switches POST to GET without a body on 301 and 302, and
	// any method except HEAD to GET without a body on 303. 307 and 308 keep
	// the method.
	RedirectRFC7231
)

func (p RedirectPolicy) String() string {
	switch p {
	case RedirectPreserveMethod:
		return "preserve"
	case RedirectRFC7231:
		return "rfc7231"
	default:
		return fmt.Sprintf("RedirectPolicy(%d)", int(p))
	}
}

// ParseRedirectPolicy parses "preserve" or "rfc7231".
func ParseRedirectPolicy(s string) (RedirectPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preserve":
		return RedirectPreserveMethod, nil
	case "rfc7231":
		return RedirectRFC7231, nil
	default:
		return 0, fmt.Errorf("unknown redirect policy %q, must be one of: preserve, rfc7231", s)
	}
}

// Options is the full set of per-session transfer settings. SetOptions
// replaces all of them at once.
type Options struct {
	// Timeout bounds each transfer, not the whole redirect chain. Zero uses
	// the transport default.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification on the
	// session's default transport. It has no effect on a transport supplied
	// with WithTransport.
	InsecureSkipVerify bool

	// Referer is sent as the Referer header unless the headers already carry one.
	Referer string

	// AutoReferer sets Referer to the previous URL on every redirect hop.
	AutoReferer bool

	// MaxRedirects caps the hops of one chain. Zero means DefaultMaxRedirects,
	// a negative value means no cap.
	MaxRedirects int

	RedirectPolicy RedirectPolicy
}

func (o Options) maxRedirects() int {
	if o.MaxRedirects == 0 {
		return DefaultMaxRedirects
	}
	return o.MaxRedirects
}

// Option is a function that configures a Session at construction.
type Option func(*Session)

// WithHeaders replaces the default header set.
func WithHeaders(headers ...transport.Header) Option {
	return func(s *Session) {
		s.SetHeaders(headers...)
	}
}

// WithTransport makes the session use t instead of building its own. The
// session takes ownership and closes t on Close.
func WithTransport(t Transport) Option {
	return func(s *Session) {
		s.transport = t
		s.builtTransport = false
	}
}

// WithLogger sets the logger for hop and cookie diagnostics. The session id
// is attached to every event.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.log = l.With().Str("session", s.id).Logger()
	}
}

// WithOptions applies opts as SetOptions would.
func WithOptions(opts Options) Option {
	return func(s *Session) {
		s.SetOptions(opts)
	}
}

// ParseHeader parses a "Name: value" line.
func ParseHeader(line string) (transport.Header, error) {
	key, value, ok := strings.Cut(line, ":")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return transport.Header{}, fmt.Errorf("invalid header %q, expected \"Name: value\"", line)
	}
	return transport.Header{Key: http.CanonicalHeaderKey(key), Value: strings.TrimSpace(value)}, nil
}
