package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wesleyorama2/hopper/cookie"
	"github.com/wesleyorama2/hopper/rawresp"
	"github.com/wesleyorama2/hopper/transport"
)

// Transport performs one transfer and returns the raw response bytes.
// *transport.HTTPTransport is the default implementation.
type Transport interface {
	Perform(ctx context.Context, req *transport.Request) ([]byte, error)
	LastError() (code int, message string)
	Info() transport.Info
	Close() error
}

// Session is a configurable request that follows redirects itself.
// See the package documentation for the redirect rules.
type Session struct {
	id  string
	log zerolog.Logger

	transport      Transport
	builtTransport bool
	closed         bool

	targetURL    string
	headers      []transport.Header
	method       string
	body         []byte
	contentType  string
	cookieHeader string
	noBody       bool
	opts         Options

	redirectCount int
	lastResponse  *rawresp.RawResponse
}

// New creates a session targeting rawURL with the default User-Agent header.
func New(rawURL string, options ...Option) *Session {
	s := &Session{
		id:  uuid.NewString(),
		log: zerolog.Nop(),
	}
	s.Configure(rawURL)

	for _, option := range options {
		option(s)
	}
	return s
}

// Fetch GETs rawURL, following redirects, and returns the final body. The
// session it uses is closed before Fetch returns.
func Fetch(ctx context.Context, rawURL string, options ...Option) ([]byte, error) {
	s := New(rawURL, options...)
	defer s.Close()
	return s.Get(ctx, true)
}

// ID returns the session's unique id, as attached to its log events.
func (s *Session) ID() string {
	return s.id
}

// Configure resets the session and then targets rawURL with headers, or with
// the default User-Agent when no headers are given.
func (s *Session) Configure(rawURL string, headers ...transport.Header) *Session {
	s.Reset()
	s.targetURL = rawURL
	if len(headers) == 0 {
		headers = []transport.Header{{Key: "User-Agent", Value: DefaultUserAgent}}
	}
	return s.SetHeaders(headers...)
}

// Reset clears every setting, the redirect count and the stored response.
// The transport is kept.
func (s *Session) Reset() *Session {
	if s.builtTransport && s.transport != nil && s.opts.InsecureSkipVerify {
		s.dropBuiltTransport()
	}
	s.targetURL = ""
	s.headers = nil
	s.method = ""
	s.body = nil
	s.contentType = ""
	s.cookieHeader = ""
	s.noBody = false
	s.opts = Options{}
	s.redirectCount = 0
	s.lastResponse = nil
	return s
}

// SetURL sets the target URL.
func (s *Session) SetURL(rawURL string) *Session {
	s.targetURL = rawURL
	return s
}

// URL returns the current target URL. After a followed redirect chain this is
// the URL of the final hop.
func (s *Session) URL() string {
	return s.targetURL
}

// SetHeaders replaces all request headers.
func (s *Session) SetHeaders(headers ...transport.Header) *Session {
	s.headers = append([]transport.Header(nil), headers...)
	return s
}

// AddHeader appends one request header.
func (s *Session) AddHeader(key, value string) *Session {
	s.headers = append(s.headers, transport.Header{Key: key, Value: value})
	return s
}

// SetMethod sets a custom request method. An empty method means GET.
func (s *Session) SetMethod(method string) *Session {
	s.method = strings.ToUpper(method)
	s.noBody = s.method == http.MethodHead
	return s
}

// Method returns the request method that the next transfer will use.
func (s *Session) Method() string {
	if s.method == "" {
		return http.MethodGet
	}
	return s.method
}

// SetBody sets the raw request body.
func (s *Session) SetBody(body []byte) *Session {
	s.body = body
	s.contentType = ""
	return s
}

// SetData encodes data with EncodeBody and uses it as the request body.
func (s *Session) SetData(data interface{}) error {
	body, contentType, err := EncodeBody(data)
	if err != nil {
		return err
	}
	s.body = body
	s.contentType = contentType
	return nil
}

// SetReferer sets the Referer header value.
func (s *Session) SetReferer(referer string) *Session {
	s.opts.Referer = referer
	return s
}

// SetAutoReferer controls whether redirect hops update the Referer.
func (s *Session) SetAutoReferer(v bool) *Session {
	s.opts.AutoReferer = v
	return s
}

// SetTimeout sets the per-transfer timeout.
func (s *Session) SetTimeout(timeout time.Duration) *Session {
	s.opts.Timeout = timeout
	return s
}

// SetCookies sends cookies with every request, names in sorted order.
func (s *Session) SetCookies(cookies map[string]string) *Session {
	s.cookieHeader = cookie.BuildHeaderFromMap(cookies)
	return s
}

// SetCookiePairs sends cookies with every request in the order given.
func (s *Session) SetCookiePairs(pairs ...cookie.Pair) *Session {
	s.cookieHeader = cookie.BuildHeader(pairs...)
	return s
}

// SetCookieHeader sends raw as the Cookie header, unchanged.
func (s *Session) SetCookieHeader(raw string) *Session {
	s.cookieHeader = raw
	return s
}

// SetOptions replaces every transfer setting at once.
func (s *Session) SetOptions(opts Options) *Session {
	if s.builtTransport && s.transport != nil && opts.InsecureSkipVerify != s.opts.InsecureSkipVerify {
		s.dropBuiltTransport()
	}
	s.opts = opts
	return s
}

// Options returns the current transfer settings.
func (s *Session) Options() Options {
	return s.opts
}

// Get performs a GET.
func (s *Session) Get(ctx context.Context, follow bool) ([]byte, error) {
	s.SetMethod(http.MethodGet)
	s.SetBody(nil)
	return s.Execute(ctx, follow)
}

// Post sends data with POST. See EncodeBody for accepted data types.
func (s *Session) Post(ctx context.Context, data interface{}, follow bool) ([]byte, error) {
	return s.send(ctx, http.MethodPost, data, follow)
}

// Put sends data with PUT. data may be nil.
func (s *Session) Put(ctx context.Context, data interface{}, follow bool) ([]byte, error) {
	return s.send(ctx, http.MethodPut, data, follow)
}

// Delete sends DELETE, with data as the body when it is not nil.
func (s *Session) Delete(ctx context.Context, data interface{}, follow bool) ([]byte, error) {
	return s.send(ctx, http.MethodDelete, data, follow)
}

// Head performs a HEAD without retrieving a body and returns the headers of
// the final response. The method stays HEAD until changed.
func (s *Session) Head(ctx context.Context, follow bool) (rawresp.Headers, error) {
	s.SetMethod(http.MethodHead)
	if _, err := s.Execute(ctx, follow); err != nil {
		return rawresp.Headers{}, err
	}
	return s.lastResponse.Headers, nil
}

func (s *Session) send(ctx context.Context, method string, data interface{}, follow bool) ([]byte, error) {
	s.SetMethod(method)
	if err := s.SetData(data); err != nil {
		return nil, err
	}
	return s.Execute(ctx, follow)
}

// Execute performs the configured request and returns the body of the final
// response. With follow set, every response carrying a Location header
// sends the session on to that location, up to Options.MaxRedirects hops.
//
// On error the stored response is cleared.
func (s *Session) Execute(ctx context.Context, follow bool) ([]byte, error) {
	s.lastResponse = nil

	resp, err := s.perform(ctx)
	if err != nil {
		return nil, err
	}

	if follow {
		limit := s.opts.maxRedirects()
		hops := 0
		for location := resp.Location(); location != ""; location = resp.Location() {
			if limit >= 0 && hops >= limit {
				s.lastResponse = nil
				return nil, fmt.Errorf("%w: stopped after %d hops at %s", ErrTooManyRedirects, hops, s.targetURL)
			}

			next, err := resolveLocation(s.targetURL, location)
			if err != nil {
				s.lastResponse = nil
				return nil, err
			}

			s.log.Debug().
				Int("status", resp.StatusCode).
				Str("from", s.targetURL).
				Str("to", next).
				Int("hop", hops+1).
				Msg("following redirect")

			if s.opts.AutoReferer {
				s.opts.Referer = s.targetURL
			}
			s.applyRedirectPolicy(resp.StatusCode)

			s.redirectCount++
			hops++
			s.targetURL = next
			s.lastResponse = nil

			resp, err = s.perform(ctx)
			if err != nil {
				return nil, err
			}
		}
	}

	return resp.Body, nil
}

// perform runs one transfer and stores the split response.
func (s *Session) perform(ctx context.Context) (*rawresp.RawResponse, error) {
	if s.closed {
		return nil, &TransportError{Code: transport.CodeFailed, Message: transport.ErrClosed.Error(), Err: transport.ErrClosed}
	}

	t := s.ensureTransport()
	req := s.request()

	raw, err := t.Perform(ctx, req)
	if err != nil {
		code, msg := t.LastError()
		s.log.Debug().Err(err).Int("code", code).Str("url", req.URL).Msg("transfer failed")
		return nil, &TransportError{Code: code, Message: msg, Err: err}
	}

	resp, err := rawresp.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("response from %s: %w", req.URL, err)
	}

	s.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status", resp.StatusCode).
		Int("bytes", len(resp.Body)).
		Msg("transfer complete")

	s.lastResponse = resp
	return resp, nil
}

func (s *Session) request() *transport.Request {
	headers := append([]transport.Header(nil), s.headers...)

	if s.contentType != "" && len(s.body) > 0 && !s.hasHeader("Content-Type") {
		headers = append(headers, transport.Header{Key: "Content-Type", Value: s.contentType})
	}
	if s.opts.Referer != "" && !s.hasHeader("Referer") {
		headers = append(headers, transport.Header{Key: "Referer", Value: s.opts.Referer})
	}
	if s.cookieHeader != "" {
		headers = append(headers, transport.Header{Key: "Cookie", Value: s.cookieHeader})
	}

	return &transport.Request{
		Method:  s.Method(),
		URL:     s.targetURL,
		Headers: headers,
		Body:    s.body,
		NoBody:  s.noBody,
		Timeout: s.opts.Timeout,
	}
}

func (s *Session) hasHeader(key string) bool {
	for _, h := range s.headers {
		if strings.EqualFold(h.Key, key) {
			return true
		}
	}
	return false
}

func (s *Session) applyRedirectPolicy(status int) {
	if s.opts.RedirectPolicy != RedirectRFC7231 {
		return
	}

	switch status {
	case http.StatusMovedPermanently, http.StatusFound:
		if s.method == http.MethodPost {
			s.toGet()
		}
	case http.StatusSeeOther:
		if s.method != http.MethodHead {
			s.toGet()
		}
	}
}

func (s *Session) toGet() {
	s.method = http.MethodGet
	s.body = nil
	s.contentType = ""
}

// resolveLocation resolves a Location value against the URL it came from.
func resolveLocation(base, location string) (string, error) {
	loc, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrBadLocation, location, err)
	}
	if loc.IsAbs() {
		return location, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve %q against %q: %v", ErrBadLocation, location, base, err)
	}
	return b.ResolveReference(loc).String(), nil
}

func (s *Session) ensureTransport() Transport {
	if s.transport == nil {
		var opts []transport.Option
		if s.opts.InsecureSkipVerify {
			opts = append(opts, transport.WithInsecureSkipVerify())
		}
		s.transport = transport.New(opts...)
		s.builtTransport = true
	}
	return s.transport
}

func (s *Session) dropBuiltTransport() {
	_ = s.transport.Close()
	s.transport = nil
	s.builtTransport = false
}

// RedirectCount returns the number of redirect hops followed since the
// session was created or last reset.
func (s *Session) RedirectCount() int {
	return s.redirectCount
}

// LastResponse returns the response of the most recent transfer, or nil
// when there is none.
func (s *Session) LastResponse() *rawresp.RawResponse {
	return s.lastResponse
}

// Headers returns the headers of the stored response.
func (s *Session) Headers() rawresp.Headers {
	if s.lastResponse == nil {
		return rawresp.Headers{}
	}
	return s.lastResponse.Headers
}

// Body returns the body of the stored response.
func (s *Session) Body() []byte {
	if s.lastResponse == nil {
		return nil
	}
	return s.lastResponse.Body
}

// ClearResponse drops the stored response.
func (s *Session) ClearResponse() *Session {
	s.lastResponse = nil
	return s
}

// Cookies parses the Set-Cookie headers of the stored response. It reports
// false when there is no response or it set no cookies. Malformed entries
// are logged and skipped.
func (s *Session) Cookies() (map[string]cookie.Cookie, bool) {
	if s.lastResponse == nil {
		return nil, false
	}
	entries := s.lastResponse.Headers.SetCookie()
	if len(entries) == 0 {
		return nil, false
	}

	cookies := cookie.ParseSetCookieLenient(entries, func(entry string, err error) {
		s.log.Warn().Err(err).Str("entry", entry).Msg("skipping malformed Set-Cookie")
	})
	return cookies, true
}

// StatusCode returns the status code of the final hop of the last Execute,
// as reported by the transport.
func (s *Session) StatusCode() int {
	if s.transport == nil {
		return 0
	}
	return s.transport.Info().StatusCode
}

// Info returns the transport's details of the most recent transfer.
func (s *Session) Info() transport.Info {
	if s.transport == nil {
		return transport.Info{}
	}
	return s.transport.Info()
}

// LastError returns the transport's error code and message for the most
// recent transfer. Code 0 means it succeeded.
func (s *Session) LastError() (int, string) {
	if s.transport == nil {
		return transport.CodeOK, ""
	}
	return s.transport.LastError()
}

// ErrorMessage returns LastError as "#code - message".
func (s *Session) ErrorMessage() string {
	return transport.FormatError(s.LastError())
}

func (s *Session) String() string {
	return fmt.Sprintf("request session %s (redirected %d times)", s.id, s.redirectCount)
}

// Close releases the transport. It is safe to call more than once; the
// session cannot perform transfers afterwards.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.transport == nil {
		return nil
	}
	return s.transport.Close()
}
