package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"time"
)

// Header is a single request header line. A slice of Headers keeps the
// order and duplicates the caller asked for.
type Header struct {
	Key   string
	Value string
}

// Request describes one transfer.
type Request struct {
	Method  string
	URL     string
	Headers []Header
	Body    []byte

	// NoBody skips reading the response body, as for HEAD.
	NoBody bool

	// Timeout bounds the whole transfer. Zero falls back to the transport default.
	Timeout time.Duration
}

// Info describes the most recent transfer.
type Info struct {
	StatusCode    int
	EffectiveURL  string
	BytesReceived int64
	Timing        TimingInfo
}

// HTTPTransport performs transfers with net/http.
type HTTPTransport struct {
	httpClient *http.Client
	timeout    time.Duration

	lastCode int
	lastMsg  string
	info     Info
	closed   bool
}

// Option is a function that configures an HTTPTransport.
type Option func(*HTTPTransport)

// New creates a transport with the given options. Redirect following is
// always disabled on the underlying client.
func New(options ...Option) *HTTPTransport {
	t := &HTTPTransport{
		httpClient: &http.Client{},
		timeout:    30 * time.Second,
	}

	for _, option := range options {
		option(t)
	}

	t.httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return t
}

// WithTimeout sets the default timeout for transfers whose Request carries
// none. The default is 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(t *HTTPTransport) {
		t.timeout = timeout
	}
}

// WithHTTPClient uses a copy of httpClient for transfers. Its CheckRedirect
// is replaced.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(t *HTTPTransport) {
		c := *httpClient
		t.httpClient = &c
	}
}

// WithRoundTripper sets the RoundTripper used for transfers.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(t *HTTPTransport) {
		t.httpClient.Transport = rt
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// WARNING: This should only be used for testing purposes.
func WithInsecureSkipVerify() Option {
	return func(t *HTTPTransport) {
		t.httpClient.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// Perform executes req and returns the raw response: status line, header
// lines, a blank line and the body. On failure LastError reports the code and
// message of the error.
func (t *HTTPTransport) Perform(ctx context.Context, req *Request) ([]byte, error) {
	t.lastCode, t.lastMsg = CodeOK, ""
	t.info = Info{EffectiveURL: req.URL}

	if t.closed {
		return nil, t.fail(CodeFailed, ErrClosed)
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, t.fail(CodeURLMalformed, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, t.fail(CodeUnsupportedProtocol, fmt.Errorf("unsupported protocol %q", u.Scheme))
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = t.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequest(method, u.String(), bodyReader)
	if err != nil {
		return nil, t.fail(CodeURLMalformed, err)
	}
	for _, h := range req.Headers {
		if strings.EqualFold(h.Key, "Host") {
			httpReq.Host = h.Value
			continue
		}
		httpReq.Header.Add(h.Key, h.Value)
	}

	timing := TimingInfo{StartTime: time.Now()}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(ctx, timing.trace()))

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, t.fail(classify(err), err)
	}
	defer httpResp.Body.Close()

	timing.TotalTime = time.Since(timing.StartTime)

	var body []byte
	if !req.NoBody && method != http.MethodHead {
		contentTransferStart := time.Now()
		body, err = io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, t.fail(classify(err), err)
		}
		timing.ContentTransferTime = time.Since(contentTransferStart)
		timing.TotalTime = time.Since(timing.StartTime)
	}

	t.info.StatusCode = httpResp.StatusCode
	t.info.BytesReceived = int64(len(body))
	t.info.Timing = timing

	return encodeResponse(httpResp, body), nil
}

// LastError returns the error code and message of the most recent transfer.
func (t *HTTPTransport) LastError() (int, string) {
	return t.lastCode, t.lastMsg
}

// Info returns details of the most recent transfer.
func (t *HTTPTransport) Info() Info {
	return t.info
}

// Close releases idle connections. Further transfers fail with ErrClosed.
func (t *HTTPTransport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.httpClient.CloseIdleConnections()
	return nil
}

func (t *HTTPTransport) fail(code int, err error) error {
	t.lastCode, t.lastMsg = code, err.Error()
	return err
}

// encodeResponse writes resp back out in wire form with body appended.
func encodeResponse(resp *http.Response, body []byte) []byte {
	var buf bytes.Buffer

	proto := resp.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	buf.WriteString(proto + " " + status + "\r\n")
	_ = resp.Header.Write(&buf)
	buf.WriteString("\r\n")
	buf.Write(body)

	return buf.Bytes()
}
