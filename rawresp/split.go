package rawresp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedHeaderLine is returned when a header line has no ": "
	// separator between name and value.
	ErrMalformedHeaderLine = errors.New("malformed header line")

	// ErrEmptyResponse is returned when there is nothing to split.
	ErrEmptyResponse = errors.New("empty response")
)

// RawResponse is one parsed HTTP response. It is not modified after Split
// returns it.
type RawResponse struct {
	// Proto is the protocol from the status line, e.g. "HTTP/1.1"
	Proto string

	// StatusCode is the numeric status, or 0 if the status line could not be read
	StatusCode int

	// Status is the status line without the protocol, e.g. "200 OK"
	Status string

	Headers Headers
	Body    []byte
}

// Split parses raw into a RawResponse.
//
// The first line is taken as the status line. Header lines follow until the
// first line that is one byte or shorter (an empty line or a lone "\r"); the
// body is everything after that separator, byte for byte. Interim 1xx
// responses that precede the final one are skipped.
func Split(raw []byte) (*RawResponse, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}

	for {
		resp, err := splitOne(raw)
		if err != nil {
			return nil, err
		}
		if !resp.isInterim() || !bytes.HasPrefix(resp.Body, []byte("HTTP/")) {
			return resp, nil
		}
		raw = resp.Body
	}
}

func splitOne(raw []byte) (*RawResponse, error) {
	resp := &RawResponse{Headers: NewHeaders()}

	line, pos := readLine(raw, 0)
	resp.parseStatusLine(string(bytes.TrimSuffix(line, []byte("\r"))))

	lineNo := 1
	for pos < len(raw) {
		var next int
		line, next = readLine(raw, pos)
		lineNo++
		pos = next

		// Separator: empty line, or just the "\r" left over from "\r\n".
		if len(line) <= 1 {
			break
		}

		key, value, ok := strings.Cut(string(line), ": ")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedHeaderLine, lineNo, line)
		}
		resp.Headers.add(key, strings.TrimSpace(value))
	}

	resp.Body = append([]byte(nil), raw[pos:]...)
	return resp, nil
}

// readLine returns the line starting at pos without its "\n", and the offset
// of the byte following the "\n" (or len(raw) when the input ends first).
func readLine(raw []byte, pos int) ([]byte, int) {
	i := bytes.IndexByte(raw[pos:], '\n')
	if i < 0 {
		return raw[pos:], len(raw)
	}
	return raw[pos : pos+i], pos + i + 1
}

// parseStatusLine fills Proto, StatusCode and Status. A line it cannot read
// leaves them unset.
func (r *RawResponse) parseStatusLine(line string) {
	proto, status, ok := strings.Cut(line, " ")
	if !ok || !strings.HasPrefix(proto, "HTTP/") {
		return
	}
	r.Proto = proto
	r.Status = strings.TrimSpace(status)

	code := r.Status
	if i := strings.IndexByte(code, ' '); i >= 0 {
		code = code[:i]
	}
	if n, err := strconv.Atoi(code); err == nil {
		r.StatusCode = n
	}
}

func (r *RawResponse) isInterim() bool {
	return r.StatusCode >= 100 && r.StatusCode < 200
}

// Location returns the Location header, or "" when there is none.
func (r *RawResponse) Location() string {
	return r.Headers.Get("Location")
}
