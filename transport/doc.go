// Package transport performs single HTTP transfers and hands back the raw
// response bytes: status line, headers, blank line and body.
//
// It never follows redirects. Callers that want redirects followed read the
// Location header themselves and issue a new transfer, which is what package
// session does.
//
// Basic Usage:
//
//	t := transport.New(transport.WithTimeout(10 * time.Second))
//	defer t.Close()
//
//	raw, err := t.Perform(ctx, &transport.Request{
//	    Method: "GET",
//	    URL:    "https://example.com/",
//	})
//	if err != nil {
//	    code, msg := t.LastError()
//	    log.Fatal(transport.FormatError(code, msg))
//	}
//
//	fmt.Printf("status %d in %v\n", t.Info().StatusCode, t.Info().Timing.TotalTime)
//
// Error codes:
//
// After every Perform the transport records a numeric error code and a
// message, readable through LastError. Code 0 means success; the other values
// follow the numbering curl uses for the same failures (6 resolve, 7 connect,
// 28 timeout, 35 TLS, ...).
//
// Thread Safety:
//
// An HTTPTransport records per-transfer state and must not be shared between
// goroutines. Give each session its own transport.
package transport
