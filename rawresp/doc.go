// Package rawresp splits a raw HTTP response byte stream into its status
// line, header fields and body.
//
// The input is what a transport hands back when asked to include headers in
// its output: a status line, zero or more "Name: value" lines, a blank
// separator line and the body. Line breaks may be "\r\n" or "\n".
//
// Basic Usage:
//
//	resp, err := rawresp.Split(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(resp.StatusCode, resp.Headers.Get("Content-Type"))
//	for _, c := range resp.Headers.SetCookie() {
//	    fmt.Println("cookie:", c)
//	}
//
// Header names are kept exactly as received. Only one value is kept per name,
// the last one seen, except for Set-Cookie whose values are all retained in
// order.
package rawresp
