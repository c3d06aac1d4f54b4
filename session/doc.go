// Package session provides a fluent request session that follows redirects
// itself, keeps the last parsed response and exposes its cookies.
//
// A Session owns a transport (an *transport.HTTPTransport unless another is
// supplied with WithTransport). Every transfer returns raw response bytes,
// which the session splits into headers and body with package rawresp. When
// redirect following is on and the response carries a Location header, the
// session points itself at that location and performs the transfer again.
//
// Basic Usage:
//
//	s := session.New("https://example.com/login")
//	defer s.Close()
//
//	body, err := s.Post(ctx, url.Values{"user": {"me"}, "pass": {"secret"}}, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("%d after %d redirects\n", s.StatusCode(), s.RedirectCount())
//	if cookies, ok := s.Cookies(); ok {
//	    fmt.Println(cookies["sid"].Value)
//	}
//
// Redirects:
//
// Any response with a non-empty Location header is followed, whatever its
// status code. By default the method and body are kept for every hop
// (RedirectPreserveMethod). RedirectRFC7231 switches POST to GET on 301 and
// 302, and everything except HEAD to GET on 303. A chain longer than
// Options.MaxRedirects (20 unless set) fails with ErrTooManyRedirects.
//
// Thread Safety:
//
// A Session mutates its state on every call and must not be used from more
// than one goroutine at a time. Sessions share nothing with each other, so
// concurrent callers should each create their own.
package session
