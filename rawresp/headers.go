package rawresp

import "sort"

// SetCookieKey is the only header name whose values accumulate instead of
// overwriting each other.
const SetCookieKey = "Set-Cookie"

// Headers holds the header fields of a split response.
//
// Names are compared case-sensitively. The zero value is an empty set.
type Headers struct {
	fields    map[string]string
	setCookie []string
}

// NewHeaders returns an empty header set.
func NewHeaders() Headers {
	return Headers{fields: make(map[string]string)}
}

// add records one header line. Set-Cookie values are appended, everything
// else replaces any earlier value under the same name.
func (h *Headers) add(key, value string) {
	if key == SetCookieKey {
		h.setCookie = append(h.setCookie, value)
		return
	}
	if h.fields == nil {
		h.fields = make(map[string]string)
	}
	h.fields[key] = value
}

// Get returns the value stored under key, or "" when absent. For Set-Cookie
// it returns the last value received.
func (h Headers) Get(key string) string {
	v, _ := h.Lookup(key)
	return v
}

// Lookup is like Get but also reports whether the header was present.
func (h Headers) Lookup(key string) (string, bool) {
	if key == SetCookieKey {
		if len(h.setCookie) == 0 {
			return "", false
		}
		return h.setCookie[len(h.setCookie)-1], true
	}
	v, ok := h.fields[key]
	return v, ok
}

// SetCookie returns every Set-Cookie value in the order received.
func (h Headers) SetCookie() []string {
	if len(h.setCookie) == 0 {
		return nil
	}
	out := make([]string, len(h.setCookie))
	copy(out, h.setCookie)
	return out
}

// Len returns the number of distinct header names. All Set-Cookie lines
// together count as one entry.
func (h Headers) Len() int {
	n := len(h.fields)
	if len(h.setCookie) > 0 {
		n++
	}
	return n
}

// Keys returns the header names in sorted order.
func (h Headers) Keys() []string {
	keys := make([]string, 0, h.Len())
	for k := range h.fields {
		keys = append(keys, k)
	}
	if len(h.setCookie) > 0 {
		keys = append(keys, SetCookieKey)
	}
	sort.Strings(keys)
	return keys
}

// Map flattens the header set into name -> values. Every name except
// Set-Cookie maps to a single-element slice.
func (h Headers) Map() map[string][]string {
	out := make(map[string][]string, h.Len())
	for k, v := range h.fields {
		out[k] = []string{v}
	}
	if len(h.setCookie) > 0 {
		out[SetCookieKey] = h.SetCookie()
	}
	return out
}
