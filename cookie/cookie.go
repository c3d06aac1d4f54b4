// Package cookie parses Set-Cookie header values and assembles request
// Cookie headers.
package cookie

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMalformedCookieEntry is returned when the name=value pair of a
// Set-Cookie entry cannot be read.
var ErrMalformedCookieEntry = errors.New("malformed cookie entry")

// Attribute is one attribute of a Set-Cookie entry. Valueless attributes
// such as HttpOnly or Secure have Flag set and an empty Value.
type Attribute struct {
	Value string
	Flag  bool
}

// Cookie is a parsed Set-Cookie entry.
type Cookie struct {
	Key        string
	Value      string
	Attributes map[string]Attribute
}

// Attr returns the value of a key=value attribute.
func (c Cookie) Attr(name string) (string, bool) {
	a, ok := c.Attributes[name]
	if !ok || a.Flag {
		return "", false
	}
	return a.Value, true
}

// HasFlag reports whether a valueless attribute such as "Secure" is set.
func (c Cookie) HasFlag(name string) bool {
	return c.Attributes[name].Flag
}

// Pair is a name/value pair sent back in a request Cookie header.
type Pair struct {
	Key   string
	Value string
}

// Parse parses a single Set-Cookie value.
//
// Segments are separated by "; ". The first is the cookie's name=value pair;
// each following segment is either an attribute=value pair or a bare flag.
func Parse(entry string) (Cookie, error) {
	segments := strings.Split(entry, "; ")

	key, value, err := splitPair(segments[0])
	if err != nil {
		return Cookie{}, fmt.Errorf("%w: %q", err, entry)
	}

	c := Cookie{
		Key:        key,
		Value:      value,
		Attributes: make(map[string]Attribute, len(segments)-1),
	}
	for _, seg := range segments[1:] {
		if k, v, ok := strings.Cut(seg, "="); ok {
			c.Attributes[k] = Attribute{Value: v}
		} else {
			c.Attributes[seg] = Attribute{Flag: true}
		}
	}
	return c, nil
}

func splitPair(s string) (string, string, error) {
	i := strings.IndexByte(s, '=')
	switch {
	case i < 0:
		return "", "", fmt.Errorf("%w: missing '='", ErrMalformedCookieEntry)
	case i == 0:
		return "", "", fmt.Errorf("%w: empty name", ErrMalformedCookieEntry)
	}
	return s[:i], s[i+1:], nil
}

// ParseSetCookie parses every entry and keys the result by cookie name. A
// later entry with the same name replaces an earlier one. The first malformed
// entry aborts the parse.
func ParseSetCookie(entries []string) (map[string]Cookie, error) {
	out := make(map[string]Cookie, len(entries))
	for _, entry := range entries {
		c, err := Parse(entry)
		if err != nil {
			return nil, err
		}
		out[c.Key] = c
	}
	return out, nil
}

// ParseSetCookieLenient is ParseSetCookie that skips malformed entries,
// reporting each to onSkip when it is non-nil.
func ParseSetCookieLenient(entries []string, onSkip func(entry string, err error)) map[string]Cookie {
	out := make(map[string]Cookie, len(entries))
	for _, entry := range entries {
		c, err := Parse(entry)
		if err != nil {
			if onSkip != nil {
				onSkip(entry, err)
			}
			continue
		}
		out[c.Key] = c
	}
	return out
}

// Values projects parsed cookies down to name -> value.
func Values(cookies map[string]Cookie) map[string]string {
	out := make(map[string]string, len(cookies))
	for k, c := range cookies {
		out[k] = c.Value
	}
	return out
}

// BuildHeader renders pairs as a Cookie header value, in the order given:
// "a=1; b=2".
func BuildHeader(pairs ...Pair) string {
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(p.Key)
		sb.WriteByte('=')
		sb.WriteString(p.Value)
	}
	return sb.String()
}

// BuildHeaderFromMap renders cookies as a Cookie header value with names in
// sorted order.
func BuildHeaderFromMap(cookies map[string]string) string {
	return BuildHeader(SortedPairs(cookies)...)
}

// SortedPairs turns a name -> value map into pairs ordered by name.
func SortedPairs(cookies map[string]string) []Pair {
	keys := make([]string, 0, len(cookies))
	for k := range cookies {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: k, Value: cookies[k]})
	}
	return pairs
}
