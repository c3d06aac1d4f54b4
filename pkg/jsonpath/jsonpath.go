package jsonpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrNotJSON is returned when the body is not valid JSON.
	ErrNotJSON = errors.New("body is not valid JSON")

	// ErrNotFound is returned when a path matches nothing.
	ErrNotFound = errors.New("path not found")
)

// Extract returns the value at a JSONPath-style expression in body.
// Strings come back unquoted, null as "null", objects and arrays as raw JSON.
func Extract(body []byte, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty JSONPath expression")
	}
	if !gjson.ValidBytes(body) {
		return "", ErrNotJSON
	}

	result := gjson.GetBytes(body, toGjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// Match is one path and what it extracted.
type Match struct {
	Path  string
	Value string
	Err   error
}

// ExtractAll runs every path against body, in order. A failing path is
// reported in its Match and does not stop the others.
func ExtractAll(body []byte, paths []string) []Match {
	out := make([]Match, 0, len(paths))
	for _, p := range paths {
		v, err := Extract(body, p)
		out = append(out, Match{Path: p, Value: v, Err: err})
	}
	return out
}

// toGjsonPath converts "$.users[0]['name']" style expressions to gjson's
// "users.0.name". Bare gjson paths pass through unchanged.
func toGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	r := strings.NewReplacer(`['`, ".", `']`, "", `["`, ".", `"]`, "", "[", ".", "]", "")
	path = r.Replace(path)
	return strings.TrimPrefix(path, ".")
}
