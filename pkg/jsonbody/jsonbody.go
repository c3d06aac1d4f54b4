// Package jsonbody assembles a JSON request body from "path=value" fields.
package jsonbody

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Build sets each field on top of base and returns the resulting document.
// An empty base starts from "{}".
//
// Fields have the form path=value, with path in sjson syntax ("user.name",
// "tags.-1" to append). A value that is itself valid JSON (a number, true,
// null, a quoted string, an object or array) is inserted raw; anything else
// is inserted as a string.
func Build(base []byte, fields []string) ([]byte, error) {
	doc := base
	if len(strings.TrimSpace(string(doc))) == 0 {
		doc = []byte("{}")
	}
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("base body is not valid JSON")
	}

	for _, field := range fields {
		path, value, ok := strings.Cut(field, "=")
		path = strings.TrimSpace(path)
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid field %q, expected path=value", field)
		}

		var err error
		if gjson.Valid(value) {
			doc, err = sjson.SetRawBytes(doc, path, []byte(value))
		} else {
			doc, err = sjson.SetBytes(doc, path, value)
		}
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", path, err)
		}
	}
	return doc, nil
}
