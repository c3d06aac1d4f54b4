package session

import (
	"fmt"
	"io"
	"net/url"

	jsoniter "github.com/json-iterator/go"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeBody turns request data into bytes plus the Content-Type it implies.
//
// Strings, byte slices, url.Values and map[string]string are sent as form
// data; an io.Reader is read fully and sent as is; anything else is
// marshaled to JSON.
func EncodeBody(data interface{}) ([]byte, string, error) {
	switch body := data.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(body), contentTypeForm, nil
	case []byte:
		return body, contentTypeForm, nil
	case url.Values:
		return []byte(body.Encode()), contentTypeForm, nil
	case map[string]string:
		values := make(url.Values, len(body))
		for k, v := range body {
			values.Set(k, v)
		}
		return []byte(values.Encode()), contentTypeForm, nil
	case io.Reader:
		b, err := io.ReadAll(body)
		if err != nil {
			return nil, "", fmt.Errorf("read request body: %w", err)
		}
		return b, "", nil
	default:
		b, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return b, contentTypeJSON, nil
	}
}
