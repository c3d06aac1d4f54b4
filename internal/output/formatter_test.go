package output

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wesleyorama2/hopper/internal/stats"
	"github.com/wesleyorama2/hopper/pkg/jsonpath"
	"github.com/wesleyorama2/hopper/transport"
)

func sampleResult() *Result {
	valid := false
	return &Result{
		Method:     "GET",
		URL:        "http://example.com/start",
		FinalURL:   "http://example.com/end",
		Redirects:  2,
		StatusCode: 200,
		Status:     "200 OK",
		Headers: map[string][]string{
			"Content-Type": {"application/json"},
			"Set-Cookie":   {"a=1", "b=2"},
		},
		Cookies: map[string]string{"b": "2", "a": "1"},
		Body:    []byte(`{"id":7,"name":"ann"}`),
		Timing:  transport.TimingInfo{TotalTime: 42 * time.Millisecond},
		Extracted: []jsonpath.Match{
			{Path: "$.id", Value: "7"},
			{Path: "$.missing", Err: errors.New("path not found")},
		},
		SchemaValid:  &valid,
		SchemaErrors: []string{"validation error at /id: expected string"},
	}
}

func TestFormatter_FormatResult(t *testing.T) {
	formatter := NewFormatter(true, true)
	output := formatter.FormatResult(sampleResult())

	expectedParts := []string{
		"REQUEST: GET http://example.com/start",
		"followed 2 redirect(s) to http://example.com/end",
		"RESPONSE: 200 OK (42ms)",
		"Timing:",
		"Headers:",
		"Content-Type: application/json",
		"Set-Cookie: a=1",
		"Set-Cookie: b=2",
		"Cookies:",
		"a=1",
		"Extracted:",
		"$.id = 7",
		"$.missing: path not found",
		"Body does not match schema",
		"- validation error at /id",
		`"name": "ann"`,
	}

	for _, part := range expectedParts {
		if !strings.Contains(output, part) {
			t.Errorf("Expected output to contain '%s', got:\n%s", part, output)
		}
	}

	if strings.Index(output, "    a=1") > strings.Index(output, "    b=2") {
		t.Errorf("Expected cookies in name order, got:\n%s", output)
	}
}

func TestFormatter_FormatResult_Quiet(t *testing.T) {
	r := &Result{Method: "HEAD", URL: "http://example.com/", FinalURL: "http://example.com/", StatusCode: 404}
	output := NewFormatter(false, true).FormatResult(r)

	if !strings.Contains(output, "RESPONSE: 404") {
		t.Errorf("Expected bare status code when status text is missing, got:\n%s", output)
	}
	for _, part := range []string{"redirect", "Headers:", "Timing:", "Body:"} {
		if strings.Contains(output, part) {
			t.Errorf("Expected output without '%s', got:\n%s", part, output)
		}
	}
}

func TestFormatter_FormatResult_HeadersOnly(t *testing.T) {
	r := &Result{
		Method:      "HEAD",
		URL:         "http://example.com/",
		FinalURL:    "http://example.com/",
		StatusCode:  200,
		Status:      "200 OK",
		Headers:     map[string][]string{"Content-Length": {"12"}, "X-Method": {"HEAD"}},
		Cookies:     map[string]string{"a": "1"},
		HeadersOnly: true,
	}
	output := NewFormatter(false, true).FormatResult(r)

	for _, part := range []string{"Headers:", "Content-Length: 12", "X-Method: HEAD"} {
		if !strings.Contains(output, part) {
			t.Errorf("Expected output to contain '%s', got:\n%s", part, output)
		}
	}
	for _, part := range []string{"Timing:", "Cookies:", "Body:"} {
		if strings.Contains(output, part) {
			t.Errorf("Expected output without '%s', got:\n%s", part, output)
		}
	}
}

func TestFormatter_NonJSONBody(t *testing.T) {
	r := &Result{Method: "GET", URL: "u", StatusCode: 200, Body: []byte("plain text")}
	output := NewFormatter(false, true).FormatResult(r)
	if !strings.Contains(output, "plain text") {
		t.Errorf("Expected raw body, got:\n%s", output)
	}
}

func TestFormatter_FormatSummary(t *testing.T) {
	s := stats.Summary{
		Runs:    5,
		Failed:  1,
		Elapsed: 1500 * time.Millisecond,
		Min:     time.Millisecond,
		P99:     9 * time.Millisecond,
		Max:     10 * time.Millisecond,
	}
	output := NewFormatter(false, true).FormatSummary(s)

	for _, part := range []string{"5 runs, 1 failed", "1.5s", "min 1ms", "p99 9ms", "max 10ms"} {
		if !strings.Contains(output, part) {
			t.Errorf("Expected summary to contain '%s', got:\n%s", part, output)
		}
	}

	allFailed := NewFormatter(false, true).FormatSummary(stats.Summary{Runs: 2, Failed: 2})
	if strings.Contains(allFailed, "p50") {
		t.Errorf("Expected no latency line when every run failed, got:\n%s", allFailed)
	}
}
