package output

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wesleyorama2/hopper/internal/stats"
)

// Formatter is responsible for formatting session results in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  scheme,
	}
}

// FormatResult formats a session result for display
func (f *Formatter) FormatResult(r *Result) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n", f.scheme.Method.Sprint(r.Method), f.scheme.URL.Sprint(r.URL)))

	if r.Redirects > 0 {
		buf.WriteString(fmt.Sprintf("  %s\n", f.scheme.Redirect.Sprintf("↪ followed %d redirect(s) to %s", r.Redirects, r.FinalURL)))
	}

	status := r.Status
	if status == "" {
		status = fmt.Sprintf("%d", r.StatusCode)
	}
	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
		f.scheme.Status(r.StatusCode).Sprint(status),
		r.Timing.GetTotalTimeMillis()))

	if f.Verbose {
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:      %dms\n", r.Timing.DNSLookupTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TCP Connection:  %dms\n", r.Timing.TCPConnectTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:   %dms\n", r.Timing.TLSHandshakeTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", r.Timing.GetTimeToFirstByteMillis()))
		buf.WriteString(fmt.Sprintf("    Content Transfer:  %dms\n", r.Timing.ContentTransferTime.Milliseconds()))
	}

	if (f.Verbose || r.HeadersOnly) && len(r.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(r.Headers) {
			for _, value := range r.Headers[key] {
				buf.WriteString(fmt.Sprintf("    %s: %s\n", f.scheme.HeaderKey.Sprint(key), value))
			}
		}
	}

	if f.Verbose {
		if len(r.Cookies) > 0 {
			buf.WriteString("  Cookies:\n")
			names := make([]string, 0, len(r.Cookies))
			for name := range r.Cookies {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				buf.WriteString(fmt.Sprintf("    %s=%s\n", f.scheme.HeaderKey.Sprint(name), r.Cookies[name]))
			}
		}
	}

	if len(r.Extracted) > 0 {
		buf.WriteString("  Extracted:\n")
		for _, m := range r.Extracted {
			if m.Err != nil {
				buf.WriteString(fmt.Sprintf("    %s %s: %s\n", ErrorIcon(f.NoColor), m.Path, m.Err))
				continue
			}
			buf.WriteString(fmt.Sprintf("    %s = %s\n", f.scheme.Highlight.Sprint(m.Path), m.Value))
		}
	}

	if r.SchemaValid != nil {
		if *r.SchemaValid {
			buf.WriteString(fmt.Sprintf("  %s Body matches schema\n", SuccessIcon(f.NoColor)))
		} else {
			buf.WriteString(fmt.Sprintf("  %s Body does not match schema\n", ErrorIcon(f.NoColor)))
			for _, e := range r.SchemaErrors {
				buf.WriteString(fmt.Sprintf("    - %s\n", e))
			}
		}
	}

	if len(r.Body) > 0 {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(r.Body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatSummary formats the latency summary of a repeated request
func (f *Formatter) FormatSummary(s stats.Summary) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("%s %d runs, %d failed, %d redirects, %d bytes in %s\n",
		f.scheme.Highlight.Sprint("Σ SUMMARY:"), s.Runs, s.Failed, s.Redirects, s.Bytes, s.Elapsed.Round(time.Millisecond)))
	if s.Runs > s.Failed {
		buf.WriteString(fmt.Sprintf("  min %s  mean %s  p50 %s  p90 %s  p99 %s  max %s\n",
			s.Min, s.Mean, s.P50, s.P90, s.P99, s.Max))
	}

	return buf.String()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatJSONString attempts to pretty-print a JSON body
func formatJSONString(body []byte) string {
	var prettyJSON bytes.Buffer
	if err := stdjson.Indent(&prettyJSON, body, "  ", "  "); err != nil {
		return string(body)
	}
	return "  " + prettyJSON.String()
}
