package output

import (
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/hopper/internal/stats"
	"github.com/wesleyorama2/hopper/pkg/jsonpath"
	"github.com/wesleyorama2/hopper/transport"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a format name. The empty string means text.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatResult(r *Result) string
	FormatSummary(s stats.Summary) string
}

// GetFormatter returns the formatter for the given format
func GetFormatter(format OutputFormat, verbose, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}

// Result is everything known about one executed session call.
type Result struct {
	Method     string
	URL        string
	FinalURL   string
	Redirects  int
	Proto      string
	StatusCode int
	Status     string
	Headers    map[string][]string
	Cookies    map[string]string
	Body       []byte
	Timing     transport.TimingInfo
	Extracted  []jsonpath.Match

	// HeadersOnly marks a response with no body to show, such as HEAD.
	// Its headers are printed even without verbose output.
	HeadersOnly bool

	// SchemaErrors is nil when no schema was checked.
	SchemaErrors []string
	SchemaValid  *bool
}

// TimingData represents detailed timing information for a transfer
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ExtractData is one --extract result
type ExtractData struct {
	Path  string `json:"path" yaml:"path"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// SchemaData is the outcome of a --schema check
type SchemaData struct {
	Valid  bool     `json:"valid" yaml:"valid"`
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ResultData is the serializable form of a Result
type ResultData struct {
	Method     string              `json:"method" yaml:"method"`
	URL        string              `json:"url" yaml:"url"`
	FinalURL   string              `json:"finalUrl,omitempty" yaml:"finalUrl,omitempty"`
	Redirects  int                 `json:"redirects" yaml:"redirects"`
	StatusCode int                 `json:"statusCode" yaml:"statusCode"`
	Status     string              `json:"status,omitempty" yaml:"status,omitempty"`
	Headers    map[string][]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies    map[string]string   `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	Body       interface{}         `json:"body,omitempty" yaml:"body,omitempty"`
	Timing     *TimingData         `json:"timing,omitempty" yaml:"timing,omitempty"`
	Extracted  []ExtractData       `json:"extracted,omitempty" yaml:"extracted,omitempty"`
	Schema     *SchemaData         `json:"schema,omitempty" yaml:"schema,omitempty"`
	Timestamp  string              `json:"timestamp" yaml:"timestamp"`
}

// SummaryData is the serializable form of a stats.Summary in milliseconds
type SummaryData struct {
	Runs      int64   `json:"runs" yaml:"runs"`
	Failed    int64   `json:"failed" yaml:"failed"`
	Redirects int64   `json:"redirects" yaml:"redirects"`
	Bytes     int64   `json:"bytes" yaml:"bytes"`
	ElapsedMs float64 `json:"elapsedMs" yaml:"elapsedMs"`
	MinMs     float64 `json:"minMs" yaml:"minMs"`
	MeanMs    float64 `json:"meanMs" yaml:"meanMs"`
	P50Ms     float64 `json:"p50Ms" yaml:"p50Ms"`
	P90Ms     float64 `json:"p90Ms" yaml:"p90Ms"`
	P99Ms     float64 `json:"p99Ms" yaml:"p99Ms"`
	MaxMs     float64 `json:"maxMs" yaml:"maxMs"`
}

// NewResultData converts a Result. Cookies and timing are only included when
// verbose is set, headers also for a HeadersOnly result. A body that parses
// as JSON is embedded as a value, anything else as a string.
func NewResultData(r *Result, verbose bool) ResultData {
	data := ResultData{
		Method:     r.Method,
		URL:        r.URL,
		Redirects:  r.Redirects,
		StatusCode: r.StatusCode,
		Status:     r.Status,
		Body:       decodeBody(r.Body),
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	if r.FinalURL != r.URL {
		data.FinalURL = r.FinalURL
	}

	if verbose || r.HeadersOnly {
		data.Headers = r.Headers
	}
	if verbose {
		data.Cookies = r.Cookies
		data.Timing = newTimingData(r.Timing)
	}

	for _, m := range r.Extracted {
		e := ExtractData{Path: m.Path, Value: m.Value}
		if m.Err != nil {
			e.Error = m.Err.Error()
		}
		data.Extracted = append(data.Extracted, e)
	}

	if r.SchemaValid != nil {
		data.Schema = &SchemaData{Valid: *r.SchemaValid, Errors: r.SchemaErrors}
	}

	return data
}

// NewSummaryData converts a stats.Summary
func NewSummaryData(s stats.Summary) SummaryData {
	return SummaryData{
		Runs:      s.Runs,
		Failed:    s.Failed,
		Redirects: s.Redirects,
		Bytes:     s.Bytes,
		ElapsedMs: millis(s.Elapsed),
		MinMs:     millis(s.Min),
		MeanMs:    millis(s.Mean),
		P50Ms:     millis(s.P50),
		P90Ms:     millis(s.P90),
		P99Ms:     millis(s.P99),
		MaxMs:     millis(s.Max),
	}
}

func newTimingData(ti transport.TimingInfo) *TimingData {
	return &TimingData{
		DNSLookup:       ti.DNSLookupTime.Milliseconds(),
		TCPConnection:   ti.TCPConnectTime.Milliseconds(),
		TLSHandshake:    ti.TLSHandshakeTime.Milliseconds(),
		TimeToFirstByte: ti.GetTimeToFirstByteMillis(),
		ContentTransfer: ti.ContentTransferTime.Milliseconds(),
		Total:           ti.GetTotalTimeMillis(),
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func decodeBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return string(body)
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

// FormatResult formats a result as JSON
func (f *JSONFormatter) FormatResult(r *Result) string {
	return f.marshal(NewResultData(r, f.Verbose), "result")
}

// FormatSummary formats a repeat summary as JSON
func (f *JSONFormatter) FormatSummary(s stats.Summary) string {
	return f.marshal(NewSummaryData(s), "summary")
}

func (f *JSONFormatter) marshal(v interface{}, what string) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}

	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal %s: %s"}`, what, err)
	}

	return string(output)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

// FormatResult formats a result as YAML
func (f *YAMLFormatter) FormatResult(r *Result) string {
	return marshalYAML(NewResultData(r, f.Verbose), "result")
}

// FormatSummary formats a repeat summary as YAML
func (f *YAMLFormatter) FormatSummary(s stats.Summary) string {
	return marshalYAML(NewSummaryData(s), "summary")
}

func marshalYAML(v interface{}, what string) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal %s: %s", what, err)
	}
	return string(output)
}
