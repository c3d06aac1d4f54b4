package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/hopper/pkg/jsonschema"
	"github.com/wesleyorama2/hopper/session"
	"github.com/wesleyorama2/hopper/transport"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config represents the top-level profile file
type Config struct {
	Variables map[string]string  `json:"variables,omitempty" yaml:"variables,omitempty"`
	Profiles  map[string]Profile `json:"profiles" yaml:"profiles"`
}

// Profile is a named set of session defaults
type Profile struct {
	BaseURL        string            `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	Headers        map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies        map[string]string `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	Timeout        string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	MaxRedirects   int               `json:"maxRedirects,omitempty" yaml:"maxRedirects,omitempty"`
	RedirectPolicy string            `json:"redirectPolicy,omitempty" yaml:"redirectPolicy,omitempty"`
	Insecure       bool              `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	Referer        string            `json:"referer,omitempty" yaml:"referer,omitempty"`
	AutoReferer    bool              `json:"autoReferer,omitempty" yaml:"autoReferer,omitempty"`
	NoFollow       bool              `json:"noFollow,omitempty" yaml:"noFollow,omitempty"`
	Variables      map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// LoadConfig loads a profile file. Files ending in .yaml or .yml are read as
// YAML, everything else as JSON. The file is checked against the profile
// schema and then semantically.
func LoadConfig(path string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return ParseConfig(data, isYAML(path))
}

// ParseConfig parses and validates profile file contents.
func ParseConfig(data []byte, asYAML bool) (*Config, error) {
	doc := data
	if asYAML {
		var generic interface{}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		doc = converted
	}

	schema, err := jsonschema.Compile(profileSchema)
	if err != nil {
		return nil, err
	}
	if errs := schema.ValidateJSON(doc); len(errs) > 0 {
		return nil, fmt.Errorf("config does not match schema: %w", errs)
	}

	var config Config
	if err := json.Unmarshal(doc, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if errs := ValidateConfig(&config); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}

	return &config, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Profile returns the named profile with file-level variables merged under
// its own and substituted into its string fields.
func (c *Config) Profile(name string) (Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found (available: %s)", name, strings.Join(c.ProfileNames(), ", "))
	}

	vars := MergeVariables(c.Variables, p.Variables)
	p.BaseURL = ProcessVariables(p.BaseURL, vars)
	p.Referer = ProcessVariables(p.Referer, vars)
	p.Headers = ProcessVariablesInMap(p.Headers, vars)
	p.Cookies = ProcessVariablesInMap(p.Cookies, vars)
	p.Variables = vars
	return p, nil
}

// ProfileNames returns the profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SessionOptions converts the profile into session options.
func (p Profile) SessionOptions() (session.Options, error) {
	opts := session.Options{
		InsecureSkipVerify: p.Insecure,
		Referer:            p.Referer,
		AutoReferer:        p.AutoReferer,
		MaxRedirects:       p.MaxRedirects,
	}

	if p.Timeout != "" {
		d, err := parseDurationString(p.Timeout)
		if err != nil {
			return session.Options{}, fmt.Errorf("invalid timeout '%s': %w", p.Timeout, err)
		}
		opts.Timeout = d
	}

	policy, err := session.ParseRedirectPolicy(p.RedirectPolicy)
	if err != nil {
		return session.Options{}, err
	}
	opts.RedirectPolicy = policy

	return opts, nil
}

// HeaderList returns the profile headers sorted by name.
func (p Profile) HeaderList() []transport.Header {
	keys := make([]string, 0, len(p.Headers))
	for k := range p.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]transport.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, transport.Header{Key: k, Value: p.Headers[k]})
	}
	return headers
}

// ResolveURL joins target to the profile's base URL when target has no
// scheme and starts with "/".
func (p Profile) ResolveURL(target string) string {
	if p.BaseURL == "" || !strings.HasPrefix(target, "/") {
		return target
	}
	return strings.TrimRight(p.BaseURL, "/") + target
}

// parseDurationString parses duration strings like "30s", "5m", "1h"
func parseDurationString(duration string) (time.Duration, error) {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return 0, fmt.Errorf("duration cannot be empty")
	}

	// Try parsing as Go duration
	if d, err := time.ParseDuration(duration); err == nil {
		return d, nil
	}

	// Handle additional formats like "1 minute", "30 seconds"
	duration = strings.ToLower(duration)
	duration = strings.ReplaceAll(duration, " ", "")

	// Longest words first so "seconds" is not left as "s" + "s"
	replacements := []struct{ word, abbrev string }{
		{"milliseconds", "ms"},
		{"millisecond", "ms"},
		{"seconds", "s"},
		{"second", "s"},
		{"minutes", "m"},
		{"minute", "m"},
		{"hours", "h"},
		{"hour", "h"},
	}
	for _, r := range replacements {
		duration = strings.ReplaceAll(duration, r.word, r.abbrev)
	}

	return time.ParseDuration(duration)
}

// ProcessVariables replaces {{name}} placeholders in input
func ProcessVariables(input string, vars map[string]string) string {
	result := input
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// ProcessVariablesInMap processes placeholders in every map value
func ProcessVariablesInMap(input map[string]string, vars map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	result := make(map[string]string, len(input))
	for key, value := range input {
		result[key] = ProcessVariables(value, vars)
	}
	return result
}

// MergeVariables merges two variable sets, with the second taking precedence
func MergeVariables(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}
