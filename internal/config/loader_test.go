package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/wesleyorama2/hopper/session"
	"github.com/wesleyorama2/hopper/transport"
)

const sampleYAML = `
variables:
  host: api.example.com
  token: abc
profiles:
  dev:
    baseUrl: https://{{host}}/v1
    timeout: 5 seconds
    maxRedirects: 3
    redirectPolicy: rfc7231
    autoReferer: true
    headers:
      Authorization: Bearer {{token}}
      Accept: application/json
    cookies:
      session: "{{token}}"
  prod:
    baseUrl: https://{{host}}
    insecure: true
    noFollow: true
    variables:
      host: prod.example.com
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func mustProfile(t *testing.T, config *Config, name string) Profile {
	t.Helper()
	p, err := config.Profile(name)
	if err != nil {
		t.Fatalf("Profile(%q) returned error: %v", name, err)
	}
	return p
}

func TestLoadConfig_YAML(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "hopper.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if names := config.ProfileNames(); !reflect.DeepEqual(names, []string{"dev", "prod"}) {
		t.Errorf("Expected profiles [dev prod], got %v", names)
	}

	dev := mustProfile(t, config, "dev")
	if dev.BaseURL != "https://api.example.com/v1" {
		t.Errorf("Unexpected dev base URL: %s", dev.BaseURL)
	}
	if dev.Headers["Authorization"] != "Bearer abc" {
		t.Errorf("Unexpected Authorization header: %s", dev.Headers["Authorization"])
	}
	if dev.Cookies["session"] != "abc" {
		t.Errorf("Unexpected session cookie: %s", dev.Cookies["session"])
	}

	prod := mustProfile(t, config, "prod")
	if prod.BaseURL != "https://prod.example.com" {
		t.Errorf("Unexpected prod base URL: %s", prod.BaseURL)
	}
	if !prod.Insecure || !prod.NoFollow {
		t.Errorf("Expected insecure and noFollow on prod, got %+v", prod)
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	content := `{
		"variables": { "port": "8080" },
		"profiles": {
			"local": {
				"baseUrl": "http://localhost:{{port}}",
				"headers": { "Accept": "text/plain" }
			}
		}
	}`
	config, err := LoadConfig(writeConfig(t, "hopper.json", content))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	local := mustProfile(t, config, "local")
	if local.BaseURL != "http://localhost:8080" {
		t.Errorf("Unexpected base URL: %s", local.BaseURL)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "unknown profile field",
			file:    "c.json",
			content: `{"profiles": {"a": {"retries": 3}}}`,
			wantErr: "does not match schema",
		},
		{
			name:    "no profiles",
			file:    "c.json",
			content: `{"profiles": {}}`,
			wantErr: "does not match schema",
		},
		{
			name:    "bad policy",
			file:    "c.yml",
			content: "profiles:\n  a:\n    redirectPolicy: always\n",
			wantErr: "does not match schema",
		},
		{
			name:    "bad base url",
			file:    "c.json",
			content: `{"profiles": {"a": {"baseUrl": "ftp://x"}}}`,
			wantErr: "profiles.a.baseUrl",
		},
		{
			name:    "undefined base url variable",
			file:    "c.yaml",
			content: "profiles:\n  a:\n    baseUrl: https://{{host}}\n",
			wantErr: "unresolved variable",
		},
		{
			name:    "bad timeout",
			file:    "c.json",
			content: `{"profiles": {"a": {"timeout": "soon"}}}`,
			wantErr: "profiles.a.timeout",
		},
		{
			name:    "broken yaml",
			file:    "c.yaml",
			content: "profiles: [",
			wantErr: "error parsing config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Expected config file not found error, got %v", err)
	}
}

func TestConfig_UnknownProfile(t *testing.T) {
	config, err := ParseConfig([]byte(sampleYAML), true)
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}

	_, err = config.Profile("staging")
	if err == nil || !strings.Contains(err.Error(), "available: dev, prod") {
		t.Errorf("Expected error listing available profiles, got %v", err)
	}
}

func TestProfile_SessionOptions(t *testing.T) {
	config, err := ParseConfig([]byte(sampleYAML), true)
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	dev := mustProfile(t, config, "dev")

	opts, err := dev.SessionOptions()
	if err != nil {
		t.Fatalf("SessionOptions returned error: %v", err)
	}
	if opts.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", opts.Timeout)
	}
	if opts.MaxRedirects != 3 {
		t.Errorf("Expected 3 max redirects, got %d", opts.MaxRedirects)
	}
	if opts.RedirectPolicy != session.RedirectRFC7231 {
		t.Errorf("Expected rfc7231 policy, got %v", opts.RedirectPolicy)
	}
	if !opts.AutoReferer {
		t.Error("Expected AutoReferer")
	}
	if opts.InsecureSkipVerify {
		t.Error("Expected InsecureSkipVerify to be false")
	}
}

func TestProfile_HeaderList(t *testing.T) {
	p := Profile{Headers: map[string]string{"X-B": "2", "Accept": "*/*", "X-A": "1"}}
	want := []transport.Header{
		{Key: "Accept", Value: "*/*"},
		{Key: "X-A", Value: "1"},
		{Key: "X-B", Value: "2"},
	}
	if got := p.HeaderList(); !reflect.DeepEqual(got, want) {
		t.Errorf("HeaderList() = %v, want %v", got, want)
	}
	if got := (Profile{}).HeaderList(); len(got) != 0 {
		t.Errorf("Expected no headers, got %v", got)
	}
}

func TestProfile_ResolveURL(t *testing.T) {
	p := Profile{BaseURL: "https://api.example.com/v1/"}
	tests := []struct {
		profile Profile
		target  string
		want    string
	}{
		{p, "/users", "https://api.example.com/v1/users"},
		{p, "https://other.example.com/", "https://other.example.com/"},
		{Profile{}, "/users", "/users"},
	}
	for _, tt := range tests {
		if got := tt.profile.ResolveURL(tt.target); got != tt.want {
			t.Errorf("ResolveURL(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestParseDurationString(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "30s", want: 30 * time.Second},
		{input: "1 minute", want: time.Minute},
		{input: "2 hours", want: 2 * time.Hour},
		{input: "500 milliseconds", want: 500 * time.Millisecond},
		{input: "", wantErr: true},
		{input: "later", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDurationString(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDurationString(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseDurationString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestProcessVariables(t *testing.T) {
	vars := map[string]string{"id": "7", "name": "ann"}
	if got := ProcessVariables("/users/{{id}}/{{name}}", vars); got != "/users/7/ann" {
		t.Errorf("Unexpected substitution: %s", got)
	}
	if got := ProcessVariables("{{missing}}", vars); got != "{{missing}}" {
		t.Errorf("Expected unknown placeholder kept, got %s", got)
	}
	if got := ProcessVariablesInMap(nil, vars); got != nil {
		t.Errorf("Expected nil map, got %v", got)
	}
	got := ProcessVariablesInMap(map[string]string{"k": "{{id}}"}, vars)
	if !reflect.DeepEqual(got, map[string]string{"k": "7"}) {
		t.Errorf("Unexpected map substitution: %v", got)
	}
}

func TestMergeVariables(t *testing.T) {
	merged := MergeVariables(map[string]string{"a": "1", "b": "2"}, map[string]string{"b": "3"})
	if !reflect.DeepEqual(merged, map[string]string{"a": "1", "b": "3"}) {
		t.Errorf("Unexpected merge result: %v", merged)
	}
}
