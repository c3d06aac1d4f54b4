package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/wesleyorama2/hopper/session"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateConfig checks what the schema cannot: URLs, durations, redirect
// policies and header names. Errors are ordered by profile name.
func ValidateConfig(config *Config) []ValidationError {
	var errors []ValidationError

	if len(config.Profiles) == 0 {
		errors = append(errors, ValidationError{
			Path:    "profiles",
			Message: "at least one profile is required",
		})
	}

	for _, name := range config.ProfileNames() {
		profile := config.Profiles[name]
		prefix := "profiles." + name

		if profile.BaseURL != "" {
			// Checked as the profile will use it, with variables substituted
			baseURL := ProcessVariables(profile.BaseURL, MergeVariables(config.Variables, profile.Variables))
			if strings.Contains(baseURL, "{{") {
				errors = append(errors, ValidationError{
					Path:    prefix + ".baseUrl",
					Message: fmt.Sprintf("unresolved variable in base URL: %s", baseURL),
				})
			} else if u, err := url.Parse(baseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				errors = append(errors, ValidationError{
					Path:    prefix + ".baseUrl",
					Message: fmt.Sprintf("invalid base URL: %s", baseURL),
				})
			}
		}

		if profile.Timeout != "" {
			if d, err := parseDurationString(profile.Timeout); err != nil {
				errors = append(errors, ValidationError{
					Path:    prefix + ".timeout",
					Message: fmt.Sprintf("invalid duration format '%s'", profile.Timeout),
				})
			} else if d < 0 {
				errors = append(errors, ValidationError{
					Path:    prefix + ".timeout",
					Message: "timeout cannot be negative",
				})
			}
		}

		if _, err := session.ParseRedirectPolicy(profile.RedirectPolicy); err != nil {
			errors = append(errors, ValidationError{
				Path:    prefix + ".redirectPolicy",
				Message: err.Error(),
			})
		}

		headerNames := make([]string, 0, len(profile.Headers))
		for key := range profile.Headers {
			headerNames = append(headerNames, key)
		}
		sort.Strings(headerNames)
		for _, key := range headerNames {
			if strings.TrimSpace(key) == "" || strings.ContainsAny(key, ": \t\r\n") {
				errors = append(errors, ValidationError{
					Path:    prefix + ".headers",
					Message: fmt.Sprintf("invalid header name %q", key),
				})
			}
		}
	}

	return errors
}
