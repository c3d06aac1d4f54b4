package jsonpath

import (
	"errors"
	"testing"
)

const doc = `{
	"name": "John Doe",
	"age": 30,
	"address": {"city": "Anytown"},
	"phones": [
		{"type": "home", "number": "555-1234"},
		{"type": "work", "number": "555-5678"}
	],
	"active": true,
	"scores": [10, 20, 30],
	"metadata": null
}`

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "simple property", path: "$.name", expected: "John Doe"},
		{name: "number", path: "$.age", expected: "30"},
		{name: "boolean", path: "$.active", expected: "true"},
		{name: "null", path: "$.metadata", expected: "null"},
		{name: "nested", path: "$.address.city", expected: "Anytown"},
		{name: "array index", path: "$.phones[1].number", expected: "555-5678"},
		{name: "bracket quotes", path: "$['address']['city']", expected: "Anytown"},
		{name: "double quotes", path: `$["name"]`, expected: "John Doe"},
		{name: "raw array", path: "$.scores", expected: "[10, 20, 30]"},
		{name: "gjson syntax", path: "scores.#", expected: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract([]byte(doc), tt.path)
			if err != nil {
				t.Fatalf("Extract(%q) returned error: %v", tt.path, err)
			}
			if got != tt.expected {
				t.Errorf("Extract(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestExtract_Root(t *testing.T) {
	got, err := Extract([]byte(`[1,2]`), "$")
	if err != nil || got != "[1,2]" {
		t.Errorf("Extract($) = %q, %v; want [1,2]", got, err)
	}

	got, err = Extract([]byte(`[1,2]`), "$[1]")
	if err != nil || got != "2" {
		t.Errorf("Extract($[1]) = %q, %v; want 2", got, err)
	}
}

func TestExtract_Errors(t *testing.T) {
	if _, err := Extract([]byte(doc), "$.missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := Extract([]byte("<html>"), "$.name"); !errors.Is(err, ErrNotJSON) {
		t.Errorf("Expected ErrNotJSON, got %v", err)
	}
	if _, err := Extract([]byte(doc), ""); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestExtractAll(t *testing.T) {
	matches := ExtractAll([]byte(doc), []string{"$.name", "$.nope", "$.age"})
	if len(matches) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(matches))
	}

	if matches[0].Value != "John Doe" || matches[0].Err != nil {
		t.Errorf("Unexpected first match: %+v", matches[0])
	}
	if !errors.Is(matches[1].Err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for $.nope, got %v", matches[1].Err)
	}
	if matches[2].Value != "30" {
		t.Errorf("Expected age 30, got %q", matches[2].Value)
	}
}
