package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no fences returns whole text",
			text: "just prose",
			want: []string{"just prose"},
		},
		{
			name: "single fenced block with language tag",
			text: "intro\n```go\npackage main\n```\noutro",
			want: []string{"package main\n"},
		},
		{
			name: "multiple blocks",
			text: "```js\na()\n```\nand\n```\nb()\n```",
			want: []string{"a()\n", "b()\n"},
		},
		{
			name: "json fence",
			text: "plan:\n```json\n{\"taskType\": \"debugging\"}\n```",
			want: []string{"{\"taskType\": \"debugging\"}\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCode(tt.text)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) || len(got) != len(tt.want) {
				t.Errorf("ExtractCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractExplanation(t *testing.T) {
	got := ExtractExplanation("  Before\n```py\nx = 1\n```\nAfter  ")
	if got != "Before\n\nAfter" {
		t.Errorf("ExtractExplanation() = %q", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"import React from 'react'", "javascript"},
		{"render <App/> with jsx", "javascript"},
		{"def main():\n    pass", "python"},
		{"import os", "python"},
		{"public class Main {}", "java"},
		{"function go() {}", "javascript"},
		{"const x = 1", "javascript"},
		{"SELECT 1", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.text, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrRateLimited, true},
		{"wrapped sentinel", fmt.Errorf("call: %w", ErrRateLimited), true},
		{"message match", errors.New("Bedrock API error: Too many requests, please wait"), true},
		{"throttling wrapped by gateway", wrapGatewayError(errors.New("ThrottlingException: slow down")), true},
		{"other failure", errors.New("access denied"), false},
		{"other gateway failure", wrapGatewayError(errors.New("access denied")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.err); got != tt.want {
				t.Errorf("IsRateLimited(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c := DefaultCatalog()

	id, err := c.Resolve("claude-3-haiku")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if id != "anthropic.claude-3-haiku-20240307-v1:0" {
		t.Errorf("Resolve(claude-3-haiku) = %q", id)
	}

	if _, err := c.Resolve("nope"); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("Resolve(nope) err = %v, want ErrUnknownModel", err)
	}

	models := c.Models()
	if len(models) == 0 || models[0].ID != DefaultModel {
		t.Fatalf("first model = %+v, want %s", models, DefaultModel)
	}
	for _, m := range models {
		if m.Provider != "Anthropic" || m.Name == "" {
			t.Errorf("model %+v missing provider or name", m)
		}
	}
}
