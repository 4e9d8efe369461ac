package api

import (
	"regexp"
	"strings"
)

var (
	codeFencePattern = regexp.MustCompile("(?s)```.*?```")
	fenceOpenPattern = regexp.MustCompile("^```\\w*\\n?")
)

// ExtractCode returns the contents of every fenced code block in text,
// with fences and language tags removed. Text without fences is returned whole.
func ExtractCode(text string) []string {
	blocks := codeFencePattern.FindAllString(text, -1)
	if len(blocks) == 0 {
		return []string{text}
	}

	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		b = fenceOpenPattern.ReplaceAllString(b, "")
		b = strings.TrimSuffix(b, "```")
		out = append(out, b)
	}
	return out
}

// ExtractExplanation returns text with all fenced code blocks removed.
func ExtractExplanation(text string) string {
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(text, ""))
}

// DetectLanguage guesses the dominant language of a generation.
func DetectLanguage(text string) string {
	switch {
	case strings.Contains(text, "import React"), strings.Contains(text, "jsx"):
		return "javascript"
	case strings.Contains(text, "def "), strings.Contains(text, "import "):
		return "python"
	case strings.Contains(text, "public class"):
		return "java"
	case strings.Contains(text, "function"), strings.Contains(text, "const "):
		return "javascript"
	default:
		return "text"
	}
}
