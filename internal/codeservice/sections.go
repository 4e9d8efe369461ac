package codeservice

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// A section runs from its label to a blank line, a newline followed by a
// letter, or the end of the text.
var (
	analysisRe     = sectionRe("analysis|cause")
	changesRe      = sectionRe("changes|modifications")
	preventionRe   = sectionRe("prevention|tips")
	overviewRe     = sectionRe("overview|summary")
	conceptsRe     = sectionRe("concepts|patterns")
	improvementsRe = sectionRe("improvements|suggestions")

	numberedRe       = regexp.MustCompile(`^\d+\.`)
	suggestionLeadRe = regexp.MustCompile(`^[\d.\-•\s]+`)
)

func sectionRe(labels string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)(?:` + labels + `):(.*?)(?:\n\n|\n[A-Z]|$)`)
}

func sectionOr(text string, re *regexp.Regexp, fallback string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	return strings.TrimSpace(m[1])
}

// sectionLines returns the non-blank lines of a section, or an empty slice.
func sectionLines(text string, re *regexp.Regexp) []string {
	out := []string{}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return out
	}
	for _, line := range strings.Split(m[1], "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// breakdown keeps numbered lines and lines that reference a line or an arrow.
func breakdown(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if numberedRe.MatchString(line) || strings.Contains(line, "Line") || strings.Contains(line, "->") {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return []string{"Breakdown not available"}
	}
	return out
}

// ErrorKind classifies an error message.
type ErrorKind string

const (
	ErrorKindSyntax    ErrorKind = "syntax"
	ErrorKindType      ErrorKind = "type"
	ErrorKindReference ErrorKind = "reference"
	ErrorKindUndefined ErrorKind = "undefined"
	ErrorKindRuntime   ErrorKind = "runtime"
)

// ClassifyError maps a JavaScript-style error message to an ErrorKind.
func ClassifyError(msg string) ErrorKind {
	switch {
	case strings.Contains(msg, "SyntaxError"):
		return ErrorKindSyntax
	case strings.Contains(msg, "TypeError"):
		return ErrorKindType
	case strings.Contains(msg, "ReferenceError"):
		return ErrorKindReference
	case strings.Contains(msg, "undefined"):
		return ErrorKindUndefined
	default:
		return ErrorKindRuntime
	}
}

// Cursor is a zero-based line and column in a code buffer.
type Cursor struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Offset returns the byte offset of the cursor in code, clamped to the
// buffer and moved back to a rune boundary.
func (c Cursor) Offset(code string) int {
	lines := strings.Split(code, "\n")
	pos := 0
	for i := 0; i < c.Line && i < len(lines); i++ {
		pos += len(lines[i]) + 1
	}
	pos += c.Column

	if pos < 0 {
		return 0
	}
	if pos >= len(code) {
		return len(code)
	}
	for pos > 0 && !utf8.RuneStart(code[pos]) {
		pos--
	}
	return pos
}

// SuggestionKind classifies a completion.
type SuggestionKind string

const (
	SuggestionFunction SuggestionKind = "function"
	SuggestionVariable SuggestionKind = "variable"
	SuggestionImport   SuggestionKind = "import"
	SuggestionMethod   SuggestionKind = "method"
	SuggestionKeyword  SuggestionKind = "keyword"
)

// Suggestion is one completion.
type Suggestion struct {
	Text string         `json:"text"`
	Type SuggestionKind `json:"type"`
}

const maxSuggestions = 5

// ParseSuggestions reads list items (numbered, bulleted or dashed lines)
// from text and returns at most five.
func ParseSuggestions(text string) []Suggestion {
	out := []Suggestion{}
	for _, line := range strings.Split(text, "\n") {
		if !numberedRe.MatchString(line) && !strings.Contains(line, "•") && !strings.Contains(line, "-") {
			continue
		}
		s := strings.TrimSpace(suggestionLeadRe.ReplaceAllString(line, ""))
		if s == "" {
			continue
		}
		out = append(out, Suggestion{Text: s, Type: KindOf(s)})
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// KindOf guesses what a completion inserts.
func KindOf(s string) SuggestionKind {
	switch {
	case strings.Contains(s, "function"), strings.Contains(s, "()"):
		return SuggestionFunction
	case strings.Contains(s, "const"), strings.Contains(s, "let"):
		return SuggestionVariable
	case strings.Contains(s, "import"):
		return SuggestionImport
	case strings.Contains(s, "."):
		return SuggestionMethod
	default:
		return SuggestionKeyword
	}
}
