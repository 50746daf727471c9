package model

import "strings"

// SnippetUnavailable is the snippet placeholder used when a location's line
// cannot be recovered from the source text.
const SnippetUnavailable = "<code snippet unavailable>"

// Location pinpoints a span of source text. Line numbers are 1-based,
// columns are 0-based; EndLine/EndColumn are zero when the span covers a
// single point.
type Location struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"end_line,omitempty"`
	EndColumn int    `json:"end_column,omitempty"`
	Snippet   string `json:"snippet,omitempty"`
}

// Before reports whether l starts strictly before other, comparing file,
// then line, then column.
func (l Location) Before(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}

	if l.Line != other.Line {
		return l.Line < other.Line
	}

	return l.Column < other.Column
}

// SnippetAt extracts the trimmed source line for a 1-based line number.
func SnippetAt(content string, line int) string {
	if line < 1 {
		return SnippetUnavailable
	}

	rest := content
	for i := 1; i < line; i++ {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			return SnippetUnavailable
		}

		rest = rest[idx+1:]
	}

	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}

	snippet := strings.TrimSpace(rest)
	if snippet == "" {
		return SnippetUnavailable
	}

	return snippet
}
