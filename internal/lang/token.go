// Package lang implements the Solidity front end: lexer, syntax trees, and
// the recursive-descent parser the analysis pipeline runs on. It has no
// knowledge of detectors or reports.
package lang

import "fmt"

// TokenKind classifies lexer output. Keywords are not distinguished from
// identifiers here; Solidity has many context-sensitive words (from, as,
// memory, view, ...) so the parser matches identifier text instead.
type TokenKind int

const (
	// TokenEOF marks the end of input.
	TokenEOF TokenKind = iota
	// TokenIdent is an identifier or keyword-like word.
	TokenIdent
	// TokenNumber is a decimal or hex numeric literal.
	TokenNumber
	// TokenString is a quoted string literal (including hex"..." forms).
	TokenString
	// TokenPunct is an operator or punctuation mark; Text holds its spelling.
	TokenPunct
	// TokenError is a lexical error; Text holds the message.
	TokenError
)

// Span locates a byte range in the source. Line is 1-based, Col is 0-based.
type Span struct {
	Offset  int
	End     int
	Line    int
	Col     int
	EndLine int
	EndCol  int
}

// Join extends s to cover other as well.
func (s Span) Join(other Span) Span {
	out := s

	if other.Offset < out.Offset || out.Offset == 0 && out.End == 0 {
		out.Offset = other.Offset
		out.Line = other.Line
		out.Col = other.Col
	}

	if other.End > out.End {
		out.End = other.End
		out.EndLine = other.EndLine
		out.EndCol = other.EndCol
	}

	return out
}

// Token is one lexeme with its location.
type Token struct {
	Kind TokenKind
	Text string
	Span Span
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return fmt.Sprintf("error(%s)", t.Text)
	default:
		return t.Text
	}
}

// IsPunct reports whether the token is the given punctuation spelling.
func (t Token) IsPunct(text string) bool {
	return t.Kind == TokenPunct && t.Text == text
}

// IsWord reports whether the token is an identifier with the given text.
func (t Token) IsWord(text string) bool {
	return t.Kind == TokenIdent && t.Text == text
}
