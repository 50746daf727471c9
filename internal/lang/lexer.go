package lang

import "strings"

// operator spellings ordered longest-first for maximal munch.
var operators = []string{
	"<<=", ">>=",
	"=>", "++", "--", "**", "==", "!=", "<=", ">=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "|=", "&=", "^=", "<<", ">>",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "~", "&", "|", "^",
	"?", ":", ";", ",", ".", "(", ")", "[", "]", "{", "}",
}

// Lexer turns Solidity source text into tokens. Comments and whitespace are
// skipped; raw text stays available to callers that need it (SPDX and TODO
// checks read the file content directly).
type Lexer struct {
	src  string
	off  int
	line int
	col  int
}

// NewLexer creates a Lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize scans the entire input. The last token is TokenEOF unless a
// lexical error cut scanning short, in which case it is TokenError.
func Tokenize(src string) []Token {
	lx := NewLexer(src)
	tokens := make([]Token, 0, len(src)/8+1)

	for {
		tok := lx.Next()
		tokens = append(tokens, tok)

		if tok.Kind == TokenEOF || tok.Kind == TokenError {
			return tokens
		}
	}
}

// Next returns the next token.
func (lx *Lexer) Next() Token {
	if err := lx.skipSpace(); err != "" {
		return lx.errorToken(err)
	}

	if lx.off >= len(lx.src) {
		return Token{Kind: TokenEOF, Span: lx.pointSpan()}
	}

	ch := lx.src[lx.off]

	switch {
	case isIdentStart(ch):
		return lx.scanWord()
	case ch >= '0' && ch <= '9':
		return lx.scanNumber()
	case ch == '.' && lx.off+1 < len(lx.src) && isDigit(lx.src[lx.off+1]):
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString(ch)
	}

	return lx.scanOperator()
}

func (lx *Lexer) skipSpace() string {
	for lx.off < len(lx.src) {
		ch := lx.src[lx.off]

		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			lx.advance(1)
		case ch == '\n':
			lx.advance(1)
		case ch == '/' && lx.off+1 < len(lx.src) && lx.src[lx.off+1] == '/':
			for lx.off < len(lx.src) && lx.src[lx.off] != '\n' {
				lx.advance(1)
			}
		case ch == '/' && lx.off+1 < len(lx.src) && lx.src[lx.off+1] == '*':
			end := strings.Index(lx.src[lx.off+2:], "*/")
			if end < 0 {
				lx.advanceTo(len(lx.src))
				return "unterminated block comment"
			}

			lx.advanceTo(lx.off + 2 + end + 2)
		default:
			return ""
		}
	}

	return ""
}

func (lx *Lexer) scanWord() Token {
	start := lx.mark()

	for lx.off < len(lx.src) && isIdentPart(lx.src[lx.off]) {
		lx.advance(1)
	}

	text := lx.src[start.Offset:lx.off]

	// hex"..." and unicode"..." attach a string body directly to the word.
	if (text == "hex" || text == "unicode") && lx.off < len(lx.src) {
		if quote := lx.src[lx.off]; quote == '"' || quote == '\'' {
			str := lx.scanString(quote)
			if str.Kind == TokenError {
				return str
			}

			return Token{Kind: TokenString, Text: str.Text, Span: lx.spanFrom(start)}
		}
	}

	return Token{Kind: TokenIdent, Text: text, Span: lx.spanFrom(start)}
}

func (lx *Lexer) scanNumber() Token {
	start := lx.mark()

	if strings.HasPrefix(lx.src[lx.off:], "0x") || strings.HasPrefix(lx.src[lx.off:], "0X") {
		lx.advance(2)
		for lx.off < len(lx.src) && (isHexDigit(lx.src[lx.off]) || lx.src[lx.off] == '_') {
			lx.advance(1)
		}

		return Token{Kind: TokenNumber, Text: lx.src[start.Offset:lx.off], Span: lx.spanFrom(start)}
	}

	seenDot := false
	seenExp := false

	for lx.off < len(lx.src) {
		ch := lx.src[lx.off]

		switch {
		case isDigit(ch) || ch == '_':
			lx.advance(1)
		case ch == '.' && !seenDot && !seenExp && lx.off+1 < len(lx.src) && isDigit(lx.src[lx.off+1]):
			seenDot = true
			lx.advance(1)
		case (ch == 'e' || ch == 'E') && !seenExp && lx.off+1 < len(lx.src):
			next := lx.src[lx.off+1]
			if isDigit(next) {
				seenExp = true
				lx.advance(1)
			} else if (next == '+' || next == '-') && lx.off+2 < len(lx.src) && isDigit(lx.src[lx.off+2]) {
				seenExp = true
				lx.advance(2)
			} else {
				return Token{Kind: TokenNumber, Text: lx.src[start.Offset:lx.off], Span: lx.spanFrom(start)}
			}
		default:
			return Token{Kind: TokenNumber, Text: lx.src[start.Offset:lx.off], Span: lx.spanFrom(start)}
		}
	}

	return Token{Kind: TokenNumber, Text: lx.src[start.Offset:lx.off], Span: lx.spanFrom(start)}
}

func (lx *Lexer) scanString(quote byte) Token {
	start := lx.mark()
	lx.advance(1)

	var sb strings.Builder

	for lx.off < len(lx.src) {
		ch := lx.src[lx.off]

		switch ch {
		case quote:
			lx.advance(1)
			return Token{Kind: TokenString, Text: sb.String(), Span: lx.spanFrom(start)}
		case '\\':
			if lx.off+1 < len(lx.src) {
				sb.WriteByte(lx.src[lx.off+1])
				lx.advance(2)
				continue
			}

			lx.advance(1)
		case '\n':
			return lx.errorToken("unterminated string literal")
		default:
			sb.WriteByte(ch)
			lx.advance(1)
		}
	}

	return lx.errorToken("unterminated string literal")
}

func (lx *Lexer) scanOperator() Token {
	start := lx.mark()
	rest := lx.src[lx.off:]

	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			lx.advance(len(op))
			return Token{Kind: TokenPunct, Text: op, Span: lx.spanFrom(start)}
		}
	}

	lx.advance(1)

	return lx.errorToken("unexpected character " + string(lx.src[start.Offset]))
}

type lexMark struct {
	Offset int
	Line   int
	Col    int
}

func (lx *Lexer) mark() lexMark {
	return lexMark{Offset: lx.off, Line: lx.line, Col: lx.col}
}

func (lx *Lexer) spanFrom(start lexMark) Span {
	return Span{
		Offset:  start.Offset,
		End:     lx.off,
		Line:    start.Line,
		Col:     start.Col,
		EndLine: lx.line,
		EndCol:  lx.col,
	}
}

func (lx *Lexer) pointSpan() Span {
	return Span{Offset: lx.off, End: lx.off, Line: lx.line, Col: lx.col, EndLine: lx.line, EndCol: lx.col}
}

func (lx *Lexer) errorToken(msg string) Token {
	return Token{Kind: TokenError, Text: msg, Span: lx.pointSpan()}
}

func (lx *Lexer) advance(n int) {
	lx.advanceTo(lx.off + n)
}

func (lx *Lexer) advanceTo(target int) {
	if target > len(lx.src) {
		target = len(lx.src)
	}

	for lx.off < target {
		if lx.src[lx.off] == '\n' {
			lx.line++
			lx.col = 0
		} else {
			lx.col++
		}

		lx.off++
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}
