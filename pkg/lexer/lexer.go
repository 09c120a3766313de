// Package lexer converts raw submission text into a token stream. It never
// fails: malformed input becomes invalid-kind tokens with diagnostics
// attached, so downstream passes can still inspect every byte of the source.
package lexer

import (
	"fmt"
	"strings"

	"github.com/graderd/lumen/pkg/report"
	"github.com/graderd/lumen/pkg/token"
)

// Lexer scans a single source text. Each Lexer is single-use and carries no
// cross-call state; create a fresh one per analysis request.
type Lexer struct {
	src  string
	pos  int // byte offset of next unread character
	line int
	col  int

	comments []token.Token
	diags    []report.Diagnostic
}

// New creates a lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize scans the whole source. It returns the parser-facing token stream
// (comments excluded, EOF sentinel last), the comment side channel for fraud
// inspection, and any lexical diagnostics.
func Tokenize(src string) (tokens, comments []token.Token, diags []report.Diagnostic) {
	l := New(src)
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, l.Comments(), l.Diagnostics()
}

// Comments returns the comment tokens seen so far, in source order.
func (l *Lexer) Comments() []token.Token {
	return l.comments
}

// Diagnostics returns the lexical diagnostics accumulated so far.
func (l *Lexer) Diagnostics() []report.Diagnostic {
	return l.diags
}

// Next returns the next non-comment token. After the source is exhausted it
// returns EOF tokens indefinitely.
func (l *Lexer) Next() token.Token {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return l.make(token.EOF, l.pos)
		}

		c := l.src[l.pos]
		if c == '/' && l.pos+1 < len(l.src) && (l.src[l.pos+1] == '/' || l.src[l.pos+1] == '*') {
			l.comments = append(l.comments, l.scanComment())
			continue
		}

		switch {
		case isIdentStart(c):
			return l.scanIdent()
		case isDigit(c):
			return l.scanNumber()
		case c == '"':
			return l.scanString()
		case c == '\'':
			return l.scanChar()
		default:
			return l.scanOperator()
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
			l.col++
		case '\n':
			l.pos++
			l.line++
			l.col = 1
		default:
			return
		}
	}
}

// make builds a token whose lexeme is src[start:l.pos] and advances the
// column counter past it. Multi-line lexemes update the line counter too.
func (l *Lexer) make(t token.Type, start int) token.Token {
	lexeme := l.src[start:l.pos]
	tok := token.Token{
		Type:   t,
		Kind:   t.Kind(),
		Lexeme: lexeme,
		Pos:    token.Position{Line: l.line, Column: l.col, Offset: start},
		Length: len(lexeme),
	}
	if nl := strings.Count(lexeme, "\n"); nl > 0 {
		l.line += nl
		l.col = len(lexeme) - strings.LastIndexByte(lexeme, '\n')
	} else {
		l.col += len(lexeme)
	}
	return tok
}

func (l *Lexer) scanIdent() token.Token {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	// Reserved words are checked before generic identifiers.
	return l.make(token.Lookup(l.src[start:l.pos]), start)
}

func (l *Lexer) scanNumber() token.Token {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	t := token.IntLit
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		t = token.FloatLit
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	return l.make(t, start)
}

// scanString scans a double-quoted literal with escape handling. An
// unterminated literal becomes one invalid token spanning to end-of-line,
// with a diagnostic, never a failure.
func (l *Lexer) scanString() token.Token {
	return l.scanQuoted('"', token.StringLit, "string")
}

func (l *Lexer) scanChar() token.Token {
	return l.scanQuoted('\'', token.CharLit, "char")
}

func (l *Lexer) scanQuoted(quote byte, t token.Type, what string) token.Token {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\n' {
			break
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos += 2
			continue
		}
		l.pos++
		if c == quote {
			return l.make(t, start)
		}
	}
	tok := l.make(token.Invalid, start)
	l.errorf(tok.Span(), "unterminated %s literal", what)
	return tok
}

func (l *Lexer) scanComment() token.Token {
	start := l.pos
	if l.src[l.pos+1] == '/' {
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		return l.make(token.Comment, start)
	}
	l.pos += 2 // consume /*
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
			l.pos += 2
			return l.make(token.Comment, start)
		}
		l.pos++
	}
	tok := l.make(token.Invalid, start)
	l.errorf(tok.Span(), "unterminated block comment")
	return tok
}

// operators, longest match first within each leading character.
var operators = []struct {
	text string
	t    token.Type
}{
	{"==", token.Eq}, {"!=", token.NotEq}, {"<=", token.LessEq}, {">=", token.GreaterEq},
	{"&&", token.AndAnd}, {"||", token.OrOr},
	{"++", token.PlusPlus}, {"--", token.MinusMinus},
	{"+=", token.PlusEq}, {"-=", token.MinusEq}, {"*=", token.StarEq}, {"/=", token.SlashEq},
	{"+", token.Plus}, {"-", token.Minus}, {"*", token.Star}, {"/", token.Slash},
	{"%", token.Percent}, {"=", token.Assign}, {"<", token.Less}, {">", token.Greater},
	{"!", token.Not},
	{"(", token.LParen}, {")", token.RParen}, {"{", token.LBrace}, {"}", token.RBrace},
	{"[", token.LBracket}, {"]", token.RBracket},
	{";", token.Semicolon}, {",", token.Comma}, {".", token.Dot},
}

func (l *Lexer) scanOperator() token.Token {
	rest := l.src[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			start := l.pos
			l.pos += len(op.text)
			return l.make(op.t, start)
		}
	}
	// No rule matches: emit an invalid token rather than dropping the byte,
	// so fraud detection can inspect it.
	start := l.pos
	l.pos++
	tok := l.make(token.Invalid, start)
	l.errorf(tok.Span(), "invalid character %q", tok.Lexeme)
	return tok
}

func (l *Lexer) errorf(span token.Span, format string, args ...any) {
	l.diags = append(l.diags, report.Diagnostic{
		Severity: report.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
		Stage:    "lex",
	})
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
