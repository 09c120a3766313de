// Package token defines the lexical tokens of the submission language, a
// Java-like teaching subset.
package token

import "fmt"

// Type identifies a precise token type. The parser dispatches on Type; the
// coarser Kind is what reports and the fraud pass care about.
type Type int

const (
	EOF Type = iota
	Invalid
	Comment

	// Literals
	IntLit
	FloatLit
	StringLit
	CharLit

	Ident

	// Keywords
	Class
	Public
	Private
	Protected
	Static
	Final
	Void
	Int
	Long
	Float
	Double
	Boolean
	Char
	If
	Else
	While
	For
	Return
	New
	Break
	Continue
	True
	False
	Null

	// Operators
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Percent  // %
	Assign   // =
	PlusEq   // +=
	MinusEq  // -=
	StarEq   // *=
	SlashEq  // /=
	Eq       // ==
	NotEq    // !=
	Less     // <
	LessEq   // <=
	Greater  // >
	GreaterEq // >=
	AndAnd   // &&
	OrOr     // ||
	Not      // !
	PlusPlus // ++
	MinusMinus // --

	// Punctuation
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Semicolon // ;
	Comma     // ,
	Dot       // .
)

// Kind is the coarse token classification used in reports.
type Kind string

const (
	KindKeyword     Kind = "keyword"
	KindIdentifier  Kind = "identifier"
	KindLiteral     Kind = "literal"
	KindOperator    Kind = "operator"
	KindPunctuation Kind = "punctuation"
	KindComment     Kind = "comment"
	KindInvalid     Kind = "invalid"
	KindEOF         Kind = "eof"
)

// String implements fmt.Stringer for toon serialization.
func (k Kind) String() string { return string(k) }

// Kind maps a token type to its coarse classification.
func (t Type) Kind() Kind {
	switch {
	case t == EOF:
		return KindEOF
	case t == Invalid:
		return KindInvalid
	case t == Comment:
		return KindComment
	case t >= IntLit && t <= CharLit:
		return KindLiteral
	case t == Ident:
		return KindIdentifier
	case t >= Class && t <= Null:
		return KindKeyword
	case t >= Plus && t <= MinusMinus:
		return KindOperator
	default:
		return KindPunctuation
	}
}

// IsTypeKeyword reports whether the token names a primitive type.
func (t Type) IsTypeKeyword() bool {
	return t >= Void && t <= Char
}

// IsLiteral reports whether the token is a literal, including the keyword
// literals true, false, and null.
func (t Type) IsLiteral() bool {
	return (t >= IntLit && t <= CharLit) || t == True || t == False || t == Null
}

var typeNames = map[Type]string{
	EOF: "EOF", Invalid: "INVALID", Comment: "COMMENT",
	IntLit: "INT_LIT", FloatLit: "FLOAT_LIT", StringLit: "STRING_LIT", CharLit: "CHAR_LIT",
	Ident: "IDENT",
	Class: "class", Public: "public", Private: "private", Protected: "protected",
	Static: "static", Final: "final", Void: "void", Int: "int", Long: "long",
	Float: "float", Double: "double", Boolean: "boolean", Char: "char",
	If: "if", Else: "else", While: "while", For: "for", Return: "return",
	New: "new", Break: "break", Continue: "continue",
	True: "true", False: "false", Null: "null",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Assign: "=", PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=",
	Eq: "==", NotEq: "!=", Less: "<", LessEq: "<=", Greater: ">", GreaterEq: ">=",
	AndAnd: "&&", OrOr: "||", Not: "!", PlusPlus: "++", MinusMinus: "--",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]", Semicolon: ";", Comma: ",", Dot: ".",
}

// String returns the source text for fixed tokens and a symbolic name for
// the variable ones.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

var keywords = map[string]Type{
	"class": Class, "public": Public, "private": Private, "protected": Protected,
	"static": Static, "final": Final, "void": Void, "int": Int, "long": Long,
	"float": Float, "double": Double, "boolean": Boolean, "char": Char,
	"if": If, "else": Else, "while": While, "for": For, "return": Return,
	"new": New, "break": Break, "continue": Continue,
	"true": True, "false": False, "null": Null,
}

// Lookup resolves an identifier to its keyword type, or Ident if it is not
// a reserved word. Keywords are checked before identifiers per the lexical
// rules.
func Lookup(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return Ident
}

// Position is a location in submission source. Line and Column are 1-based;
// Offset is a 0-based byte offset.
type Position struct {
	Line   int `json:"line" toon:"line"`
	Column int `json:"column" toon:"column"`
	Offset int `json:"offset" toon:"offset"`
}

// String formats the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p precedes q in source order.
func (p Position) Before(q Position) bool {
	return p.Offset < q.Offset
}

// Span is a half-open [Start, End) source range.
type Span struct {
	Start Position `json:"start" toon:"start"`
	End   Position `json:"end" toon:"end"`
}

// String formats the span as start-end.
func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Token is a single lexical token. Tokens are immutable values; the lexeme
// is the verbatim source slice, so concatenating lexemes and whitespace
// gaps reconstructs the input exactly.
type Token struct {
	Type   Type     `json:"-" toon:"-"`
	Kind   Kind     `json:"kind" toon:"kind"`
	Lexeme string   `json:"lexeme" toon:"lexeme"`
	Pos    Position `json:"pos" toon:"pos"`
	Length int      `json:"length" toon:"length"`
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{
		Start: t.Pos,
		End: Position{
			Line:   t.Pos.Line,
			Column: t.Pos.Column + t.Length,
			Offset: t.Pos.Offset + t.Length,
		},
	}
}

// String formats the token for diagnostics.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Kind, t.Lexeme, t.Pos)
}
