package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, Class, Lookup("class"))
	assert.Equal(t, While, Lookup("while"))
	assert.Equal(t, True, Lookup("true"))
	assert.Equal(t, Ident, Lookup("className"))
	assert.Equal(t, Ident, Lookup("Class")) // case-sensitive
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		typ  Type
		kind Kind
	}{
		{Class, KindKeyword},
		{Ident, KindIdentifier},
		{IntLit, KindLiteral},
		{StringLit, KindLiteral},
		{True, KindKeyword},
		{Plus, KindOperator},
		{LParen, KindPunctuation},
		{Comment, KindComment},
		{Invalid, KindInvalid},
		{EOF, KindEOF},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, tc.typ.Kind(), "type %v", tc.typ)
	}
}

func TestIsTypeKeyword(t *testing.T) {
	for _, typ := range []Type{Void, Int, Long, Float, Double, Boolean, Char} {
		assert.True(t, typ.IsTypeKeyword(), "%v", typ)
	}
	assert.False(t, Class.IsTypeKeyword())
	assert.False(t, Ident.IsTypeKeyword())
}

func TestIsLiteral(t *testing.T) {
	for _, typ := range []Type{IntLit, FloatLit, StringLit, CharLit, True, False, Null} {
		assert.True(t, typ.IsLiteral(), "%v", typ)
	}
	assert.False(t, Ident.IsLiteral())
}

func TestPositionBefore(t *testing.T) {
	a := Position{Line: 1, Column: 5, Offset: 4}
	b := Position{Line: 2, Column: 1, Offset: 10}
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}

func TestTokenSpan(t *testing.T) {
	tok := Token{
		Type:   Ident,
		Kind:   KindIdentifier,
		Lexeme: "count",
		Pos:    Position{Line: 3, Column: 9, Offset: 40},
		Length: 5,
	}
	span := tok.Span()
	assert.Equal(t, 40, span.Start.Offset)
	assert.Equal(t, 45, span.End.Offset)
	assert.Equal(t, 3, span.End.Line)
	assert.Equal(t, 14, span.End.Column)
}
