package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenIs(t *testing.T) {
	assert.True(t, Token{Kind: CHAR, Char: '('}.Is('('))
	assert.False(t, Token{Kind: CHAR, Char: ')'}.Is('('))
	assert.False(t, Token{Kind: IDENT, Text: "("}.Is('('))
}

func TestSpanString(t *testing.T) {
	s := Span{
		From: Position{Line: 1, Column: 2, Filename: "a.kal"},
		To:   Position{Line: 1, Column: 5, Filename: "a.kal"},
	}
	assert.Equal(t, "a.kal:1:2-1:5", s.String())
	assert.Equal(t, "<unknown>:3:4", Position{Line: 3, Column: 4}.String())
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, `IDENT "foo"`, Token{Kind: IDENT, Text: "foo"}.String())
	assert.Equal(t, "NUMBER 1.5", Token{Kind: NUMBER, Value: 1.5}.String())
	assert.Equal(t, "'+'", Token{Kind: CHAR, Char: '+'}.String())
	assert.Equal(t, "EOF", Token{Kind: EOF}.String())
}
