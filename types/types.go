package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	IDENT
	NUMBER

	DEF
	EXTERN

	// CHAR is any other single character: operators and punctuation.
	CHAR
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		EOF:     "EOF",
		ILLEGAL: "ILLEGAL",
		IDENT:   "IDENT",
		NUMBER:  "NUMBER",
		DEF:     "DEF",
		EXTERN:  "EXTERN",
		CHAR:    "CHAR",
	}
	return data[t]
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

type Token struct {
	Kind     TokenKind
	Location Span

	// Text holds the identifier or keyword spelling.
	Text string
	// Value holds the parsed literal of a NUMBER token.
	Value float64
	// Char holds the character of a CHAR token.
	Char rune
}

// Is reports whether t is the single character r.
func (t Token) Is(r rune) bool {
	return t.Kind == CHAR && t.Char == r
}

func (t Token) String() string {
	switch t.Kind {
	case IDENT, DEF, EXTERN, ILLEGAL:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	case NUMBER:
		return fmt.Sprintf("%s %g", t.Kind, t.Value)
	case CHAR:
		return fmt.Sprintf("'%c'", t.Char)
	}
	return t.Kind.String()
}
