package lexer

import (
	"bufio"
	"io"
	"strconv"
	"unicode"

	"github.com/pontaoski/kaleido/types"
)

var keywords = map[string]types.TokenKind{
	"def":    types.DEF,
	"extern": types.EXTERN,
}

// Lexer turns a rune stream into tokens. It never fails: read errors end the
// stream with EOF and are reported by Err.
type Lexer struct {
	pos    types.Position
	prev   types.Position
	reader *bufio.Reader
	err    error
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

// Err returns the first non-EOF read error, if any.
func (l *Lexer) Err() error {
	return l.err
}

func (l *Lexer) newline() {
	l.pos.Line++
	l.pos.Column = 0
}

func (l *Lexer) read() (rune, bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err != io.EOF && l.err == nil {
			l.err = err
		}
		return 0, false
	}

	l.prev = l.pos
	if r == '\n' {
		l.newline()
	} else {
		l.pos.Column++
	}

	return r, true
}

// backup undoes the last successful read. Only one level is kept.
func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	l.pos = l.prev
}

func (l *Lexer) kinded(t types.TokenKind) types.Token {
	return types.Token{
		Location: types.SingleCharSpan(l.pos),
		Kind:     t,
	}
}

func firstChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func otherChar(r rune) bool {
	return firstChar(r) || unicode.IsDigit(r)
}

func numberChar(r rune) bool {
	return r == '.' || unicode.IsDigit(r)
}

// lexWhile collects first and every following rune accepted by ok.
func (l *Lexer) lexWhile(first rune, ok func(rune) bool) (string, types.Position) {
	lit := string(first)
	to := l.pos

	for {
		r, more := l.read()
		if !more {
			return lit, to
		}

		if !ok(r) {
			l.backup()
			return lit, to
		}

		lit += string(r)
		to = l.pos
	}
}

func (l *Lexer) skipComment() {
	for {
		r, more := l.read()
		if !more || r == '\n' {
			return
		}
	}
}

// Next returns the next token, or EOF once the input is exhausted.
func (l *Lexer) Next() types.Token {
	for {
		r, more := l.read()
		if !more {
			return l.kinded(types.EOF)
		}

		from := l.pos

		switch {
		case unicode.IsSpace(r):
			continue
		case r == '#':
			l.skipComment()
			continue
		case firstChar(r):
			lit, to := l.lexWhile(r, otherChar)

			kind := types.IDENT
			if kw, ok := keywords[lit]; ok {
				kind = kw
			}

			return types.Token{Kind: kind, Location: types.Span{From: from, To: to}, Text: lit}
		case numberChar(r):
			lit, to := l.lexWhile(r, numberChar)
			loc := types.Span{From: from, To: to}

			val, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return types.Token{Kind: types.ILLEGAL, Location: loc, Text: lit}
			}

			return types.Token{Kind: types.NUMBER, Location: loc, Text: lit, Value: val}
		}

		return types.Token{Kind: types.CHAR, Location: types.SingleCharSpan(from), Char: r}
	}
}

func (l *Lexer) lexToEOF() (ret []types.Token) {
	t := l.Next()
	for t.Kind != types.EOF {
		ret = append(ret, t)
		t = l.Next()
	}
	return
}
