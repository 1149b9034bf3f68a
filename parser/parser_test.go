package parser

import (
	"io"
	"strings"
	"testing"

	"github.com/pontaoski/kaleido/ast"
	"github.com/pontaoski/kaleido/errors"
	"github.com/pontaoski/kaleido/lexer"
	"github.com/pontaoski/kaleido/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(src string, opts ...Option) *Parser {
	return New(lexer.NewLexer(strings.NewReader(src), "test"), opts...)
}

func parseExpr(t *testing.T, src string) string {
	t.Helper()

	p := newParser(src)
	e, err := p.ParseExpression()
	require.NoError(t, err, src)
	assert.Equal(t, types.EOF, p.Cur().Kind, "trailing input in %q", src)

	return ast.String(e)
}

func TestPrecedenceClimbing(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"1 + 2 - 3", "((1 + 2) - 3)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a < b + c * d", "(a < (b + (c * d)))"},
		{"a * b + c < d", "(((a * b) + c) < d)"},
		{"a + b * c - d", "((a + (b * c)) - d)"},
		{"a < b < c", "((a < b) < c)"},
		{"1 + 2 * 3 * 4 + 5", "((1 + ((2 * 3) * 4)) + 5)"},
		{"((x))", "x"},
		{"42", "42"},
	} {
		assert.Equal(t, tc.want, parseExpr(t, tc.src), tc.src)
	}
}

func TestCalls(t *testing.T) {
	assert.Equal(t, "foo()", parseExpr(t, "foo()"))
	assert.Equal(t, "foo(1, (a + b), bar(c))", parseExpr(t, "foo(1, a+b, bar(c))"))
	assert.Equal(t, "(foo(1) * 2)", parseExpr(t, "foo(1) * 2"))
}

func TestCustomPrecedence(t *testing.T) {
	p := newParser("1 + 2 * 3", WithPrecedence(Precedence{'+': 50, '*': 10}))
	e, err := p.ParseExpression()
	require.NoError(t, err)
	assert.Equal(t, "((1 + 2) * 3)", ast.String(e))

	p = newParser("1 / 2")
	p.SetPrecedence('/', 40)
	e, err = p.ParseExpression()
	require.NoError(t, err)
	assert.Equal(t, "(1 / 2)", ast.String(e))

	_, ok := DefaultPrecedence()['/']
	assert.False(t, ok, "SetPrecedence must not leak into the default table")
}

func TestUnlistedOperatorEndsExpression(t *testing.T) {
	p := newParser("1 + 2 / 3")
	e, err := p.ParseExpression()
	require.NoError(t, err)
	assert.Equal(t, "(1 + 2)", ast.String(e))
	assert.True(t, p.Cur().Is('/'))
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		src string
		msg string
		at  rune
	}{
		{")", "unknown token when expecting an expression", ')'},
		{"(1 + 2", "expected ')'", 0},
		{"foo(1 2)", "expected ')' or ',' in argument list", 0},
		{"foo(1,)", "unknown token when expecting an expression", ')'},
		{"1 + ", "unknown token when expecting an expression", 0},
	} {
		p := newParser(tc.src)
		_, err := p.ParseTopLevel()
		require.Error(t, err, tc.src)

		perr, ok := err.(errors.ParseError)
		require.True(t, ok, "%q: %T", tc.src, err)
		assert.Equal(t, tc.msg, perr.Msg, tc.src)
		if tc.at != 0 {
			assert.True(t, p.Cur().Is(tc.at), "%q stopped at %s", tc.src, p.Cur())
		}
	}
}

func TestIllegalNumber(t *testing.T) {
	p := newParser("1.2.3")
	_, err := p.ParseExpression()
	require.Error(t, err)
	assert.Equal(t, types.ILLEGAL, err.(errors.ParseError).Got.Kind)
}

func TestPrototype(t *testing.T) {
	p := newParser("foo(a b c)")
	proto, err := p.ParsePrototype()
	require.NoError(t, err)
	assert.Equal(t, "foo", proto.Name)
	assert.Equal(t, []string{"a", "b", "c"}, proto.Params)
	assert.Equal(t, 3, proto.Arity())

	p = newParser("foo()")
	proto, err = p.ParsePrototype()
	require.NoError(t, err)
	assert.Empty(t, proto.Params)

	for src, msg := range map[string]string{
		"(a)":       "expected function name in prototype",
		"foo a":     "expected '(' in prototype",
		"foo(a, b)": "expected ')' in prototype",
	} {
		_, err := newParser(src).ParsePrototype()
		require.Error(t, err, src)
		assert.Equal(t, msg, err.(errors.ParseError).Msg, src)
	}
}

func TestDuplicateParameter(t *testing.T) {
	_, err := newParser("def foo(a b a) a").ParseTopLevel()
	require.Error(t, err)

	dup, ok := err.(errors.DuplicateParameter)
	require.True(t, ok, "%T", err)
	assert.Equal(t, "a", dup.Name)
	assert.Equal(t, "foo", dup.Function)
}

func TestAnonymousNameIsReserved(t *testing.T) {
	for _, src := range []string{"def __anon_expr() 1", "extern __anon_expr()"} {
		p := newParser(src)
		_, err := p.ParseTopLevel()
		require.Error(t, err, src)

		perr, ok := err.(errors.ParseError)
		require.True(t, ok, "%q: %T", src, err)
		assert.Equal(t, "function name is reserved", perr.Msg, src)
		assert.Equal(t, "__anon_expr", p.Cur().Text, src)
	}
}

func TestTopLevelUnits(t *testing.T) {
	p := newParser("def add(a b) a+b extern sin(x) add(4, 5)")

	unit, err := p.ParseTopLevel()
	require.NoError(t, err)
	fn, ok := unit.(ast.Function)
	require.True(t, ok, "%T", unit)
	assert.Equal(t, "def add(a b) (a + b)", fn.String())

	unit, err = p.ParseTopLevel()
	require.NoError(t, err)
	ext, ok := unit.(ast.Extern)
	require.True(t, ok, "%T", unit)
	assert.Equal(t, "sin", ext.Proto.Name)
	assert.Equal(t, 1, ext.Proto.Arity())

	unit, err = p.ParseTopLevel()
	require.NoError(t, err)
	top, ok := unit.(ast.TopLevelExpr)
	require.True(t, ok, "%T", unit)
	assert.Equal(t, ast.AnonName, top.Proto.Name)
	assert.Empty(t, top.Proto.Params)
	assert.Equal(t, "add(4, 5)", ast.String(top.Body))

	_, err = p.ParseTopLevel()
	assert.Equal(t, io.EOF, err)
}

func TestParseAllRecovers(t *testing.T) {
	units, errs := newParser("def f(x) x; ) ; 1 + 2; extern g(").ParseAll()

	require.Len(t, units, 2)
	assert.Equal(t, "def f(x) x", units[0].(ast.Function).String())
	assert.Equal(t, "(1 + 2)", units[1].(ast.TopLevelExpr).String())
	assert.Len(t, errs, 2)
	for _, err := range errs {
		assert.True(t, errors.IsParse(err), "%v", err)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultPrecedence().Validate([]rune("<+-*")))

	err := Precedence{'+': 20, '/': 40, '%': 40, '^': 0}.Validate([]rune("<+-*"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"%/"`)
}
