package parser

import (
	"io"
	"unicode"

	"github.com/pontaoski/kaleido/ast"
	"github.com/pontaoski/kaleido/errors"
	"github.com/pontaoski/kaleido/types"
)

// TokenSource is a pull lexer. After the input is exhausted it keeps
// returning EOF.
type TokenSource interface {
	Next() types.Token
}

// Parser holds exactly one token of lookahead. When a parse method fails the
// current token is the one that could not be consumed; Skip moves past it.
type Parser struct {
	src  TokenSource
	cur  types.Token
	prec Precedence
}

type Option func(*Parser)

// WithPrecedence replaces the default operator table. The table is copied.
func WithPrecedence(prec Precedence) Option {
	return func(p *Parser) {
		p.prec = prec.Copy()
	}
}

func New(src TokenSource, opts ...Option) *Parser {
	p := &Parser{
		src:  src,
		prec: DefaultPrecedence(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.next()
	return p
}

func (p *Parser) next() types.Token {
	p.cur = p.src.Next()
	return p.cur
}

// Cur returns the token the parser is looking at.
func (p *Parser) Cur() types.Token {
	return p.cur
}

// Skip consumes the current token.
func (p *Parser) Skip() {
	p.next()
}

// SetPrecedence installs or changes a binary operator. A precedence of zero
// or less removes it.
func (p *Parser) SetPrecedence(op rune, prec int) {
	p.prec[op] = prec
}

func (p *Parser) Precedence() Precedence {
	return p.prec
}

func (p *Parser) tokPrecedence() int {
	if p.cur.Kind != types.CHAR || p.cur.Char > unicode.MaxASCII {
		return -1
	}
	return p.prec.Of(p.cur.Char)
}

func (p *Parser) fail(msg string) error {
	return errors.NewParseError(msg, p.cur)
}

// ParseTopLevel parses one definition, extern or expression. It returns
// io.EOF once the input is exhausted.
func (p *Parser) ParseTopLevel() (ast.Unit, error) {
	switch p.cur.Kind {
	case types.EOF:
		return nil, io.EOF
	case types.DEF:
		fn, err := p.ParseDefinition()
		if err != nil {
			return nil, err
		}
		return fn, nil
	case types.EXTERN:
		ext, err := p.ParseExtern()
		if err != nil {
			return nil, err
		}
		return ext, nil
	}

	top, err := p.ParseTopLevelExpr()
	if err != nil {
		return nil, err
	}
	return top, nil
}

// ParseAll parses units until EOF, skipping stray semicolons. A failing unit
// is recorded and parsing resumes one token later.
func (p *Parser) ParseAll() (units []ast.Unit, errs []error) {
	for {
		if p.cur.Is(';') {
			p.Skip()
			continue
		}

		unit, err := p.ParseTopLevel()
		if err == io.EOF {
			return
		}
		if err != nil {
			errs = append(errs, err)
			p.Skip()
			continue
		}

		units = append(units, unit)
	}
}

// ParseExpression parses a primary followed by any binary operator tail.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	return p.parseBinOpRHS(0, lhs)
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch {
	case p.cur.Kind == types.IDENT:
		return p.parseIdentifierExpr()
	case p.cur.Kind == types.NUMBER:
		num := ast.Number{Value: p.cur.Value, Pos: p.cur.Location}
		p.next()
		return num, nil
	case p.cur.Is('('):
		return p.parseParenExpr()
	}

	return nil, p.fail("unknown token when expecting an expression")
}

// parseParenExpr should be called with the parser on the opening paren.
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	p.next()

	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if !p.cur.Is(')') {
		return nil, p.fail("expected ')'")
	}
	p.next()

	return expr, nil
}

func (p *Parser) parseIdentifierExpr() (ast.Expr, error) {
	ident := p.cur
	p.next()

	if !p.cur.Is('(') {
		return ast.Variable{Name: ident.Text, Pos: ident.Location}, nil
	}
	p.next()

	var args []ast.Expr
	if !p.cur.Is(')') {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.cur.Is(')') {
				break
			}
			if !p.cur.Is(',') {
				return nil, p.fail("expected ')' or ',' in argument list")
			}
			p.next()
		}
	}

	end := p.cur.Location.To
	p.next()

	return ast.Call{
		Callee: ident.Text,
		Args:   args,
		Pos:    types.Span{From: ident.Location.From, To: end},
	}, nil
}

// parseBinOpRHS folds operators binding at least as tightly as minPrec onto
// lhs. Equal precedence associates to the left.
func (p *Parser) parseBinOpRHS(minPrec int, lhs ast.Expr) (ast.Expr, error) {
	for {
		tokPrec := p.tokPrecedence()
		if tokPrec < minPrec {
			return lhs, nil
		}

		op := p.cur.Char
		p.next()

		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		// the operator after rhs binds tighter, so it takes rhs as its lhs
		if tokPrec < p.tokPrecedence() {
			rhs, err = p.parseBinOpRHS(tokPrec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = ast.Binary{
			Op:  op,
			LHS: lhs,
			RHS: rhs,
			Pos: types.Span{From: ast.Pos(lhs).From, To: ast.Pos(rhs).To},
		}
	}
}

// ParsePrototype parses `name(a b c)`.
func (p *Parser) ParsePrototype() (ast.Prototype, error) {
	if p.cur.Kind != types.IDENT {
		return ast.Prototype{}, p.fail("expected function name in prototype")
	}
	if p.cur.Text == ast.AnonName {
		return ast.Prototype{}, p.fail("function name is reserved")
	}
	name := p.cur
	p.next()

	if !p.cur.Is('(') {
		return ast.Prototype{}, p.fail("expected '(' in prototype")
	}

	var params []string
	seen := map[string]bool{}
	for p.next().Kind == types.IDENT {
		if seen[p.cur.Text] {
			return ast.Prototype{}, errors.DuplicateParameter{
				Name:     p.cur.Text,
				Function: name.Text,
				Location: p.cur.Location,
			}
		}
		seen[p.cur.Text] = true
		params = append(params, p.cur.Text)
	}

	if !p.cur.Is(')') {
		return ast.Prototype{}, p.fail("expected ')' in prototype")
	}
	end := p.cur.Location.To
	p.next()

	return ast.Prototype{
		Name:   name.Text,
		Params: params,
		Pos:    types.Span{From: name.Location.From, To: end},
	}, nil
}

// ParseDefinition parses `def prototype expression`.
func (p *Parser) ParseDefinition() (ast.Function, error) {
	p.next()

	proto, err := p.ParsePrototype()
	if err != nil {
		return ast.Function{}, err
	}

	body, err := p.ParseExpression()
	if err != nil {
		return ast.Function{}, err
	}

	return ast.Function{Proto: proto, Body: body}, nil
}

// ParseExtern parses `extern prototype`.
func (p *Parser) ParseExtern() (ast.Extern, error) {
	p.next()

	proto, err := p.ParsePrototype()
	if err != nil {
		return ast.Extern{}, err
	}

	return ast.Extern{Proto: proto}, nil
}

// ParseTopLevelExpr parses an expression and wraps it in a nameless
// function with no parameters.
func (p *Parser) ParseTopLevelExpr() (ast.TopLevelExpr, error) {
	body, err := p.ParseExpression()
	if err != nil {
		return ast.TopLevelExpr{}, err
	}

	return ast.TopLevelExpr{
		Function: ast.Function{
			Proto: ast.Prototype{Name: ast.AnonName, Pos: ast.Pos(body)},
			Body:  body,
		},
	}, nil
}
