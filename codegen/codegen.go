package codegen

import (
	"sort"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
	"github.com/pontaoski/kaleido/ast"
	"github.com/pontaoski/kaleido/errors"
	"tlog.app/go/tlog"
)

var binOps = map[rune]BinOp{
	'+': OpAdd,
	'-': OpSub,
	'*': OpMul,
	'<': OpULT,
}

// SupportedOperators lists the infix operators lowering understands. A
// parser precedence table should not make any other operator legal.
func SupportedOperators() []rune {
	var ops []rune
	for op := range binOps {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Session lowers units into one module. The symbol table belongs to the
// function currently being lowered and only exists while its body is open.
// A Session is not safe for concurrent use.
type Session struct {
	b     Builder
	names map[string]value.Value
}

func NewSession(b Builder) *Session {
	return &Session{b: b}
}

func (s *Session) Builder() Builder {
	return s.b
}

func (s *Session) Module() *ir.Module {
	return s.b.Module()
}

// Lower lowers any parsed unit and returns the function it produced.
func (s *Session) Lower(u ast.Unit) (*ir.Func, error) {
	switch unit := u.(type) {
	case ast.Function:
		return s.LowerFunction(unit)
	case ast.Extern:
		return s.LowerPrototype(unit.Proto)
	case ast.TopLevelExpr:
		return s.LowerFunction(unit.Function)
	}

	panic("unhandled")
}

// LowerExpr emits e into the body LowerFunction currently has open.
// Outside of a body there is no symbol table and nothing to emit into.
func (s *Session) LowerExpr(e ast.Expr) (value.Value, error) {
	if s.names == nil {
		return nil, errors.NewLowerError(ast.Pos(e), "", "expression lowered outside of a function body")
	}

	switch expr := e.(type) {
	case ast.Number:
		return s.b.Constant(expr.Value), nil
	case ast.Variable:
		v, ok := s.names[expr.Name]
		if !ok {
			return nil, errors.NewLowerError(expr.Pos, expr.Name, "unknown variable name")
		}
		return v, nil
	case ast.Binary:
		l, err := s.LowerExpr(expr.LHS)
		if err != nil {
			return nil, err
		}
		r, err := s.LowerExpr(expr.RHS)
		if err != nil {
			return nil, err
		}

		op, ok := binOps[expr.Op]
		if !ok {
			return nil, errors.NewLowerError(expr.Pos, string(expr.Op), "invalid binary operator")
		}

		v := s.b.Binary(op, l, r)
		if op == OpULT {
			// no boolean type: widen the i1 to 0.0 or 1.0
			v = s.b.WidenBool(v)
		}
		return v, nil
	case ast.Call:
		fn, ok := s.b.LookupFunction(expr.Callee)
		if !ok {
			return nil, errors.NewLowerError(expr.Pos, expr.Callee, "unknown function referenced")
		}
		if len(fn.Params) != len(expr.Args) {
			return nil, errors.NewLowerError(expr.Pos, expr.Callee, "incorrect # arguments passed: want %d, got %d", len(fn.Params), len(expr.Args))
		}

		var args []value.Value
		for _, arg := range expr.Args {
			v, err := s.LowerExpr(arg)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}

		return s.b.Call(fn, args), nil
	}

	panic("unhandled")
}

// LowerPrototype declares the function, or returns the existing one when
// the arity agrees.
func (s *Session) LowerPrototype(p ast.Prototype) (*ir.Func, error) {
	if fn, ok := s.b.LookupFunction(p.Name); ok && len(fn.Params) != p.Arity() {
		return nil, errors.NewLowerError(p.Pos, p.Name, "function redeclared with %d arguments, previously %d", p.Arity(), len(fn.Params))
	}

	return s.b.DeclareFunction(p.Name, p.Params), nil
}

// LowerFunction emits the body of f. On failure the module is left as it
// was before the call: a new function is erased, an earlier declaration
// loses the half built body.
func (s *Session) LowerFunction(f ast.Function) (*ir.Func, error) {
	fn, existed := s.b.LookupFunction(f.Proto.Name)
	if existed && len(fn.Blocks) > 0 {
		return nil, errors.NewLowerError(f.Proto.Pos, f.Proto.Name, "function cannot be redefined")
	}

	fn, err := s.LowerPrototype(f.Proto)
	if err != nil {
		return nil, err
	}

	s.b.BeginBody(fn)

	s.names = make(map[string]value.Value, len(fn.Params))
	defer func() { s.names = nil }()
	for i, param := range fn.Params {
		s.names[f.Proto.Params[i]] = param
	}

	ret, err := s.LowerExpr(f.Body)
	if err != nil {
		if existed {
			s.b.ResetBody(fn)
		} else {
			s.b.Erase(fn)
		}
		return nil, err
	}

	s.b.Return(ret)

	if err := s.b.Verify(fn); err != nil {
		tlog.Printw("verify function", "name", fn.Name(), "err", err)
	}

	return fn, nil
}
