// Package ast holds the parsed form of kaleido source. Every node owns its
// children; nothing is shared between trees.
package ast

//go:generate sh -c "cd ../tool && go run . ../ast/ast.adt ../ast/ast_sum.go ast"

import "github.com/pontaoski/kaleido/types"

// AnonName is the prototype name given to top level expressions.
const AnonName = "__anon_expr"

type Number struct {
	Value float64
	Pos   types.Span
}

type Variable struct {
	Name string
	Pos  types.Span
}

type Binary struct {
	Op  rune
	LHS Expr
	RHS Expr
	Pos types.Span
}

type Call struct {
	Callee string
	Args   []Expr
	Pos    types.Span
}

// Prototype is a function name and its parameter names. The order of Params
// is the argument binding order.
type Prototype struct {
	Name   string
	Params []string
	Pos    types.Span
}

func (p Prototype) Arity() int {
	return len(p.Params)
}

// Function is `def proto body`.
type Function struct {
	Proto Prototype
	Body  Expr
}

// Extern is `extern proto`, a declaration resolved outside the module.
type Extern struct {
	Proto Prototype
}

// TopLevelExpr is a bare expression wrapped in an AnonName function.
type TopLevelExpr struct {
	Function
}

// Pos returns the source span of e.
func Pos(e Expr) types.Span {
	switch expr := e.(type) {
	case Number:
		return expr.Pos
	case Variable:
		return expr.Pos
	case Binary:
		return expr.Pos
	case Call:
		return expr.Pos
	}
	return types.Span{}
}
