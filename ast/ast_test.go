package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	e := Binary{
		Op:  '+',
		LHS: Number{Value: 1},
		RHS: Binary{Op: '*', LHS: Variable{Name: "x"}, RHS: Call{Callee: "f", Args: []Expr{Number{Value: 2.5}, Variable{Name: "y"}}}},
	}
	assert.Equal(t, "(1 + (x * f(2.5, y)))", String(e))
}

func TestUnitString(t *testing.T) {
	proto := Prototype{Name: "add", Params: []string{"a", "b"}}
	assert.Equal(t, 2, proto.Arity())

	fn := Function{Proto: proto, Body: Binary{Op: '+', LHS: Variable{Name: "a"}, RHS: Variable{Name: "b"}}}
	assert.Equal(t, "def add(a b) (a + b)", fn.String())
	assert.Equal(t, "extern add(a b)", Extern{Proto: proto}.String())

	top := TopLevelExpr{Function{Proto: Prototype{Name: AnonName}, Body: Number{Value: 4}}}
	assert.Equal(t, "4", top.String())
}
