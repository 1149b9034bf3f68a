package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders e with every binary operation parenthesised, so the
// grouping chosen by the parser is visible.
func String(e Expr) string {
	switch expr := e.(type) {
	case Number:
		return strconv.FormatFloat(expr.Value, 'g', -1, 64)
	case Variable:
		return expr.Name
	case Binary:
		return fmt.Sprintf("(%s %c %s)", String(expr.LHS), expr.Op, String(expr.RHS))
	case Call:
		var args []string
		for _, arg := range expr.Args {
			args = append(args, String(arg))
		}
		return fmt.Sprintf("%s(%s)", expr.Callee, strings.Join(args, ", "))
	case nil:
		return "<nil>"
	}

	panic("unhandled")
}

func (p Prototype) String() string {
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(p.Params, " "))
}

func (f Function) String() string {
	return fmt.Sprintf("def %s %s", f.Proto, String(f.Body))
}

func (e Extern) String() string {
	return fmt.Sprintf("extern %s", e.Proto)
}

func (t TopLevelExpr) String() string {
	return String(t.Body)
}
