// Package eval runs lowered functions directly on their llir form. It
// understands exactly the instructions codegen emits.
package eval

import (
	"io"
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
	"tlog.app/go/errors"
)

const DefaultMaxDepth = 10000

type Machine struct {
	// Out receives the output of builtins such as putchard.
	Out      io.Writer
	Builtins map[string]Builtin
	MaxDepth int
}

func New(out io.Writer) *Machine {
	return &Machine{
		Out:      out,
		Builtins: DefaultBuiltins(),
		MaxDepth: DefaultMaxDepth,
	}
}

// Run calls fn with args.
func (m *Machine) Run(fn *ir.Func, args ...float64) (float64, error) {
	return m.call(fn, args, 0)
}

// RunNamed looks fn up in mod by name and calls it.
func (m *Machine) RunNamed(mod *ir.Module, name string, args ...float64) (float64, error) {
	for _, fn := range mod.Funcs {
		if fn.Name() == name {
			return m.Run(fn, args...)
		}
	}
	return 0, errors.New("no function %s in module", name)
}

func (m *Machine) call(fn *ir.Func, args []float64, depth int) (float64, error) {
	if len(args) != len(fn.Params) {
		return 0, errors.New("%s: called with %d arguments, want %d", fn.Name(), len(args), len(fn.Params))
	}

	if len(fn.Blocks) == 0 {
		b, ok := m.Builtins[fn.Name()]
		if !ok {
			return 0, errors.New("unresolved external %s", fn.Name())
		}
		if b.Arity != len(args) {
			return 0, errors.New("external %s takes %d arguments, declared with %d", fn.Name(), b.Arity, len(args))
		}
		return b.Fn(m.Out, args), nil
	}

	if depth >= m.MaxDepth {
		return 0, errors.New("%s: call depth exceeds %d", fn.Name(), m.MaxDepth)
	}

	fr := frame{vals: map[value.Value]float64{}}
	for i, param := range fn.Params {
		fr.vals[param] = args[i]
	}

	block := fn.Blocks[0]
	for _, inst := range block.Insts {
		if err := m.exec(&fr, inst, depth); err != nil {
			return 0, errors.Wrap(err, "%s", fn.Name())
		}
	}

	ret, ok := block.Term.(*ir.TermRet)
	if !ok || ret.X == nil {
		return 0, errors.New("%s: unsupported terminator %v", fn.Name(), block.Term)
	}

	return fr.get(ret.X)
}

type frame struct {
	vals map[value.Value]float64
}

func (fr *frame) get(v value.Value) (float64, error) {
	switch c := v.(type) {
	case *constant.Float:
		if c.NaN {
			return math.NaN(), nil
		}
		f, _ := c.X.Float64()
		return f, nil
	case *constant.Int:
		return float64(c.X.Int64()), nil
	}

	x, ok := fr.vals[v]
	if !ok {
		return 0, errors.New("use of undefined value %s", v.Ident())
	}
	return x, nil
}

func (fr *frame) get2(x, y value.Value) (a, b float64, err error) {
	a, err = fr.get(x)
	if err != nil {
		return
	}
	b, err = fr.get(y)
	return
}

func boolean(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (m *Machine) exec(fr *frame, inst ir.Instruction, depth int) error {
	switch in := inst.(type) {
	case *ir.InstFAdd:
		a, b, err := fr.get2(in.X, in.Y)
		if err != nil {
			return err
		}
		fr.vals[in] = a + b
	case *ir.InstFSub:
		a, b, err := fr.get2(in.X, in.Y)
		if err != nil {
			return err
		}
		fr.vals[in] = a - b
	case *ir.InstFMul:
		a, b, err := fr.get2(in.X, in.Y)
		if err != nil {
			return err
		}
		fr.vals[in] = a * b
	case *ir.InstFCmp:
		a, b, err := fr.get2(in.X, in.Y)
		if err != nil {
			return err
		}
		if in.Pred != enum.FPredULT {
			return errors.New("unsupported fcmp predicate %v", in.Pred)
		}
		fr.vals[in] = boolean(math.IsNaN(a) || math.IsNaN(b) || a < b)
	case *ir.InstUIToFP:
		a, err := fr.get(in.From)
		if err != nil {
			return err
		}
		fr.vals[in] = a
	case *ir.InstCall:
		callee, ok := in.Callee.(*ir.Func)
		if !ok {
			return errors.New("indirect call to %s", in.Callee.Ident())
		}

		args := make([]float64, len(in.Args))
		for i, arg := range in.Args {
			a, err := fr.get(arg)
			if err != nil {
				return err
			}
			args[i] = a
		}

		ret, err := m.call(callee, args, depth+1)
		if err != nil {
			return err
		}
		fr.vals[in] = ret
	default:
		return errors.New("unsupported instruction %T", inst)
	}

	return nil
}
