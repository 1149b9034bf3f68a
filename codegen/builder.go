package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"tlog.app/go/errors"
)

// Scalar is the only type in the language.
var Scalar = types.Double

type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	// OpULT is an unordered-or-less-than comparison producing an i1.
	OpULT
)

// Builder is everything the lowering visitor needs from a backend.
type Builder interface {
	// DeclareFunction returns the function called name, creating a
	// declaration taking len(params) scalars when there is none.
	DeclareFunction(name string, params []string) *ir.Func
	LookupFunction(name string) (*ir.Func, bool)
	// BeginBody opens the entry block of fn and moves the insert point there.
	BeginBody(fn *ir.Func)
	Constant(v float64) value.Value
	Binary(op BinOp, l, r value.Value) value.Value
	WidenBool(v value.Value) value.Value
	Call(fn *ir.Func, args []value.Value) value.Value
	Return(v value.Value)
	Verify(fn *ir.Func) error
	// Erase removes fn from the module.
	Erase(fn *ir.Func)
	// ResetBody drops the blocks of fn, leaving a declaration.
	ResetBody(fn *ir.Func)
	Module() *ir.Module
}

// LLVM builds LLVM IR with llir.
type LLVM struct {
	m     *ir.Module
	block *ir.Block
	names map[string]int
}

// NewLLVM builds into m, or into a fresh module when m is nil.
func NewLLVM(m *ir.Module) *LLVM {
	if m == nil {
		m = ir.NewModule()
	}
	return &LLVM{m: m}
}

func (l *LLVM) Module() *ir.Module {
	return l.m
}

func (l *LLVM) LookupFunction(name string) (*ir.Func, bool) {
	for _, fn := range l.m.Funcs {
		if fn.Name() == name {
			return fn, true
		}
	}
	return nil, false
}

func (l *LLVM) DeclareFunction(name string, params []string) *ir.Func {
	if fn, ok := l.LookupFunction(name); ok {
		// a later prototype renames the parameters of a bare declaration
		if len(fn.Blocks) == 0 && len(fn.Params) == len(params) {
			for i, param := range fn.Params {
				param.SetName(params[i])
			}
		}
		return fn
	}

	var irParams []*ir.Param
	for _, param := range params {
		irParams = append(irParams, ir.NewParam(param, Scalar))
	}

	return l.m.NewFunc(name, Scalar, irParams...)
}

func (l *LLVM) BeginBody(fn *ir.Func) {
	l.names = map[string]int{}
	for _, param := range fn.Params {
		l.names[param.Name()] = 1
	}

	// labels share the local namespace with params and instructions
	l.block = fn.NewBlock(l.name("entry"))
}

// name returns base made unique within the current function.
func (l *LLVM) name(base string) string {
	n := l.names[base]
	l.names[base] = n + 1
	if n == 0 {
		return base
	}

	for {
		candidate := fmt.Sprintf("%s%d", base, n)
		if l.names[candidate] == 0 {
			l.names[candidate] = 1
			return candidate
		}
		n++
	}
}

func (l *LLVM) Constant(v float64) value.Value {
	return constant.NewFloat(Scalar, v)
}

func (l *LLVM) Binary(op BinOp, x, y value.Value) value.Value {
	switch op {
	case OpAdd:
		inst := l.block.NewFAdd(x, y)
		inst.SetName(l.name("addtmp"))
		return inst
	case OpSub:
		inst := l.block.NewFSub(x, y)
		inst.SetName(l.name("subtmp"))
		return inst
	case OpMul:
		inst := l.block.NewFMul(x, y)
		inst.SetName(l.name("multmp"))
		return inst
	case OpULT:
		inst := l.block.NewFCmp(enum.FPredULT, x, y)
		inst.SetName(l.name("cmptmp"))
		return inst
	}

	panic(fmt.Sprintf("unhandled binary op %d", op))
}

func (l *LLVM) WidenBool(v value.Value) value.Value {
	inst := l.block.NewUIToFP(v, Scalar)
	inst.SetName(l.name("booltmp"))
	return inst
}

func (l *LLVM) Call(fn *ir.Func, args []value.Value) value.Value {
	inst := l.block.NewCall(fn, args...)
	inst.SetName(l.name("calltmp"))
	return inst
}

func (l *LLVM) Return(v value.Value) {
	l.block.NewRet(v)
}

func (l *LLVM) Erase(fn *ir.Func) {
	for i, f := range l.m.Funcs {
		if f == fn {
			l.m.Funcs = append(l.m.Funcs[:i], l.m.Funcs[i+1:]...)
			return
		}
	}
}

func (l *LLVM) ResetBody(fn *ir.Func) {
	fn.Blocks = nil
}

// Verify checks the shape lowering is expected to produce: scalar
// signature, every block terminated by a scalar return, calls that match
// their callee and stay inside the module.
func (l *LLVM) Verify(fn *ir.Func) error {
	if !fn.Sig.RetType.Equal(Scalar) {
		return errors.New("%s: return type %v is not %v", fn.Name(), fn.Sig.RetType, Scalar)
	}
	params := map[string]bool{}
	for _, param := range fn.Params {
		if !param.Type().Equal(Scalar) {
			return errors.New("%s: parameter %s has type %v", fn.Name(), param.Name(), param.Type())
		}
		params[param.Name()] = true
	}
	if len(fn.Blocks) == 0 {
		return errors.New("%s: no body", fn.Name())
	}

	for _, block := range fn.Blocks {
		if params[block.Name()] {
			return errors.New("%s: block %s shadows a parameter", fn.Name(), block.Name())
		}

		ret, ok := block.Term.(*ir.TermRet)
		if !ok {
			return errors.New("%s: block %s does not end in a return", fn.Name(), block.Name())
		}
		if ret.X == nil || !ret.X.Type().Equal(Scalar) {
			return errors.New("%s: block %s does not return a %v", fn.Name(), block.Name(), Scalar)
		}

		for _, inst := range block.Insts {
			call, ok := inst.(*ir.InstCall)
			if !ok {
				continue
			}

			callee, ok := call.Callee.(*ir.Func)
			if !ok {
				return errors.New("%s: indirect call", fn.Name())
			}
			if _, ok := l.LookupFunction(callee.Name()); !ok {
				return errors.New("%s: call to %s outside of the module", fn.Name(), callee.Name())
			}
			if len(call.Args) != len(callee.Params) {
				return errors.New("%s: call to %s with %d arguments, want %d", fn.Name(), callee.Name(), len(call.Args), len(callee.Params))
			}
		}
	}

	return nil
}
