package main

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/pontaoski/kaleido/codegen"
	"tlog.app/go/errors"
)

// entryName is the kaleido function a built executable starts in.
const entryName = "main"

var zero = constant.NewInt(types.I32, 0)

func lookupFunc(m *ir.Module, name string) *ir.Func {
	for _, fn := range m.Funcs {
		if fn.Name() == name {
			return fn
		}
	}
	return nil
}

// libcFunc declares a C library function, reusing an existing declaration
// only when its signature is the C one.
func libcFunc(m *ir.Module, name string, variadic bool, ret types.Type, params ...*ir.Param) (*ir.Func, error) {
	var paramTypes []types.Type
	for _, param := range params {
		paramTypes = append(paramTypes, param.Typ)
	}
	sig := types.NewFunc(ret, paramTypes...)
	sig.Variadic = variadic

	if fn := lookupFunc(m, name); fn != nil {
		if !fn.Sig.Equal(sig) {
			return nil, errors.New("%s is declared as %v, which conflicts with the C library %v", name, fn.Sig, sig)
		}
		return fn, nil
	}

	fn := m.NewFunc(name, ret, params...)
	fn.Sig.Variadic = variadic
	return fn, nil
}

// addBuiltins gives bodies to the declared externs that have no native
// counterpart. The math externs link against libm as they are.
func addBuiltins(m *ir.Module) error {
	funcs := map[string]func(*ir.Module, *ir.Func) error{
		"putchard": addPutchard,
		"printd":   addPrintd,
	}

	for _, fn := range append([]*ir.Func(nil), m.Funcs...) {
		add, ok := funcs[fn.Name()]
		if !ok || len(fn.Blocks) != 0 || len(fn.Params) != 1 {
			continue
		}
		if err := add(m, fn); err != nil {
			return errors.Wrap(err, "builtin %s", fn.Name())
		}
	}

	return nil
}

func addPutchard(m *ir.Module, fn *ir.Func) error {
	putchar, err := libcFunc(m, "putchar", false, types.I32, ir.NewParam("c", types.I32))
	if err != nil {
		return err
	}

	entry := fn.NewBlock("entry")
	c := entry.NewFPToSI(fn.Params[0], types.I32)
	entry.NewCall(putchar, c)
	entry.NewRet(constant.NewFloat(codegen.Scalar, 0))

	return nil
}

func addPrintd(m *ir.Module, fn *ir.Func) error {
	printf, err := libcFunc(m, "printf", true, types.I32, ir.NewParam("format", types.NewPointer(types.I8)))
	if err != nil {
		return err
	}

	format := m.NewGlobalDef(".printd_format", constant.NewCharArrayFromString("%f\n\x00"))
	format.Immutable = true

	entry := fn.NewBlock("entry")
	ptr := entry.NewGetElementPtr(format.ContentType, format, zero, zero)
	entry.NewCall(printf, ptr, fn.Params[0])
	entry.NewRet(constant.NewFloat(codegen.Scalar, 0))

	return nil
}

// addEntry renames the kaleido entry function and wraps it in a C main
// whose exit status is the truncated result.
func addEntry(m *ir.Module) bool {
	fn := lookupFunc(m, entryName)
	if fn == nil || len(fn.Blocks) == 0 || len(fn.Params) != 0 {
		return false
	}
	fn.SetName("kaleido." + entryName)

	cmain := m.NewFunc("main", types.I32)
	entry := cmain.NewBlock("entry")

	ret := entry.NewCall(fn)
	entry.NewRet(entry.NewFPToSI(ret, types.I32))

	return true
}
