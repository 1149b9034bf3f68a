package main

import (
	"context"
	"strings"
	"testing"

	"github.com/pontaoski/kaleido/codegen"
	"github.com/pontaoski/kaleido/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowerSource(t *testing.T, src string) *driver.Driver {
	t.Helper()

	d, err := driver.New(codegen.NewSession(codegen.NewLLVM(nil)), driver.WithoutEvaluation())
	require.NoError(t, err)
	require.NoError(t, d.Run(context.Background(), strings.NewReader(src), "test"))
	require.Empty(t, d.Errors())

	return d
}

func TestAddEntry(t *testing.T) {
	d := lowerSource(t, "extern putchard(c) extern sin(x) def main() putchard(72) + sin(0)")
	m := d.Module()

	require.NoError(t, addBuiltins(m))
	require.True(t, addEntry(m))

	putchard := lookupFunc(m, "putchard")
	require.NotNil(t, putchard)
	assert.NotEmpty(t, putchard.Blocks, "putchard gets a body")
	assert.Empty(t, lookupFunc(m, "sin").Blocks, "sin stays an extern")
	assert.NotNil(t, lookupFunc(m, "putchar"))

	text := m.String()
	assert.Contains(t, text, "define i32 @main()")
	assert.Contains(t, text, "define double @kaleido.main()")
}

func TestBuiltinsRejectForeignLibcSignature(t *testing.T) {
	d := lowerSource(t, "extern putchar(c) extern putchard(c)")
	assert.Error(t, addBuiltins(d.Module()))

	d = lowerSource(t, "extern printd(x) def printf(f) f")
	assert.Error(t, addBuiltins(d.Module()))
}

func TestBuiltinsReuseLibcDeclaration(t *testing.T) {
	d := lowerSource(t, "extern putchard(c) extern printd(x)")
	m := d.Module()
	require.NoError(t, addBuiltins(m))

	count := 0
	for _, fn := range m.Funcs {
		if fn.Name() == "printf" {
			count++
			assert.True(t, fn.Sig.Variadic)
		}
	}
	assert.Equal(t, 1, count)
}

func TestAddEntryNeedsMain(t *testing.T) {
	d := lowerSource(t, "def main(x) x")
	assert.False(t, addEntry(d.Module()))
}

func TestTypeInfo(t *testing.T) {
	d := lowerSource(t, "extern sin(x) def add(a b) a + b")

	info := collectTypeInfo("calc", d.Module())
	assert.Equal(t, typeInfo{
		Package:   "calc",
		Functions: map[string]int{"add": 2},
		Externs:   map[string]int{"sin": 1},
	}, info)

	registerTypeInfoWithModule(info, d.Module())
	assert.Contains(t, d.Module().String(), "@__kaleido_types")
}
