// Package reader loads the type information embedded in a built kaleido
// library.
package reader

import (
	"github.com/coreos/pkg/dlopen"
	"tlog.app/go/errors"
)

import "C"

// TypeInfoSymbol is the NUL terminated JSON global every library carries.
const TypeInfoSymbol = "__kaleido_types"

func ReadTypeInfo(from string) (string, error) {
	handle, err := dlopen.GetHandle([]string{from})
	if err != nil {
		return "", errors.Wrap(err, "open %s", from)
	}
	defer handle.Close()

	sym, err := handle.GetSymbolPointer(TypeInfoSymbol)
	if err != nil {
		return "", errors.Wrap(err, "%s is not a kaleido library", from)
	}

	str := C.GoString((*C.char)(sym))
	return str, nil
}
