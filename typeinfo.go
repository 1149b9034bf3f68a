package main

import (
	"encoding/json"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/pontaoski/kaleido/reader"
)

// typeInfo describes the functions a built library exports.
type typeInfo struct {
	Package   string         `json:"package"`
	Functions map[string]int `json:"functions"`
	Externs   map[string]int `json:"externs,omitempty"`
}

func collectTypeInfo(pkg string, m *ir.Module) typeInfo {
	t := typeInfo{
		Package:   pkg,
		Functions: map[string]int{},
	}

	for _, fn := range m.Funcs {
		if len(fn.Blocks) == 0 {
			if t.Externs == nil {
				t.Externs = map[string]int{}
			}
			t.Externs[fn.Name()] = len(fn.Params)
			continue
		}
		t.Functions[fn.Name()] = len(fn.Params)
	}

	return t
}

func registerTypeInfoWithModule(t typeInfo, m *ir.Module) {
	data, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}

	g := m.NewGlobalDef(reader.TypeInfoSymbol, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
}

func getTypeInfoFromFile(f string) (t typeInfo, err error) {
	data, err := reader.ReadTypeInfo(f)
	if err != nil {
		return typeInfo{}, err
	}

	err = json.Unmarshal([]byte(data), &t)
	return
}
