// Command adtGen writes the marker interfaces that close the ast sum types.
//
//	adtGen <in.adt> <out.go> <package>
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type SumDecls struct {
	Declarations []*Declaration `@@*`
}

// Declaration is `sum Expr = Number | Variable;`.
type Declaration struct {
	Name  string   `"sum" @Ident "="`
	Cases []string `@Ident ("|" @Ident)* ";"`
}

func GenerateDecls(pkgname, source string, t *SumDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment(fmt.Sprintf("Code generated by adtGen from %s. DO NOT EDIT.", source))

	for _, decl := range t.Declarations {
		marker := "is" + decl.Name

		f.Type().Id(decl.Name).Interface(
			Id(marker).Params(),
		)

		for _, it := range decl.Cases {
			f.Func().Params(Id("v").Id(it)).Id(marker).Params().Block()
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtGen <in.adt> <out.go> <package>")
		os.Exit(2)
	}

	parser := participle.MustBuild(&SumDecls{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	decls := SumDecls{}
	err = parser.ParseBytes(inData, &decls)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(pkgname, "ast.adt", &decls)), 0644)
	if err != nil {
		panic(err)
	}
}
