package eval

import (
	"fmt"
	"io"
	"math"
)

// Builtin backs an extern declaration.
type Builtin struct {
	Arity int
	Fn    func(out io.Writer, args []float64) float64
}

func math1(f func(float64) float64) Builtin {
	return Builtin{Arity: 1, Fn: func(_ io.Writer, args []float64) float64 { return f(args[0]) }}
}

func math2(f func(float64, float64) float64) Builtin {
	return Builtin{Arity: 2, Fn: func(_ io.Writer, args []float64) float64 { return f(args[0], args[1]) }}
}

// DefaultBuiltins returns the externs every machine starts with.
func DefaultBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"sin":  math1(math.Sin),
		"cos":  math1(math.Cos),
		"tan":  math1(math.Tan),
		"atan": math1(math.Atan),
		"sqrt": math1(math.Sqrt),
		"exp":  math1(math.Exp),
		"log":  math1(math.Log),
		"fabs": math1(math.Abs),
		"pow":  math2(math.Pow),
		"fmod": math2(math.Mod),

		// putchard writes the character with code x and returns 0.
		"putchard": {Arity: 1, Fn: func(out io.Writer, args []float64) float64 {
			fmt.Fprintf(out, "%c", rune(args[0]))
			return 0
		}},
		// printd writes x on its own line and returns 0.
		"printd": {Arity: 1, Fn: func(out io.Writer, args []float64) float64 {
			fmt.Fprintf(out, "%f\n", args[0])
			return 0
		}},
	}
}
