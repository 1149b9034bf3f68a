package parser

import (
	"sort"

	"tlog.app/go/errors"
)

// Precedence maps binary operator characters to binding strength. Higher
// binds tighter; anything not listed, or listed as zero or less, is not an
// infix operator.
type Precedence map[rune]int

func DefaultPrecedence() Precedence {
	return Precedence{
		'<': 10,
		'+': 20,
		'-': 20,
		'*': 40,
	}
}

// Of returns the precedence of op, or -1 when op is not an infix operator.
func (p Precedence) Of(op rune) int {
	prec, ok := p[op]
	if !ok || prec <= 0 {
		return -1
	}
	return prec
}

// Copy returns an independent table.
func (p Precedence) Copy() Precedence {
	c := make(Precedence, len(p))
	for op, prec := range p {
		c[op] = prec
	}
	return c
}

// Validate fails if the table makes an operator legal that supported does
// not contain.
func (p Precedence) Validate(supported []rune) error {
	known := map[rune]bool{}
	for _, op := range supported {
		known[op] = true
	}

	var ops []rune
	for op, prec := range p {
		if prec > 0 && !known[op] {
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		return nil
	}

	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })

	return errors.New("precedence table names unsupported operators: %q", string(ops))
}
