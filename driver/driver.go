// Package driver runs the top level loop: parse a unit, lower it, report
// the result, and on failure resume one token later.
package driver

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/llir/llvm/ir"
	"github.com/pontaoski/kaleido/ast"
	"github.com/pontaoski/kaleido/codegen"
	"github.com/pontaoski/kaleido/eval"
	"github.com/pontaoski/kaleido/lexer"
	"github.com/pontaoski/kaleido/parser"
	"github.com/pontaoski/kaleido/types"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type Driver struct {
	s    *codegen.Session
	m    *eval.Machine
	prec parser.Precedence

	out     io.Writer
	diag    io.Writer
	printIR bool

	errs []error
}

type Option func(*Driver)

// WithOutput sets where results and builtin output go.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) { d.out = w }
}

// WithDiagnostics sets where one line per failure is written.
func WithDiagnostics(w io.Writer) Option {
	return func(d *Driver) { d.diag = w }
}

// WithPrecedence makes every parser use prec instead of the default table.
func WithPrecedence(prec parser.Precedence) Option {
	return func(d *Driver) { d.prec = prec.Copy() }
}

// WithIR prints the IR of every lowered unit.
func WithIR(on bool) Option {
	return func(d *Driver) { d.printIR = on }
}

// WithoutEvaluation lowers top level expressions but does not run them.
func WithoutEvaluation() Option {
	return func(d *Driver) { d.m = nil }
}

func New(s *codegen.Session, opts ...Option) (*Driver, error) {
	d := &Driver{
		s:    s,
		prec: parser.DefaultPrecedence(),
		out:  ioutil.Discard,
		diag: ioutil.Discard,
	}
	d.m = eval.New(nil)
	for _, opt := range opts {
		opt(d)
	}
	if d.m != nil {
		d.m.Out = d.out
	}

	if err := d.prec.Validate(codegen.SupportedOperators()); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Driver) Module() *ir.Module {
	return d.s.Module()
}

func (d *Driver) Session() *codegen.Session {
	return d.s
}

// Errors returns every unit failure reported so far.
func (d *Driver) Errors() []error {
	return d.errs
}

func (d *Driver) report(err error) {
	d.errs = append(d.errs, err)
	fmt.Fprintf(d.diag, "Error: %v\n", err)
}

// Run handles every unit in r. Unit failures are reported and skipped; the
// returned error is only for cancellation or failing to read r.
func (d *Driver) Run(ctx context.Context, r io.Reader, name string) error {
	tr := tlog.SpanFromContext(ctx)

	l := lexer.NewLexer(r, name)
	p := parser.New(l, parser.WithPrecedence(d.prec))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tok := p.Cur()
		switch {
		case tok.Kind == types.EOF:
			if err := l.Err(); err != nil {
				return errors.Wrap(err, "read %s", name)
			}
			return nil
		case tok.Is(';'):
			p.Skip()
			continue
		}

		unit, err := p.ParseTopLevel()
		if err != nil {
			tr.Printw("parse failed", "at", p.Cur().Location.String(), "err", err)
			d.report(err)
			p.Skip()
			continue
		}

		d.handle(tr, unit)
	}
}

func (d *Driver) handle(tr tlog.Span, unit ast.Unit) {
	switch u := unit.(type) {
	case ast.Function:
		fn, err := d.s.LowerFunction(u)
		if err != nil {
			d.report(err)
			return
		}
		tr.Printw("definition", "name", u.Proto.Name, "arity", u.Proto.Arity())

		if d.printIR {
			fmt.Fprintf(d.out, "Read function definition:\n%s\n", fn.LLString())
		}
	case ast.Extern:
		fn, err := d.s.LowerPrototype(u.Proto)
		if err != nil {
			d.report(err)
			return
		}
		tr.Printw("extern", "name", u.Proto.Name, "arity", u.Proto.Arity())

		if d.printIR {
			fmt.Fprintf(d.out, "Read extern:\n%s\n", fn.LLString())
		}
	case ast.TopLevelExpr:
		fn, err := d.s.LowerFunction(u.Function)
		if err != nil {
			d.report(err)
			return
		}
		// the anonymous function is rebuilt for every expression
		defer d.s.Builder().Erase(fn)

		tr.Printw("top level expression", "expr", u.String())

		if d.printIR {
			fmt.Fprintf(d.out, "Read top-level expression:\n%s\n", fn.LLString())
		}
		if d.m == nil {
			return
		}

		v, err := d.m.Run(fn)
		if err != nil {
			d.report(err)
			return
		}
		fmt.Fprintf(d.out, "Evaluated to %f\n", v)
	}
}
