package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/kaleido/codegen"
	"github.com/pontaoski/kaleido/driver"
	"github.com/pontaoski/kaleido/lexer"
	"github.com/pontaoski/kaleido/parser"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// loadModule reads the optional module information and builds a driver
// configured by it and the command flags.
func loadModule(c *cli.Context, opts ...driver.Option) (kaleidoModule, *driver.Driver, error) {
	doc, err := readModuleInfoIfAny(moduleInfoFile)
	if err != nil {
		return doc, nil, err
	}

	prec, err := doc.precedence()
	if err != nil {
		return doc, nil, err
	}

	opts = append([]driver.Option{
		driver.WithOutput(os.Stdout),
		driver.WithDiagnostics(os.Stderr),
		driver.WithPrecedence(prec),
		driver.WithIR(c.Bool("ir")),
	}, opts...)

	d, err := driver.New(codegen.NewSession(codegen.NewLLVM(nil)), opts...)
	if err != nil {
		return doc, nil, errors.Wrap(err, moduleInfoFile)
	}

	return doc, d, nil
}

func sourceFiles(c *cli.Context, doc kaleidoModule) ([]string, error) {
	if c.Args().Present() {
		return c.Args().Slice(), nil
	}
	return doc.sources("./")
}

func runFiles(ctx context.Context, d *driver.Driver, files []string) error {
	for _, name := range files {
		handle, err := os.Open(name)
		if err != nil {
			return tracerr.Wrap(err)
		}

		err = d.Run(ctx, handle, name)
		handle.Close()
		if err != nil {
			return err
		}
	}

	if n := len(d.Errors()); n != 0 {
		return cli.Exit(fmt.Sprintf("%d errors", n), 1)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	if c.Bool("verbose") {
		tlog.DefaultLogger = tlog.New(tlog.NewConsoleWriter(os.Stderr, tlog.LstdFlags))
	} else {
		tlog.DefaultLogger = tlog.New(ioutil.Discard)
	}
	return nil
}

func rootContext() context.Context {
	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}

var irFlag = &cli.BoolFlag{
	Name:  "ir",
	Usage: "print the IR of every unit",
}

func main() {
	app := &cli.App{
		Name:  "kaleido",
		Usage: "kaleido compiler",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log what the compiler does to stderr",
			},
		},
		Before: setupLogger,
		ExitErrHandler: func(context *cli.Context, err error) {
			if err == nil {
				return
			}
			if exit, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, exit.Error())
				os.Exit(exit.ExitCode())
			}
			tracerr.PrintSourceColor(err)
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "init a directory",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return cli.Exit("no module name provided", 1)
					}

					return writeModuleInfo(moduleInfoFile, kaleidoModule{
						Package: name,
					})
				},
			},
			{
				Name:      "run",
				Usage:     "evaluate source files",
				ArgsUsage: "[files...]",
				Flags: []cli.Flag{
					irFlag,
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the final module",
					},
				},
				Action: func(c *cli.Context) error {
					doc, d, err := loadModule(c)
					if err != nil {
						return err
					}

					files, err := sourceFiles(c, doc)
					if err != nil {
						return err
					}

					err = runFiles(rootContext(), d, files)

					if c.Bool("dump") {
						fmt.Print(d.Module().String())
					}

					return err
				},
			},
			{
				Name:  "repl",
				Usage: "read and evaluate units interactively",
				Flags: []cli.Flag{irFlag},
				Action: func(c *cli.Context) error {
					_, d, err := loadModule(c)
					if err != nil {
						return err
					}

					return runREPL(rootContext(), d)
				},
			},
			{
				Name:      "ast",
				Usage:     "dump the syntax tree of source files",
				ArgsUsage: "[files...]",
				Action: func(c *cli.Context) error {
					doc, err := readModuleInfoIfAny(moduleInfoFile)
					if err != nil {
						return err
					}
					prec, err := doc.precedence()
					if err != nil {
						return err
					}
					files, err := sourceFiles(c, doc)
					if err != nil {
						return err
					}

					failed := 0
					for _, name := range files {
						handle, err := os.Open(name)
						if err != nil {
							return tracerr.Wrap(err)
						}

						p := parser.New(lexer.NewLexer(handle, name), parser.WithPrecedence(prec))
						units, errs := p.ParseAll()
						handle.Close()

						for _, unit := range units {
							repr.Println(unit)
						}
						for _, err := range errs {
							fmt.Fprintf(os.Stderr, "Error: %v\n", err)
						}
						failed += len(errs)
					}

					if failed != 0 {
						return cli.Exit(fmt.Sprintf("%d errors", failed), 1)
					}
					return nil
				},
			},
			{
				Name:  "typeinfo",
				Usage: "dump typeinfo from a compiled library",
				Action: func(c *cli.Context) error {
					file := c.Args().Get(0)
					data, err := getTypeInfoFromFile(file)
					if err != nil {
						return err
					}
					repr.Println(data)
					return nil
				},
			},
			{
				Name:  "build",
				Usage: "build the module",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "output",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Value: false,
					},
					&cli.BoolFlag{
						Name:  "library",
						Value: false,
					},
					&cli.StringSliceFlag{
						Name:  "force-import",
						Value: cli.NewStringSlice(),
					},
				},
				Action: func(c *cli.Context) error {
					doc, err := readModuleInfo(moduleInfoFile)
					if err != nil {
						return err
					}

					out := c.String("output")
					if out == "" {
						out = doc.Package
					}
					if c.Bool("library") {
						out += ".so"
					}

					_, d, err := loadModule(c, driver.WithOutput(ioutil.Discard), driver.WithoutEvaluation())
					if err != nil {
						return err
					}

					files, err := sourceFiles(c, doc)
					if err != nil {
						return err
					}

					err = runFiles(rootContext(), d, files)
					if err != nil {
						return err
					}

					m := d.Module()
					if err := addBuiltins(m); err != nil {
						return err
					}
					if c.Bool("library") {
						registerTypeInfoWithModule(collectTypeInfo(doc.Package, m), m)
					} else if !addEntry(m) {
						return cli.Exit("no zero argument main function to start the executable in", 1)
					}

					module := m.String()

					if c.Bool("dump") {
						fmt.Println(module)
						return nil
					}

					cmd := exec.Command("clang", "-o", out)

					for _, lib := range c.StringSlice("force-import") {
						cmd.Args = append(cmd.Args, lib)
					}

					if c.Bool("library") {
						cmd.Args = append(cmd.Args, "-shared", "-fPIC")
					}

					fi, err := ioutil.TempFile("", "*.ll")
					if err != nil {
						return err
					}
					defer os.Remove(fi.Name())
					defer fi.Close()

					_, err = io.Copy(fi, strings.NewReader(module))
					if err != nil {
						return err
					}

					cmd.Args = append(cmd.Args, fi.Name(), "-lm")

					cmd.Stdout = os.Stdout
					cmd.Stderr = os.Stderr

					err = cmd.Run()
					if err != nil {
						return tracerr.Wrap(err)
					}

					return nil
				},
			},
		},
	}
	app.Run(os.Args)
}
