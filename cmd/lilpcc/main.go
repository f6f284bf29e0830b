package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/ext/tlflag"

	"github.com/slowlang/lilpcc/compiler"
	"github.com/slowlang/lilpcc/compiler/asm/mips"
	"github.com/slowlang/lilpcc/compiler/back"
	"github.com/slowlang/lilpcc/compiler/format"
	"github.com/slowlang/lilpcc/compiler/sim"
)

func main() {
	astCmd := &cli.Command{
		Name:        "ast",
		Description: "print the tree the way the parsing stage handed it over",
		Action:      astAct,
		Args:        cli.Args{},
	}

	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "generate assembly",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "out.asm", "output file, - for stdout"),
			cli.NewFlag("entry", back.DefaultEntry, "function the program starts with"),
		},
	}

	runCmd := &cli.Command{
		Name:        "run",
		Description: "compile and execute in the simulator",
		Action:      runAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("entry", back.DefaultEntry, "function the program starts with"),
			cli.NewFlag("max-steps", sim.DefaultMaxSteps, "instructions to execute before giving up"),
			cli.NewFlag("print-asm", false, "print generated assembly"),
		},
	}

	app := &cli.Command{
		Name:        "lilpcc",
		Description: "lilpcc lowers syntax trees into mips assembly",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("log", "stderr?console=dm", "log output file (or stderr)"),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			astCmd,
			compileCmd,
			runCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	w, err := tlflag.OpenWriter(c.String("log"))
	if err != nil {
		return errors.Wrap(err, "open log file")
	}

	tlog.DefaultLogger = tlog.New(w)

	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func astAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := compiler.LoadFile(ctx, a)
		if err != nil {
			return err
		}

		b, err := format.Format(ctx, nil, p)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		_, err = os.Stdout.Write(b)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	if len(c.Args) != 1 {
		return errors.New("expected exactly one input file, got %d", len(c.Args))
	}

	comp := &back.Compiler{Entry: c.String("entry")}

	return compileTo(ctx, os.Stdout, comp, c.Args[0], c.String("output"))
}

// compileTo writes the assembly for src to out, or to stdout if out is "-".
func compileTo(ctx context.Context, stdout io.Writer, comp *back.Compiler, src, out string) error {
	obj, err := compiler.CompileFile(ctx, comp, src)
	if err != nil {
		return errors.Wrap(err, "compile %v", src)
	}

	if out != "-" {
		return compiler.WriteFile(ctx, out, obj)
	}

	_, err = stdout.Write(obj)
	if err != nil {
		return errors.Wrap(err, "write")
	}

	return nil
}

func runAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	if len(c.Args) != 1 {
		return errors.New("expected exactly one input file, got %d", len(c.Args))
	}

	comp := &back.Compiler{Entry: c.String("entry")}

	obj, err := compiler.CompileFile(ctx, comp, c.Args[0])
	if err != nil {
		return errors.Wrap(err, "compile %v", c.Args[0])
	}

	if c.Bool("print-asm") {
		fmt.Printf("%s", obj)
	}

	p, err := sim.Load(obj)
	if err != nil {
		return errors.Wrap(err, "load")
	}

	m := sim.New(p)
	m.MaxSteps = c.Int("max-steps")

	err = m.Run(ctx)
	if err != nil {
		return errors.Wrap(err, "run")
	}

	fmt.Printf("%v = %d\n", mips.Acc, m.Reg(mips.Acc))

	return nil
}
