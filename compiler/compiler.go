package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/lilpcc/compiler/ast"
	"github.com/slowlang/lilpcc/compiler/back"
)

func LoadFile(ctx context.Context, name string) (*ast.Program, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	p, err := ast.Decode(text)
	if err != nil {
		return nil, errors.Wrap(err, "decode %v", name)
	}

	return p, nil
}

func CompileFile(ctx context.Context, c *back.Compiler, name string) (obj []byte, err error) {
	p, err := LoadFile(ctx, name)
	if err != nil {
		return nil, err
	}

	return Compile(ctx, c, p)
}

func Compile(ctx context.Context, c *back.Compiler, p *ast.Program) (obj []byte, err error) {
	if c == nil {
		c = back.New()
	}

	obj, err = c.CompileProgram(ctx, nil, p)
	if err != nil {
		return nil, errors.Wrap(err, "compile")
	}

	return obj, nil
}

// WriteFile writes the whole artifact at once.
// Nothing is written if generation failed before.
func WriteFile(ctx context.Context, name string, obj []byte) error {
	err := os.WriteFile(name, obj, 0o644)
	if err != nil {
		return errors.Wrap(err, "write %v", name)
	}

	tlog.SpanFromContext(ctx).Printw("output written", "name", name, "size", len(obj))

	return nil
}
